package currency

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sells-group/moviedb-cli/pkg/fxrates"
)

// LiveSource fetches rates from an exchange rate API.
type LiveSource struct {
	client fxrates.Client
}

// NewLiveSource creates a LiveSource backed by client.
func NewLiveSource(client fxrates.Client) *LiveSource {
	return &LiveSource{client: client}
}

// Rate implements RateSource.
func (s *LiveSource) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from, to = Code(from), Code(to)
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	r, err := s.client.Latest(ctx, from, to)
	if err != nil {
		return decimal.Zero, unavailable(err, from, to)
	}
	return r, nil
}
