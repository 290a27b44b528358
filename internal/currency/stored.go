package currency

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/moviedb-cli/internal/model"
)

// RateStore persists rates between runs.
type RateStore interface {
	// GetCachedRate returns nil, nil when no rate is stored for the pair.
	GetCachedRate(ctx context.Context, from, to string) (*model.CachedRate, error)
	SetCachedRate(ctx context.Context, rate model.CachedRate) error
}

// StoredSource serves rates from a RateStore while they are fresh and
// refreshes them from an inner source otherwise. Only successful lookups are
// persisted.
type StoredSource struct {
	store RateStore
	inner RateSource
	ttl   time.Duration
	now   func() time.Time
}

// NewStoredSource creates a StoredSource keeping rates for ttl.
func NewStoredSource(store RateStore, inner RateSource, ttl time.Duration) *StoredSource {
	return &StoredSource{store: store, inner: inner, ttl: ttl, now: time.Now}
}

// Rate implements RateSource.
func (s *StoredSource) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from, to = Code(from), Code(to)
	now := s.now()

	cached, err := s.store.GetCachedRate(ctx, from, to)
	if err != nil {
		zap.L().Warn("currency: read rate cache", zap.String("from", from), zap.String("to", to), zap.Error(err))
	}
	if cached != nil && cached.Available && now.Before(cached.ExpiresAt) {
		if r, perr := decimal.NewFromString(cached.Rate); perr == nil {
			return r, nil
		}
	}

	r, err := s.inner.Rate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	rec := model.CachedRate{
		From:      from,
		To:        to,
		Rate:      r.String(),
		Available: true,
		FetchedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.SetCachedRate(ctx, rec); err != nil {
		zap.L().Warn("currency: write rate cache", zap.String("from", from), zap.String("to", to), zap.Error(err))
	}
	return r, nil
}
