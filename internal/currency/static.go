package currency

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// StaticFile is the YAML layout read by LoadStatic:
//
//	to: USD
//	rates:
//	  EUR: 1.08
//	  GBP: 1.27
//
// Each rate is the number of `to` units per one unit of the keyed currency.
type StaticFile struct {
	To    string             `yaml:"to"`
	Rates map[string]float64 `yaml:"rates"`
}

// StaticSource serves rates from a fixed table.
type StaticSource struct {
	to    string
	rates map[string]decimal.Decimal
}

// NewStaticSource builds a StaticSource converting into to.
func NewStaticSource(to string, rates map[string]float64) *StaticSource {
	s := &StaticSource{to: Code(to), rates: make(map[string]decimal.Decimal, len(rates))}
	for code, r := range rates {
		s.rates[Code(code)] = decimal.NewFromFloat(r)
	}
	return s
}

// LoadStatic reads a StaticFile from path.
func LoadStatic(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "currency: read static rates")
	}

	var f StaticFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "currency: parse static rates")
	}
	if f.To == "" {
		f.To = USD
	}
	for code, r := range f.Rates {
		if r <= 0 {
			return nil, eris.Errorf("currency: static rate for %s must be positive (got %v)", code, r)
		}
	}

	return NewStaticSource(f.To, f.Rates), nil
}

// Rate implements RateSource.
func (s *StaticSource) Rate(_ context.Context, from, to string) (decimal.Decimal, error) {
	from, to = Code(from), Code(to)
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if to != s.to {
		return decimal.Zero, eris.Wrapf(ErrRateUnavailable, "%s to %s: static table converts to %s", from, to, s.to)
	}
	r, ok := s.rates[from]
	if !ok {
		return decimal.Zero, eris.Wrapf(ErrRateUnavailable, "%s to %s: not in static table", from, to)
	}
	return r, nil
}
