// Package currency converts monetary amounts between currencies using
// pluggable rate sources and a per-run rate cache.
package currency

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// USD is the reference currency budgets are normalized to.
const USD = "USD"

// ErrRateUnavailable is returned when no conversion rate can be obtained for
// a currency pair. Network failures and unknown currencies are reported
// identically.
var ErrRateUnavailable = eris.New("currency: rate unavailable")

// RateSource looks up the rate converting one unit of from into to.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// Converter converts an amount between currencies.
type Converter interface {
	Convert(ctx context.Context, from, to string, amount decimal.Decimal) (decimal.Decimal, error)
}

// Code normalizes a currency code for lookups.
func Code(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// unavailable maps any lookup failure onto ErrRateUnavailable.
func unavailable(err error, from, to string) error {
	if errors.Is(err, ErrRateUnavailable) {
		return err
	}
	return eris.Wrapf(ErrRateUnavailable, "%s to %s: %v", from, to, err)
}
