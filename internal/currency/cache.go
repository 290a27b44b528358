package currency

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	rate decimal.Decimal
	err  error
}

// Cache memoizes the rate, or its unavailability, of each currency pair for
// the lifetime of a run. Concurrent lookups of the same pair share a single
// call to the underlying source.
type Cache struct {
	source  RateSource
	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]cacheEntry
	lookups atomic.Int64
}

// NewCache wraps source.
func NewCache(source RateSource) *Cache {
	return &Cache{source: source, entries: make(map[string]cacheEntry)}
}

// Rate returns the cached rate for the pair, consulting the source once.
func (c *Cache) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from, to = Code(from), Code(to)
	key := from + "/" + to

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return e.rate, e.err
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return e, nil
		}

		c.lookups.Add(1)
		r, err := c.source.Rate(ctx, from, to)
		if err != nil {
			err = unavailable(err, from, to)
			zap.L().Warn("currency: rate unavailable",
				zap.String("from", from),
				zap.String("to", to),
				zap.Error(err),
			)
		}
		e = cacheEntry{rate: r, err: err}

		// A cancelled run must not poison later lookups.
		if ctx.Err() == nil {
			c.mu.Lock()
			c.entries[key] = e
			c.mu.Unlock()
		}
		return e, nil
	})

	e = v.(cacheEntry)
	return e.rate, e.err
}

// Convert implements Converter.
func (c *Cache) Convert(ctx context.Context, from, to string, amount decimal.Decimal) (decimal.Decimal, error) {
	if Code(from) == Code(to) {
		return amount, nil
	}
	r, err := c.Rate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(r), nil
}

// Lookups returns how many times the underlying source was consulted.
func (c *Cache) Lookups() int64 {
	return c.lookups.Load()
}
