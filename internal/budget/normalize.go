package budget

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/moviedb-cli/internal/currency"
	"github.com/sells-group/moviedb-cli/internal/model"
)

// Entry is a movie budget normalized to USD. USD is invalid (absent) when no
// conversion rate was available.
type Entry struct {
	Title    string              `json:"title"`
	Currency string              `json:"currency"`
	Amount   decimal.Decimal     `json:"amount"`
	USD      decimal.NullDecimal `json:"usd"`
}

// Normalizer converts parsed budgets to USD.
type Normalizer struct {
	conv        currency.Converter
	concurrency int
}

// NewNormalizer creates a Normalizer. concurrency bounds the number of
// records converted at once; values below 1 mean 1.
func NewNormalizer(conv currency.Converter, concurrency int) *Normalizer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Normalizer{conv: conv, concurrency: concurrency}
}

// Normalize parses raw and converts it to USD. Parse failures are returned
// as-is; an unavailable rate yields an Entry with an absent USD value.
func (n *Normalizer) Normalize(ctx context.Context, title, raw string) (Entry, error) {
	p, err := Parse(raw)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{Title: title, Currency: p.Currency, Amount: p.Amount}
	if p.Currency == currency.USD {
		e.USD = decimal.NewNullDecimal(p.Amount)
		return e, nil
	}

	usd, err := n.conv.Convert(ctx, p.Currency, currency.USD, p.Amount)
	if err != nil {
		if ctx.Err() != nil {
			return Entry{}, eris.Wrap(ctx.Err(), "budget: convert")
		}
		if !errors.Is(err, currency.ErrRateUnavailable) {
			zap.L().Warn("budget: conversion failed", zap.String("title", title), zap.Error(err))
		}
		return e, nil
	}
	e.USD = decimal.NewNullDecimal(usd)
	return e, nil
}

// NormalizeAll normalizes every movie's budget, preserving dataset order.
// Movies without a usable budget are left out.
func (n *Normalizer) NormalizeAll(ctx context.Context, movies []model.Movie) ([]Entry, error) {
	results := make([]*Entry, len(movies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.concurrency)

	for i, m := range movies {
		i, m := i, m
		g.Go(func() error {
			e, err := n.Normalize(gctx, m.Title, m.Budget)
			switch {
			case err == nil:
				results[i] = &e
			case errors.Is(err, ErrNoBudget), errors.Is(err, ErrNoMatch):
				zap.L().Debug("budget: skipping", zap.String("title", m.Title), zap.String("budget", m.Budget))
			case errors.Is(err, ErrMalformedAmount):
				zap.L().Warn("budget: dropping malformed amount", zap.String("title", m.Title), zap.String("budget", m.Budget))
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(movies))
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries, nil
}
