// Package fxrates provides a client for Frankfurter-compatible exchange rate
// APIs.
package fxrates

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// ErrUnsupportedCurrency is returned when the API has no rate for the pair.
var ErrUnsupportedCurrency = eris.New("fxrates: unsupported currency")

// Client defines the exchange rate operations.
type Client interface {
	// Latest returns the most recent rate converting one unit of from into to.
	Latest(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// LatestResponse is the body of GET /latest.
type LatestResponse struct {
	Amount decimal.Decimal            `json:"amount"`
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new exchange rate client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://api.frankfurter.app",
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(5, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Latest(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Zero, eris.Wrap(err, "fxrates: rate limiter wait")
	}

	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	reqURL := c.baseURL + "/latest?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, eris.Wrap(err, "fxrates: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, eris.Wrap(err, "fxrates: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, eris.Wrap(err, "fxrates: read response body")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusUnprocessableEntity:
		return decimal.Zero, eris.Wrapf(ErrUnsupportedCurrency, "%s to %s", from, to)
	case resp.StatusCode != http.StatusOK:
		return decimal.Zero, eris.Errorf("fxrates: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result LatestResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return decimal.Zero, eris.Wrap(err, "fxrates: unmarshal response")
	}

	r, ok := result.Rates[to]
	if !ok || !r.IsPositive() {
		return decimal.Zero, eris.Wrapf(ErrUnsupportedCurrency, "%s to %s", from, to)
	}
	return r, nil
}
