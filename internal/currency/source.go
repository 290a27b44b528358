package currency

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/moviedb-cli/internal/config"
	"github.com/sells-group/moviedb-cli/pkg/fxrates"
)

// NewSource builds the rate source described by cfg. When store is non-nil
// and cfg.CacheTTLHours is positive, rates are persisted between runs.
func NewSource(cfg config.RatesConfig, store RateStore) (RateSource, error) {
	var src RateSource
	switch cfg.Provider {
	case "static":
		s, err := LoadStatic(cfg.StaticFile)
		if err != nil {
			return nil, err
		}
		src = s
	case "live", "":
		opts := []fxrates.Option{fxrates.WithRateLimit(cfg.RequestsPerSecond)}
		if cfg.BaseURL != "" {
			opts = append(opts, fxrates.WithBaseURL(cfg.BaseURL))
		}
		if cfg.TimeoutSecs > 0 {
			opts = append(opts, fxrates.WithTimeout(time.Duration(cfg.TimeoutSecs)*time.Second))
		}
		src = NewLiveSource(fxrates.NewClient(opts...))
	default:
		return nil, eris.Errorf("currency: unknown provider %q", cfg.Provider)
	}

	if store != nil && cfg.CacheTTLHours > 0 {
		src = NewStoredSource(store, src, time.Duration(cfg.CacheTTLHours)*time.Hour)
	}
	return src, nil
}
