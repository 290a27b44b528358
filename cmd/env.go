package main

import (
	"context"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/moviedb-cli/internal/currency"
	"github.com/sells-group/moviedb-cli/internal/dataset"
	"github.com/sells-group/moviedb-cli/internal/model"
	"github.com/sells-group/moviedb-cli/internal/pipeline"
	"github.com/sells-group/moviedb-cli/internal/plot"
	"github.com/sells-group/moviedb-cli/internal/report"
	"github.com/sells-group/moviedb-cli/internal/store"
)

// analysisEnv holds the store, rate cache and pipeline shared by the
// analyze, budget, rank and serve commands.
type analysisEnv struct {
	Store    store.Store // nil when store.driver is none
	Rates    *currency.Cache
	Renderer plot.Renderer
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the environment.
func (e *analysisEnv) Close() {
	if e.Rates != nil {
		zap.L().Debug("rate lookups", zap.Int64("lookups", e.Rates.Lookups()))
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv validates the config and builds the pipeline. out receives the
// printed task results; nil disables printing. Callers should defer
// env.Close().
func initEnv(ctx context.Context, out io.Writer) (*analysisEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	var rates currency.RateStore
	if st != nil {
		rates = st
	}
	src, err := currency.NewSource(cfg.Rates, rates)
	if err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, err
	}

	env := &analysisEnv{
		Store:    st,
		Rates:    currency.NewCache(src),
		Renderer: plot.ChromeRenderer{Timeout: 30 * time.Second},
	}

	var printer *report.Printer
	if out != nil {
		printer = report.NewPrinter(out)
	}
	env.Pipeline = pipeline.New(cfg, env.Rates, env.Renderer, printer)
	return env, nil
}

// loadMovies reads the configured dataset.
func loadMovies(ctx context.Context) ([]model.Movie, error) {
	return dataset.Load(ctx, dataset.Options{
		Location:  cfg.Analysis.DataFile,
		Encoding:  cfg.Analysis.Encoding,
		Delimiter: cfg.Analysis.Delimiter,
	})
}
