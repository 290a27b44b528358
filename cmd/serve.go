package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"slices"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/moviedb-cli/internal/analysis"
	"github.com/sells-group/moviedb-cli/internal/config"
	"github.com/sells-group/moviedb-cli/internal/currency"
	"github.com/sells-group/moviedb-cli/internal/model"
	"github.com/sells-group/moviedb-cli/internal/pipeline"
	"github.com/sells-group/moviedb-cli/internal/report"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve analysis results over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		movies, err := loadMovies(ctx)
		if err != nil {
			return eris.Wrap(err, "load dataset")
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(cfg, env.Rates, movies),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.Int("movies", len(movies)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

type taskInfo struct {
	Name string `json:"name"`
	File string `json:"file"`
}

type taskResponse struct {
	Task    string `json:"task"`
	Shape   string `json:"shape"`
	Count   int    `json:"count"`
	Results any    `json:"results"`
}

// newRouter serves the analysis tasks over movies. Query parameters override
// the analysis settings of base for a single request.
func newRouter(base *config.Config, rates currency.Converter, movies []model.Movie) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "movies": len(movies)})
	})

	r.Get("/tasks", func(w http.ResponseWriter, _ *http.Request) {
		tasks := pipeline.Tasks()
		out := make([]taskInfo, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, taskInfo{Name: t.Name, File: t.File})
		}
		writeJSON(w, http.StatusOK, out)
	})

	r.Get("/tasks/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		if !slices.Contains(pipeline.TaskNames(), name) {
			writeError(w, http.StatusNotFound, eris.Errorf("unknown task %q", name))
			return
		}

		c := *base
		if err := applyQuery(&c.Analysis, req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		result, err := pipeline.New(&c, rates, nil, nil).Compute(req.Context(), name, movies)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, taskResponse{
			Task:    name,
			Shape:   result.Shape.String(),
			Count:   result.Len(),
			Results: resultBody(result),
		})
	})

	return r
}

// applyQuery overrides analysis settings from query parameters.
func applyQuery(a *config.AnalysisConfig, req *http.Request) error {
	q := req.URL.Query()
	for key, dst := range map[string]*string{"genre": &a.Genre, "movie": &a.Movie, "region": &a.Region} {
		if q.Has(key) {
			*dst = q.Get(key)
		}
	}
	for key, dst := range map[string]*int{"year": &a.Year, "flag": &a.Flag, "percentile": &a.Percentile, "limit": &a.BudgetLimit} {
		if !q.Has(key) {
			continue
		}
		n, err := strconv.Atoi(q.Get(key))
		if err != nil {
			return eris.Errorf("query parameter %s must be an integer", key)
		}
		*dst = n
	}
	if q.Has("top") {
		top, err := strconv.ParseBool(q.Get("top"))
		if err != nil {
			return eris.New("query parameter top must be a boolean")
		}
		a.TopN = top
	}
	return nil
}

func resultBody(r report.Result) any {
	switch r.Shape {
	case report.ShapeList:
		return r.Items
	case report.ShapeMapping:
		return r.Mapping
	default:
		return r.Rows
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrInvalidFlag), errors.Is(err, analysis.ErrInvalidPercentile):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrMovieNotFound), errors.Is(err, analysis.ErrNoOscarDirectors):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrUnknownTask):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		zap.L().Error("serve: request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
