// Package store persists analysis run history and conversion rates.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/moviedb-cli/internal/config"
	"github.com/sells-group/moviedb-cli/internal/model"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = eris.New("store: not found")

// defaultListLimit caps ListRuns when no limit is given.
const defaultListLimit = 100

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status   model.RunStatus `json:"status,omitempty"`
	DataFile string          `json:"data_file,omitempty"`
	Limit    int             `json:"limit,omitempty"`
	Offset   int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for analysis runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, dataFile string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary *model.RunSummary) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Rate cache
	GetCachedRate(ctx context.Context, from, to string) (*model.CachedRate, error)
	SetCachedRate(ctx context.Context, rate model.CachedRate) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the store selected by cfg.Driver, migrated and ready for use.
// Driver "none" returns a nil Store and no error.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch strings.ToLower(cfg.Driver) {
	case "", "none":
		return nil, nil
	case "sqlite":
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "moviedb.db"
		}
		s, err = NewSQLite(dsn)
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, eris.New("store: database_url is required for postgres")
		}
		s, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

func listLimit(filter RunFilter) uint64 {
	if filter.Limit <= 0 {
		return defaultListLimit
	}
	return uint64(filter.Limit)
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
