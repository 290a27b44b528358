package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/moviedb-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	data_file   TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	summary     JSONB,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS rate_cache (
	from_currency TEXT NOT NULL,
	to_currency   TEXT NOT NULL,
	rate          TEXT NOT NULL,
	available     BOOLEAN NOT NULL DEFAULT true,
	fetched_at    TIMESTAMPTZ NOT NULL,
	expires_at    TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (from_currency, to_currency)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, dataFile string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, data_file, status, created_at) VALUES ($1, $2, $3, $4)`,
		id, dataFile, string(model.RunStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		DataFile:  dataFile,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
	}, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary *model.RunSummary) error {
	var summaryJSON []byte
	if summary != nil {
		data, err := json.Marshal(summary)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal summary")
		}
		summaryJSON = data
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, summary = $2, finished_at = $3 WHERE id = $4`,
		string(status), summaryJSON, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "run %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, data_file, status, summary, created_at, finished_at FROM runs WHERE id = $1`,
		runID,
	)
	r, err := scanPostgresRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "run %s", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query, args, err := listRunsQuery(sq.StatementBuilder.PlaceholderFormat(sq.Dollar), filter).ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "postgres: build list runs")
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanPostgresRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) GetCachedRate(ctx context.Context, from, to string) (*model.CachedRate, error) {
	var cr model.CachedRate
	err := s.pool.QueryRow(ctx,
		`SELECT from_currency, to_currency, rate, available, fetched_at, expires_at
		 FROM rate_cache WHERE from_currency = $1 AND to_currency = $2`,
		from, to,
	).Scan(&cr.From, &cr.To, &cr.Rate, &cr.Available, &cr.FetchedAt, &cr.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get cached rate")
	}
	return &cr, nil
}

func (s *PostgresStore) SetCachedRate(ctx context.Context, rate model.CachedRate) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO rate_cache (from_currency, to_currency, rate, available, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (from_currency, to_currency) DO UPDATE SET
		   rate = EXCLUDED.rate,
		   available = EXCLUDED.available,
		   fetched_at = EXCLUDED.fetched_at,
		   expires_at = EXCLUDED.expires_at`,
		rate.From, rate.To, rate.Rate, rate.Available, rate.FetchedAt.UTC(), rate.ExpiresAt.UTC(),
	)
	return eris.Wrap(err, "postgres: set cached rate")
}

func scanPostgresRun(row scannable) (*model.Run, error) {
	var r model.Run
	var summaryJSON []byte
	var finishedAt *time.Time

	if err := row.Scan(&r.ID, &r.DataFile, &r.Status, &summaryJSON, &r.CreatedAt, &finishedAt); err != nil {
		return nil, err
	}
	if len(summaryJSON) > 0 {
		r.Summary = &model.RunSummary{}
		if err := json.Unmarshal(summaryJSON, r.Summary); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal summary")
		}
	}
	r.FinishedAt = finishedAt
	return &r, nil
}
