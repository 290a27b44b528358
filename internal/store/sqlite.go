package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/moviedb-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	data_file   TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	summary     TEXT,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS rate_cache (
	from_currency TEXT NOT NULL,
	to_currency   TEXT NOT NULL,
	rate          TEXT NOT NULL,
	available     INTEGER NOT NULL DEFAULT 1,
	fetched_at    DATETIME NOT NULL,
	expires_at    DATETIME NOT NULL,
	PRIMARY KEY (from_currency, to_currency)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

var runColumns = []string{"id", "data_file", "status", "summary", "created_at", "finished_at"}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, dataFile string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, data_file, status, created_at) VALUES (?, ?, ?, ?)`,
		id, dataFile, string(model.RunStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		DataFile:  dataFile,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary *model.RunSummary) error {
	var summaryJSON sql.NullString
	if summary != nil {
		data, err := json.Marshal(summary)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal summary")
		}
		summaryJSON = sql.NullString{String: string(data), Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, summary = ?, finished_at = ? WHERE id = ?`,
		string(status), summaryJSON, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, data_file, status, summary, created_at, finished_at FROM runs WHERE id = ?`,
		runID,
	)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "run %s", runID)
	}
	return r, err
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query, args, err := listRunsQuery(sq.StatementBuilder.PlaceholderFormat(sq.Question), filter).ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: build list runs")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) GetCachedRate(ctx context.Context, from, to string) (*model.CachedRate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT from_currency, to_currency, rate, available, fetched_at, expires_at
		 FROM rate_cache WHERE from_currency = ? AND to_currency = ?`,
		from, to,
	)

	var cr model.CachedRate
	err := row.Scan(&cr.From, &cr.To, &cr.Rate, &cr.Available, &cr.FetchedAt, &cr.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get cached rate")
	}
	return &cr, nil
}

func (s *SQLiteStore) SetCachedRate(ctx context.Context, rate model.CachedRate) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rate_cache (from_currency, to_currency, rate, available, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (from_currency, to_currency) DO UPDATE SET
		   rate = excluded.rate,
		   available = excluded.available,
		   fetched_at = excluded.fetched_at,
		   expires_at = excluded.expires_at`,
		rate.From, rate.To, rate.Rate, rate.Available, rate.FetchedAt.UTC(), rate.ExpiresAt.UTC(),
	)
	return eris.Wrap(err, "sqlite: set cached rate")
}

// helpers

func listRunsQuery(b sq.StatementBuilderType, filter RunFilter) sq.SelectBuilder {
	q := b.Select(runColumns...).From("runs")
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.DataFile != "" {
		q = q.Where(sq.Eq{"data_file": filter.DataFile})
	}
	q = q.OrderBy("created_at DESC").Limit(listLimit(filter))
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	return q
}

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "run %s", id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var summaryJSON sql.NullString
	var finishedAt sql.NullTime

	err := row.Scan(&r.ID, &r.DataFile, &r.Status, &summaryJSON, &r.CreatedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if summaryJSON.Valid {
		r.Summary = &model.RunSummary{}
		if err := json.Unmarshal([]byte(summaryJSON.String), r.Summary); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal summary")
		}
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		r.FinishedAt = &t
	}
	return &r, nil
}
