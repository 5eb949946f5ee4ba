package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/serviceatlas/catalog-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses, small enough for
// pgxmock to stand in during tests.
type Pool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS listings (
	id          UUID PRIMARY KEY,
	source_url  TEXT NOT NULL UNIQUE,
	fingerprint TEXT NOT NULL,
	record      JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_listings_fingerprint ON listings(fingerprint);

CREATE TABLE IF NOT EXISTS runs (
	id           UUID PRIMARY KEY,
	success      BOOLEAN NOT NULL,
	dry_run      BOOLEAN NOT NULL DEFAULT false,
	stats        JSONB NOT NULL,
	errors       JSONB,
	started_at   TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL
);
`

// Migrate creates the schema if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// LoadBatch implements Loader.
func (s *PostgresStore) LoadBatch(ctx context.Context, records []model.Record) ([]LoadResult, error) {
	results := make([]LoadResult, 0, len(records))
	for i := range records {
		results = append(results, s.loadOne(ctx, &records[i]))
	}
	return results, nil
}

func (s *PostgresStore) loadOne(ctx context.Context, r *model.Record) LoadResult {
	var id, fingerprint string
	err := s.pool.QueryRow(ctx,
		`SELECT id, fingerprint FROM listings WHERE source_url = $1`, r.SourceURL,
	).Scan(&id, &fingerprint)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		id = uuid.NewString()
		payload, mErr := json.Marshal(r)
		if mErr != nil {
			return LoadResult{Action: ActionFailed, SourceURL: r.SourceURL, Error: mErr.Error()}
		}
		if _, execErr := s.pool.Exec(ctx,
			`INSERT INTO listings (id, source_url, fingerprint, record) VALUES ($1, $2, $3, $4)`,
			id, r.SourceURL, r.Fingerprint, payload,
		); execErr != nil {
			return LoadResult{Action: ActionFailed, SourceURL: r.SourceURL, Error: execErr.Error()}
		}
		return LoadResult{Action: ActionCreated, ID: id, SourceURL: r.SourceURL}

	case err != nil:
		return LoadResult{Action: ActionFailed, SourceURL: r.SourceURL, Error: err.Error()}

	case fingerprint == r.Fingerprint:
		return LoadResult{Action: ActionSkipped, ID: id, SourceURL: r.SourceURL}

	default:
		payload, mErr := json.Marshal(r)
		if mErr != nil {
			return LoadResult{Action: ActionFailed, SourceURL: r.SourceURL, Error: mErr.Error()}
		}
		if _, execErr := s.pool.Exec(ctx,
			`UPDATE listings SET fingerprint = $1, record = $2, updated_at = now() WHERE id = $3`,
			r.Fingerprint, payload, id,
		); execErr != nil {
			return LoadResult{Action: ActionFailed, SourceURL: r.SourceURL, Error: execErr.Error()}
		}
		return LoadResult{Action: ActionUpdated, ID: id, SourceURL: r.SourceURL}
	}
}

// SaveRun implements Store.
func (s *PostgresStore) SaveRun(ctx context.Context, result *model.RunResult) error {
	stats, err := json.Marshal(result.Stats)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal stats")
	}
	errs, err := json.Marshal(result.Errors)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal errors")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, success, dry_run, stats, errors, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		result.ID, result.Success, result.DryRun, stats, errs,
		result.StartedAt.UTC(), result.CompletedAt.UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "postgres: save run")
	}
	return nil
}

// ListRuns implements Store, newest first.
func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.RunResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, success, dry_run, stats, errors, started_at, completed_at
		 FROM runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var results []model.RunResult
	for rows.Next() {
		var r model.RunResult
		var stats, errs []byte
		if err := rows.Scan(&r.ID, &r.Success, &r.DryRun, &stats, &errs, &r.StartedAt, &r.CompletedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if len(stats) > 0 {
			if err := json.Unmarshal(stats, &r.Stats); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal stats")
			}
		}
		if len(errs) > 0 && string(errs) != "null" {
			if err := json.Unmarshal(errs, &r.Errors); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal errors")
			}
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

// Close implements Loader.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
