package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/serviceatlas/catalog-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It is the
// default backend.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures
// WAL mode.
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
CREATE TABLE IF NOT EXISTS listings (
	id          TEXT PRIMARY KEY,
	source_url  TEXT NOT NULL UNIQUE,
	fingerprint TEXT NOT NULL,
	record      TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_listings_fingerprint ON listings(fingerprint);

CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	success      INTEGER NOT NULL,
	dry_run      INTEGER NOT NULL DEFAULT 0,
	stats        TEXT NOT NULL,
	errors       TEXT,
	started_at   DATETIME NOT NULL,
	completed_at DATETIME NOT NULL
);
`

// Migrate creates the schema if it doesn't exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	return nil
}

// LoadBatch implements Loader. Each record resolves independently, so
// one bad record never poisons the batch.
func (s *SQLiteStore) LoadBatch(ctx context.Context, records []model.Record) ([]LoadResult, error) {
	results := make([]LoadResult, 0, len(records))
	for i := range records {
		results = append(results, s.loadOne(ctx, &records[i]))
	}
	return results, nil
}

func (s *SQLiteStore) loadOne(ctx context.Context, r *model.Record) LoadResult {
	var id, fingerprint string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, fingerprint FROM listings WHERE source_url = ?`, r.SourceURL,
	).Scan(&id, &fingerprint)

	switch {
	case err == sql.ErrNoRows:
		id = uuid.NewString()
		payload, mErr := json.Marshal(r)
		if mErr != nil {
			return LoadResult{Action: ActionFailed, SourceURL: r.SourceURL, Error: mErr.Error()}
		}
		if _, execErr := s.db.ExecContext(ctx,
			`INSERT INTO listings (id, source_url, fingerprint, record) VALUES (?, ?, ?, ?)`,
			id, r.SourceURL, r.Fingerprint, string(payload),
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
		if _, execErr := s.db.ExecContext(ctx,
			`UPDATE listings SET fingerprint = ?, record = ?, updated_at = datetime('now') WHERE id = ?`,
			r.Fingerprint, string(payload), id,
		); execErr != nil {
			return LoadResult{Action: ActionFailed, SourceURL: r.SourceURL, Error: execErr.Error()}
		}
		return LoadResult{Action: ActionUpdated, ID: id, SourceURL: r.SourceURL}
	}
}

// SaveRun implements Store.
func (s *SQLiteStore) SaveRun(ctx context.Context, result *model.RunResult) error {
	stats, err := json.Marshal(result.Stats)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal stats")
	}
	errs, err := json.Marshal(result.Errors)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal errors")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, success, dry_run, stats, errors, started_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID, boolToInt(result.Success), boolToInt(result.DryRun),
		string(stats), string(errs),
		result.StartedAt.UTC(), result.CompletedAt.UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: save run")
	}
	return nil
}

// ListRuns implements Store, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.RunResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, success, dry_run, stats, errors, started_at, completed_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var results []model.RunResult
	for rows.Next() {
		var r model.RunResult
		var success, dryRun int
		var stats, errs sql.NullString
		var started, completed time.Time
		if err := rows.Scan(&r.ID, &success, &dryRun, &stats, &errs, &started, &completed); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		r.Success = success != 0
		r.DryRun = dryRun != 0
		r.StartedAt = started
		r.CompletedAt = completed
		if stats.Valid {
			if err := json.Unmarshal([]byte(stats.String), &r.Stats); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal stats")
			}
		}
		if errs.Valid && errs.String != "null" {
			if err := json.Unmarshal([]byte(errs.String), &r.Errors); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal errors")
			}
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

// Close implements Loader.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
