// Package store persists the catalog and run history. The pipeline
// only sees the Loader interface; create/update/skip decisions belong
// to the store, keyed by canonical source URL.
package store

import (
	"context"

	"github.com/serviceatlas/catalog-cli/internal/model"
)

// LoadAction is the store's per-record decision.
type LoadAction string

const (
	ActionCreated LoadAction = "created"
	ActionUpdated LoadAction = "updated"
	ActionSkipped LoadAction = "skipped"
	ActionFailed  LoadAction = "failed"
)

// LoadResult reports what happened to one record during a batch load.
type LoadResult struct {
	Action    LoadAction `json:"action"`
	ID        string     `json:"id"`
	SourceURL string     `json:"source_url"`
	Error     string     `json:"error,omitempty"`
}

// Loader persists enriched records. Identity is the canonical source
// URL; an unchanged fingerprint resolves to a skip, which is what makes
// repeated runs over an unchanged source idempotent.
type Loader interface {
	LoadBatch(ctx context.Context, records []model.Record) ([]LoadResult, error)
	Close() error
}

// Store is the full persistence interface: catalog loading plus run
// history.
type Store interface {
	Loader

	SaveRun(ctx context.Context, result *model.RunResult) error
	ListRuns(ctx context.Context, limit int) ([]model.RunResult, error)

	Migrate(ctx context.Context) error
}
