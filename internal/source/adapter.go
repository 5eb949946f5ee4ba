// Package source defines the adapter interface the pipeline consumes
// and the built-in adapters for YAML, CSV, XLSX, and JSON API sources.
package source

import (
	"context"

	"github.com/serviceatlas/catalog-cli/internal/model"
)

// Cadence describes how often a source publishes new data.
type Cadence string

const (
	Daily   Cadence = "daily"
	Weekly  Cadence = "weekly"
	Monthly Cadence = "monthly"
)

// Info is the static metadata an adapter declares about its source.
type Info struct {
	Name         string
	Tier         model.Tier
	Cadence      Cadence
	RequiresAuth bool
}

// Adapter produces raw candidate records from one source. The pipeline
// treats every adapter as a scoped resource: Close is called on every
// exit path once extraction for that adapter finishes, successfully or
// not.
type Adapter interface {
	Info() Info
	Fetch(ctx context.Context) ([]model.Candidate, error)
	Close() error
}
