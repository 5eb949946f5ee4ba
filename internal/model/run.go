package model

import (
	"fmt"
	"time"
)

// Stage identifies where in the pipeline an error occurred.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageNormalize Stage = "normalize"
	StageLoad      Stage = "load"
)

// ErrorCategory classifies extraction failures for triage.
type ErrorCategory string

const (
	ErrTransient ErrorCategory = "transient"    // network timeout, retry next run
	ErrNetwork   ErrorCategory = "network"      // connection-level failure
	ErrAuth      ErrorCategory = "auth_failure" // 401/403, needs human attention
	ErrHTTP      ErrorCategory = "http_error"   // other non-2xx response
	ErrParse     ErrorCategory = "parse"        // malformed payload
	ErrUnknown   ErrorCategory = "unknown"
)

// IngestError is a recoverable per-record or per-source error recorded
// against a run. Only extract-stage errors carry a category.
type IngestError struct {
	Stage    Stage         `json:"stage"`
	Category ErrorCategory `json:"category,omitempty"`
	Source   string        `json:"source"`
	Message  string        `json:"message"`
}

// Error implements the error interface.
func (e IngestError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("%s [%s] %s: %s", e.Stage, e.Category, e.Source, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Stage, e.Source, e.Message)
}

// RunStats counts records as they move through each pipeline stage.
type RunStats struct {
	Extracted        int `json:"extracted"`
	Normalized       int `json:"normalized"`
	NormalizedFailed int `json:"normalized_failed"`
	Deduplicated     int `json:"deduplicated"`
	Enriched         int `json:"enriched"`
	Created          int `json:"created"`
	Updated          int `json:"updated"`
	Skipped          int `json:"skipped"`
	Failed           int `json:"failed"`
}

// RunResult is the outcome of one pipeline run. Success means zero
// failed loads and zero extract-stage errors; normalization failures
// and skipped loads are recoverable per-record outcomes.
type RunResult struct {
	ID          string        `json:"id"`
	DryRun      bool          `json:"dry_run,omitempty"`
	Success     bool          `json:"success"`
	Stats       RunStats      `json:"stats"`
	Errors      []IngestError `json:"errors,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
}

// Duration returns the wall-clock time the run took.
func (r *RunResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}
