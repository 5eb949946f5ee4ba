// Package fetcher downloads source data over HTTP and FTP and parses
// CSV, JSON, and XLSX payloads for the source adapters.
package fetcher

import (
	"context"
	"fmt"
	"io"
)

// Fetcher downloads remote data. Callers must close the returned body.
type Fetcher interface {
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// StatusError is returned when a server answers with a non-2xx status.
// The pipeline's error classifier inspects the code to distinguish
// credential problems from other HTTP failures.
type StatusError struct {
	Code int
	URL  string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d from %s", e.Code, e.URL)
}
