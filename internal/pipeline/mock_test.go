package pipeline

import (
	"context"

	"github.com/serviceatlas/catalog-cli/internal/model"
	"github.com/serviceatlas/catalog-cli/internal/source"
	"github.com/serviceatlas/catalog-cli/internal/store"
	"github.com/serviceatlas/catalog-cli/pkg/geocode"
)

// mockAdapter implements source.Adapter for testing.
type mockAdapter struct {
	info       source.Info
	candidates []model.Candidate
	fetchErr   error
	panicMsg   string
	closed     bool
	closeErr   error
}

func (m *mockAdapter) Info() source.Info { return m.info }

func (m *mockAdapter) Fetch(_ context.Context) ([]model.Candidate, error) {
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.candidates, nil
}

func (m *mockAdapter) Close() error {
	m.closed = true
	return m.closeErr
}

// mockLoader implements store.Loader for testing.
type mockLoader struct {
	loaded   [][]model.Record
	results  []store.LoadResult
	batchErr error
}

func (m *mockLoader) LoadBatch(_ context.Context, records []model.Record) ([]store.LoadResult, error) {
	m.loaded = append(m.loaded, records)
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	if m.results != nil {
		return m.results, nil
	}
	out := make([]store.LoadResult, len(records))
	for i, r := range records {
		out[i] = store.LoadResult{Action: store.ActionCreated, SourceURL: r.SourceURL}
	}
	return out, nil
}

func (m *mockLoader) Close() error { return nil }

// mockGeocoder implements geocode.Geocoder for testing.
type mockGeocoder struct {
	calls  []geocode.Address
	result *geocode.Result
	err    error
}

func (m *mockGeocoder) Geocode(_ context.Context, addr geocode.Address) (*geocode.Result, error) {
	m.calls = append(m.calls, addr)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}
