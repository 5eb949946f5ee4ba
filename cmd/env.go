package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/serviceatlas/catalog-cli/internal/config"
	"github.com/serviceatlas/catalog-cli/internal/pipeline"
	"github.com/serviceatlas/catalog-cli/internal/source"
	"github.com/serviceatlas/catalog-cli/internal/store"
	"github.com/serviceatlas/catalog-cli/pkg/geocode"
)

// env bundles the wired pipeline and its store for a command's
// lifetime.
type env struct {
	Pipeline *pipeline.Pipeline
	Store    store.Store
}

// Close releases the store.
func (e *env) Close() {
	_ = e.Store.Close()
}

// initPipeline wires the store, geocoder, and pipeline from config and
// runs migrations.
func initPipeline(ctx context.Context) (*env, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	deduper := pipeline.NewDeduper(cfg.Dedupe.SimilarityThreshold)
	enricher := pipeline.NewEnricher(initGeocoder())

	return &env{
		Pipeline: pipeline.New(deduper, enricher, st),
		Store:    st,
	}, nil
}

// initStore opens the configured storage backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "init postgres store")
		}
		return st, nil
	case "sqlite", "":
		st, err := store.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "init sqlite store")
		}
		return st, nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initGeocoder selects the configured geocoding provider.
func initGeocoder() geocode.Geocoder {
	if cfg.Geocode.Provider == "census" {
		return geocode.NewCensusClient(geocode.WithRateLimit(cfg.Geocode.RateLimit))
	}
	return geocode.Stub{}
}

// buildAdapters constructs the configured source adapters, optionally
// filtered to a set of names.
func buildAdapters(names []string) ([]source.Adapter, error) {
	specs := make([]source.Spec, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		if len(names) > 0 && !containsName(names, sc.Name) {
			continue
		}
		specs = append(specs, sourceSpec(sc))
	}
	if len(specs) == 0 {
		return nil, eris.New("no sources configured (or none matched the filter)")
	}
	return source.Build(specs)
}

func sourceSpec(sc config.SourceConfig) source.Spec {
	return source.Spec{
		Name:         sc.Name,
		Kind:         sc.Kind,
		Tier:         sc.Tier,
		Cadence:      sc.Cadence,
		Path:         sc.Path,
		URL:          sc.URL,
		Sheet:        sc.Sheet,
		AuthToken:    sc.AuthToken,
		RequiresAuth: sc.RequiresAuth,
		UserAgent:    cfg.Fetch.UserAgent,
		TimeoutSecs:  cfg.Fetch.TimeoutSecs,
		MaxRetries:   cfg.Fetch.MaxRetries,
	}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
