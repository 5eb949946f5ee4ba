package pipeline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviceatlas/catalog-cli/internal/fetcher"
	"github.com/serviceatlas/catalog-cli/internal/model"
	"github.com/serviceatlas/catalog-cli/internal/source"
	"github.com/serviceatlas/catalog-cli/internal/store"
)

func newTestPipeline(loader store.Loader) *Pipeline {
	return New(NewDeduper(0), NewEnricher(nil), loader)
}

func employmentCandidate(title string) model.Candidate {
	return model.Candidate{
		Title:       title,
		Description: "Employment services for veterans.",
		OrgName:     "Dept of Veterans Affairs",
		SourceURL:   "https://va.example.gov/employment",
		Address:     "100 Main St",
		City:        "Austin",
		State:       "TX",
		ZipCode:     "78701",
	}
}

func TestRunMergesDuplicatesAcrossSources(t *testing.T) {
	official := &mockAdapter{
		info:       source.Info{Name: "va-official", Tier: model.TierOfficial},
		candidates: []model.Candidate{employmentCandidate("VA Employment Services")},
	}
	scraped := &mockAdapter{
		info:       source.Info{Name: "scraped-directory", Tier: model.TierCurated},
		candidates: []model.Candidate{employmentCandidate("VA Employment Services Program")},
	}
	loader := &mockLoader{}

	result := newTestPipeline(loader).Run(context.Background(), []source.Adapter{official, scraped})

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Stats.Extracted)
	assert.Equal(t, 2, result.Stats.Normalized)
	assert.Equal(t, 1, result.Stats.Deduplicated)
	assert.Equal(t, 1, result.Stats.Enriched)
	assert.Equal(t, 1, result.Stats.Created)
	assert.Empty(t, result.Errors)

	require.Len(t, loader.loaded, 1)
	require.Len(t, loader.loaded[0], 1)
	survivor := loader.loaded[0][0]
	assert.Equal(t, "VA Employment Services", survivor.Title)
	assert.Equal(t, model.TierOfficial, survivor.SourceTier)
	assert.InDelta(t, 1.0, survivor.Reliability, 0.001)

	assert.True(t, official.closed)
	assert.True(t, scraped.closed)
}

func TestRunSingle(t *testing.T) {
	adapter := &mockAdapter{
		info:       source.Info{Name: "solo", Tier: model.TierPartner},
		candidates: []model.Candidate{employmentCandidate("Career Workshop")},
	}
	loader := &mockLoader{}

	result := newTestPipeline(loader).RunSingle(context.Background(), adapter)

	assert.True(t, result.Success)
	assert.False(t, result.DryRun)
	assert.Equal(t, 1, result.Stats.Extracted)
	assert.Equal(t, 1, result.Stats.Created)
	require.Len(t, loader.loaded, 1)
	assert.True(t, adapter.closed)
}

func TestRunUnchangedSourcesSkipOnSecondRun(t *testing.T) {
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Migrate(context.Background()))

	p := New(NewDeduper(0), NewEnricher(nil), st)

	adapters := func() []source.Adapter {
		a := employmentCandidate("Career Workshop")
		b := employmentCandidate("Legal Aid Clinic")
		b.OrgName = "Veterans Legal Network"
		b.SourceURL = "https://legal.example.org"
		return []source.Adapter{&mockAdapter{
			info:       source.Info{Name: "curated", Tier: model.TierOfficial},
			candidates: []model.Candidate{a, b},
		}}
	}

	first := p.Run(context.Background(), adapters())
	assert.True(t, first.Success)
	assert.Equal(t, 2, first.Stats.Created)
	assert.Equal(t, 0, first.Stats.Skipped)

	// Nothing upstream changed, so the second run creates nothing.
	second := p.Run(context.Background(), adapters())
	assert.True(t, second.Success)
	assert.Equal(t, 0, second.Stats.Created)
	assert.Equal(t, 0, second.Stats.Updated)
	assert.Equal(t, 2, second.Stats.Skipped)
}

func TestRunExtractFailureSkipsSource(t *testing.T) {
	broken := &mockAdapter{
		info:     source.Info{Name: "broken", Tier: model.TierPartner},
		fetchErr: &fetcher.StatusError{Code: 401, URL: "https://broken.example.org"},
	}
	healthy := &mockAdapter{
		info:       source.Info{Name: "healthy", Tier: model.TierOfficial},
		candidates: []model.Candidate{employmentCandidate("Career Workshop")},
	}
	loader := &mockLoader{}

	result := newTestPipeline(loader).Run(context.Background(), []source.Adapter{broken, healthy})

	// The healthy source still loads, but the run is not a success.
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Stats.Created)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.StageExtract, result.Errors[0].Stage)
	assert.Equal(t, model.ErrAuth, result.Errors[0].Category)
	assert.Equal(t, "broken", result.Errors[0].Source)
	assert.True(t, broken.closed)
}

func TestRunRecoversAdapterPanic(t *testing.T) {
	panicky := &mockAdapter{
		info:     source.Info{Name: "panicky", Tier: model.TierScraped},
		panicMsg: "index out of range",
	}
	loader := &mockLoader{}

	result := newTestPipeline(loader).Run(context.Background(), []source.Adapter{panicky})

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.StageExtract, result.Errors[0].Stage)
	assert.Contains(t, result.Errors[0].Message, "panic")
	assert.True(t, panicky.closed)
}

func TestRunNormalizationFailureDoesNotAbort(t *testing.T) {
	adapter := &mockAdapter{
		info: source.Info{Name: "mixed", Tier: model.TierOfficial},
		candidates: []model.Candidate{
			employmentCandidate("Career Workshop"),
			{Title: "Missing everything else"},
		},
	}
	loader := &mockLoader{}

	result := newTestPipeline(loader).Run(context.Background(), []source.Adapter{adapter})

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Stats.Extracted)
	assert.Equal(t, 1, result.Stats.Normalized)
	assert.Equal(t, 1, result.Stats.NormalizedFailed)
	assert.Equal(t, 1, result.Stats.Created)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.StageNormalize, result.Errors[0].Stage)
}

func TestRunNothingNormalized(t *testing.T) {
	empty := &mockAdapter{info: source.Info{Name: "empty", Tier: model.TierOfficial}}
	loader := &mockLoader{}

	result := newTestPipeline(loader).Run(context.Background(), []source.Adapter{empty})

	assert.True(t, result.Success)
	assert.Empty(t, loader.loaded)
	assert.Equal(t, 0, result.Stats.Created)
	assert.False(t, result.CompletedAt.IsZero())
}

func TestRunNothingNormalizedWithErrors(t *testing.T) {
	rejects := &mockAdapter{
		info:       source.Info{Name: "rejects", Tier: model.TierOfficial},
		candidates: []model.Candidate{{Title: "incomplete"}},
	}
	loader := &mockLoader{}

	result := newTestPipeline(loader).Run(context.Background(), []source.Adapter{rejects})

	// Nothing survived and something went wrong: not a success, even
	// though normalization failures alone don't usually fail a run.
	assert.False(t, result.Success)
	assert.Empty(t, loader.loaded)
}

func TestDryRunSkipsLoader(t *testing.T) {
	adapter := &mockAdapter{
		info:       source.Info{Name: "preview", Tier: model.TierOfficial},
		candidates: []model.Candidate{employmentCandidate("Career Workshop")},
	}
	loader := &mockLoader{}

	result := newTestPipeline(loader).DryRun(context.Background(), []source.Adapter{adapter})

	assert.True(t, result.DryRun)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Stats.Created)
	assert.Empty(t, loader.loaded)
}

func TestRunLoadBatchFailure(t *testing.T) {
	adapter := &mockAdapter{
		info:       source.Info{Name: "src", Tier: model.TierOfficial},
		candidates: []model.Candidate{employmentCandidate("Career Workshop")},
	}
	loader := &mockLoader{batchErr: eris.New("store: connection lost")}

	result := newTestPipeline(loader).Run(context.Background(), []source.Adapter{adapter})

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Stats.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.StageLoad, result.Errors[0].Stage)
}

func TestRunTalliesLoadResults(t *testing.T) {
	a := employmentCandidate("Career Workshop")
	b := employmentCandidate("Legal Aid Clinic")
	b.OrgName = "Veterans Legal Network"
	b.SourceURL = "https://legal.example.org"
	adapter := &mockAdapter{
		info:       source.Info{Name: "src", Tier: model.TierOfficial},
		candidates: []model.Candidate{a, b},
	}
	loader := &mockLoader{results: []store.LoadResult{
		{Action: store.ActionUpdated, SourceURL: a.SourceURL},
		{Action: store.ActionFailed, SourceURL: b.SourceURL, Error: "constraint violation"},
	}}

	result := newTestPipeline(loader).Run(context.Background(), []source.Adapter{adapter})

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Stats.Updated)
	assert.Equal(t, 1, result.Stats.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.StageLoad, result.Errors[0].Stage)
	assert.Equal(t, "constraint violation", result.Errors[0].Message)
}

func TestNormalizeOnly(t *testing.T) {
	adapter := &mockAdapter{
		info: source.Info{Name: "src", Tier: model.TierCurated},
		candidates: []model.Candidate{
			employmentCandidate("Career Workshop"),
			{Title: "incomplete"},
		},
	}

	records, errs := newTestPipeline(&mockLoader{}).NormalizeOnly(context.Background(), adapter)

	require.Len(t, records, 1)
	assert.Equal(t, "Career Workshop", records[0].Title)
	assert.Equal(t, model.TierCurated, records[0].SourceTier)
	assert.Len(t, errs, 1)
	assert.True(t, adapter.closed)
}

func TestRunResultHasIdentityAndTimestamps(t *testing.T) {
	result := newTestPipeline(&mockLoader{}).Run(context.Background(), nil)

	assert.NotEmpty(t, result.ID)
	assert.False(t, result.StartedAt.IsZero())
	assert.False(t, result.CompletedAt.IsZero())
	assert.GreaterOrEqual(t, result.Duration(), time.Duration(0))
}
