package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/serviceatlas/catalog-cli/internal/model"
	"github.com/serviceatlas/catalog-cli/internal/source"
	"github.com/serviceatlas/catalog-cli/internal/store"
)

// Pipeline drives source adapters through normalize, deduplicate,
// enrich, and load, and reports a single run result. Adapters are
// processed strictly in sequence; run volumes are modest and sources
// publish on daily-to-monthly cadences, so there is nothing to win by
// overlapping their I/O.
type Pipeline struct {
	deduper  *Deduper
	enricher *Enricher
	loader   store.Loader
}

// New creates a Pipeline.
func New(deduper *Deduper, enricher *Enricher, loader store.Loader) *Pipeline {
	return &Pipeline{
		deduper:  deduper,
		enricher: enricher,
		loader:   loader,
	}
}

// Run executes the full pipeline over all adapters and persists the
// surviving records.
func (p *Pipeline) Run(ctx context.Context, adapters []source.Adapter) *model.RunResult {
	return p.run(ctx, adapters, false)
}

// RunSingle executes the full pipeline for one adapter.
func (p *Pipeline) RunSingle(ctx context.Context, adapter source.Adapter) *model.RunResult {
	return p.run(ctx, []source.Adapter{adapter}, false)
}

// DryRun executes everything except the final persistence call. Every
// enriched record is tallied as a would-be create, enabling safe
// previews of a new source.
func (p *Pipeline) DryRun(ctx context.Context, adapters []source.Adapter) *model.RunResult {
	return p.run(ctx, adapters, true)
}

// NormalizeOnly extracts and normalizes one adapter's candidates
// without deduplication, enrichment, or persistence, for adapter
// testing.
func (p *Pipeline) NormalizeOnly(ctx context.Context, adapter source.Adapter) ([]model.Record, []model.IngestError) {
	records, _, errs := p.extract(ctx, adapter)
	return records, errs
}

func (p *Pipeline) run(ctx context.Context, adapters []source.Adapter, dryRun bool) *model.RunResult {
	result := &model.RunResult{
		ID:        uuid.NewString(),
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
	}
	log := zap.L().With(zap.String("run_id", result.ID), zap.Bool("dry_run", dryRun))
	log.Info("pipeline: starting run", zap.Int("adapters", len(adapters)))

	var all []model.Record
	for _, adapter := range adapters {
		records, extracted, errs := p.extract(ctx, adapter)
		result.Stats.Extracted += extracted
		result.Stats.Normalized += len(records)
		result.Errors = append(result.Errors, errs...)
		for _, e := range errs {
			if e.Stage == model.StageNormalize {
				result.Stats.NormalizedFailed++
			}
		}
		all = append(all, records...)
	}

	if len(all) == 0 {
		// Nothing survived normalization anywhere: report what was
		// collected, successful only if nothing at all went wrong.
		result.Success = len(result.Errors) == 0
		return p.finish(result, log)
	}

	// One cross-source pass so duplicates between adapters are caught,
	// not just duplicates within one.
	survivors, removed := p.deduper.Deduplicate(all)
	result.Stats.Deduplicated = removed
	log.Info("pipeline: deduplicated",
		zap.Int("survivors", len(survivors)),
		zap.Int("removed", removed),
	)

	survivors = p.enricher.EnrichBatch(ctx, survivors)
	result.Stats.Enriched = len(survivors)

	if dryRun {
		result.Stats.Created = len(survivors)
		result.Success = p.computeSuccess(result)
		return p.finish(result, log)
	}

	loadResults, err := p.loader.LoadBatch(ctx, survivors)
	if err != nil {
		result.Errors = append(result.Errors, model.IngestError{
			Stage:   model.StageLoad,
			Source:  "store",
			Message: err.Error(),
		})
		result.Stats.Failed += len(survivors)
		result.Success = false
		return p.finish(result, log)
	}

	for _, lr := range loadResults {
		switch lr.Action {
		case store.ActionCreated:
			result.Stats.Created++
		case store.ActionUpdated:
			result.Stats.Updated++
		case store.ActionSkipped:
			result.Stats.Skipped++
		case store.ActionFailed:
			result.Stats.Failed++
			result.Errors = append(result.Errors, model.IngestError{
				Stage:   model.StageLoad,
				Source:  lr.SourceURL,
				Message: lr.Error,
			})
		}
	}

	result.Success = p.computeSuccess(result)
	return p.finish(result, log)
}

// computeSuccess applies the overall success rule: zero failed loads
// and zero extract-stage errors. Normalization failures and load skips
// are recoverable per-record outcomes and don't fail the run.
func (p *Pipeline) computeSuccess(result *model.RunResult) bool {
	if result.Stats.Failed > 0 {
		return false
	}
	for _, e := range result.Errors {
		if e.Stage == model.StageExtract {
			return false
		}
	}
	return true
}

// extract acquires the adapter as a scoped resource, fetches its raw
// candidates, and normalizes them. The adapter is released on every
// exit path, including panics escaping a misbehaving parser; an
// extraction failure is classified and recorded, never propagated.
func (p *Pipeline) extract(ctx context.Context, adapter source.Adapter) (records []model.Record, extracted int, errs []model.IngestError) {
	info := adapter.Info()
	log := zap.L().With(zap.String("source", info.Name), zap.Int("tier", int(info.Tier)))

	candidates, err := func() (cands []model.Candidate, fetchErr error) {
		defer func() {
			if closeErr := adapter.Close(); closeErr != nil {
				log.Warn("pipeline: adapter close failed", zap.Error(closeErr))
			}
			if r := recover(); r != nil {
				cands = nil
				fetchErr = eris.Errorf("source %s: panic during extraction: %v", info.Name, r)
			}
		}()
		return adapter.Fetch(ctx)
	}()
	if err != nil {
		category := ClassifyExtractError(err)
		log.Error("pipeline: extraction failed, skipping source",
			zap.String("category", string(category)),
			zap.Error(err),
		)
		return nil, 0, []model.IngestError{{
			Stage:    model.StageExtract,
			Category: category,
			Source:   info.Name,
			Message:  err.Error(),
		}}
	}

	records, normErrs := NormalizeBatch(candidates, info.Name, info.Tier)
	log.Info("pipeline: source extracted",
		zap.Int("candidates", len(candidates)),
		zap.Int("normalized", len(records)),
		zap.Int("rejected", len(normErrs)),
	)

	return records, len(candidates), normErrs
}

// finish stamps the completion time and logs the run summary. Success
// is decided by the caller because the early-exit and dry-run paths
// apply different rules.
func (p *Pipeline) finish(result *model.RunResult, log *zap.Logger) *model.RunResult {
	result.CompletedAt = time.Now().UTC()

	log.Info("pipeline: run complete",
		zap.Bool("success", result.Success),
		zap.Int("extracted", result.Stats.Extracted),
		zap.Int("normalized", result.Stats.Normalized),
		zap.Int("deduplicated", result.Stats.Deduplicated),
		zap.Int("enriched", result.Stats.Enriched),
		zap.Int("created", result.Stats.Created),
		zap.Int("updated", result.Stats.Updated),
		zap.Int("skipped", result.Stats.Skipped),
		zap.Int("failed", result.Stats.Failed),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("duration", result.Duration()),
	)
	return result
}
