// Package pipeline implements the normalize, deduplicate, enrich, and
// load stages of catalog ingestion, plus the orchestrator that drives
// source adapters through them.
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/serviceatlas/catalog-cli/internal/model"
)

// Normalize validates a raw candidate and converts it into the
// canonical record shape, tagged with the producing source's name and
// trust tier. On validation failure it returns nil and an error naming
// every missing required field.
func Normalize(c model.Candidate, sourceName string, tier model.Tier) (*model.Record, error) {
	title := cleanText(c.Title)
	description := cleanText(c.Description)
	orgName := cleanText(c.OrgName)
	sourceURL := strings.TrimSpace(c.SourceURL)

	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if orgName == "" {
		missing = append(missing, "org_name")
	}
	if sourceURL == "" {
		missing = append(missing, "source_url")
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("normalize: missing required fields: %s", strings.Join(missing, ", "))
	}

	r := &model.Record{
		Title:       title,
		Description: description,
		OrgName:     orgName,
		SourceURL:   canonicalURL(sourceURL),
		SourceName:  sourceName,
		SourceTier:  tier,
		OrgWebsite:  optionalURL(c.OrgWebsite),
		Address:     cleanText(c.Address),
		City:        cleanText(c.City),
		State:       normalizeState(c.State),
		ZipCode:     normalizeZip(c.ZipCode),
		Categories:  normalizeCategories(c.Categories),
		Tags:        normalizeTags(c.Tags),
		Phone:       formatPhone(c.Phone),
		Email:       normalizeEmail(c.Email),
		Hours:       cleanText(c.Hours),
		Eligibility: cleanText(c.Eligibility),
		HowToApply:  cleanText(c.HowToApply),
		Scope:       normalizeScope(c.Scope),
		States:      normalizeStates(c.States),
		Reliability: tier.Reliability(),
		RawData:     c.RawData,
		FetchedAt:   c.FetchedAt,
	}
	r.Fingerprint = fingerprint(r)

	return r, nil
}

// NormalizeBatch normalizes a list of candidates, partitioning the
// results into successes and per-candidate normalize-stage errors. One
// failure never aborts the batch.
func NormalizeBatch(candidates []model.Candidate, sourceName string, tier model.Tier) ([]model.Record, []model.IngestError) {
	var records []model.Record
	var errs []model.IngestError

	for _, c := range candidates {
		r, err := Normalize(c, sourceName, tier)
		if err != nil {
			zap.L().Debug("normalize: candidate rejected",
				zap.String("source", sourceName),
				zap.String("title", c.Title),
				zap.Error(err),
			)
			errs = append(errs, model.IngestError{
				Stage:   model.StageNormalize,
				Source:  sourceName,
				Message: err.Error(),
			})
			continue
		}
		records = append(records, *r)
	}

	return records, errs
}

// optionalURL validates an optional URL field: empty input stays
// empty, anything else gets scheme-qualified.
func optionalURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	return canonicalURL(s)
}

// normalizeScope lowercases the declared scope but deliberately does
// not clamp unrecognized values: enrichment respects a valid scope and
// infers one from location data otherwise, so the distinction between
// "explicitly national" and "unknown" has to survive normalization.
func normalizeScope(raw string) model.Scope {
	return model.Scope(strings.ToLower(strings.TrimSpace(raw)))
}

// fingerprint hashes the identity-bearing fields of a record for
// change detection and cheap equality probes. The description is
// truncated so trailing boilerplate edits don't churn the hash.
func fingerprint(r *model.Record) string {
	desc := strings.ToLower(r.Description)
	if runes := []rune(desc); len(runes) > 500 {
		desc = string(runes[:500])
	}
	parts := []string{
		strings.ToLower(r.Title),
		strings.ToLower(r.OrgName),
		desc,
		strings.ToLower(r.SourceURL),
		strings.ToLower(r.Address),
		strings.ToLower(r.City),
		strings.ToLower(r.State),
		strings.ToLower(r.ZipCode),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
