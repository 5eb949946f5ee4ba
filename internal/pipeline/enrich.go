package pipeline

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/serviceatlas/catalog-cli/internal/model"
	"github.com/serviceatlas/catalog-cli/pkg/geocode"
)

// Enricher adds inferred metadata to deduplicated records: coordinates,
// reliability, categories, tags, and a resolved geographic scope.
// Enrichment never fails or drops a record; at worst a field stays
// empty.
type Enricher struct {
	geocoder geocode.Geocoder
}

// NewEnricher creates an Enricher. A nil geocoder falls back to the
// no-op stub.
func NewEnricher(g geocode.Geocoder) *Enricher {
	if g == nil {
		g = geocode.Stub{}
	}
	return &Enricher{geocoder: g}
}

// Enrich mutates the record in place and returns it. Steps run in
// order because later ones depend on earlier results (tags include
// resolved categories and the resolved scope).
func (e *Enricher) Enrich(ctx context.Context, r *model.Record) *model.Record {
	e.geocodeRecord(ctx, r)
	r.Reliability = r.SourceTier.Reliability()
	inferCategories(r)
	resolveScope(r)
	extractTags(r)
	return r
}

// EnrichBatch enriches each record in place.
func (e *Enricher) EnrichBatch(ctx context.Context, records []model.Record) []model.Record {
	for i := range records {
		e.Enrich(ctx, &records[i])
	}
	return records
}

// geocodeRecord resolves coordinates for records with a full postal
// address. A geocoding miss or failure leaves the coordinates nil.
func (e *Enricher) geocodeRecord(ctx context.Context, r *model.Record) {
	if !r.HasLocation() {
		return
	}

	result, err := e.geocoder.Geocode(ctx, geocode.Address{
		Street:  r.Address,
		City:    r.City,
		State:   r.State,
		ZipCode: r.ZipCode,
	})
	if err != nil {
		zap.L().Warn("enrich: geocode failed",
			zap.String("title", r.Title),
			zap.String("city", r.City),
			zap.Error(err),
		)
		return
	}
	if result == nil || !result.Matched {
		return
	}

	lat, lng := result.Latitude, result.Longitude
	r.Latitude = &lat
	r.Longitude = &lng
}

// inferCategories assigns taxonomy categories from content keywords,
// but only when the record arrived unclassified.
func inferCategories(r *model.Record) {
	if len(r.Categories) > 0 {
		return
	}

	text := strings.ToLower(r.Title + " " + r.Description)
	var inferred []string
	for category, keywords := range categoryKeywords {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				inferred = append(inferred, category)
				break
			}
		}
	}
	sort.Strings(inferred)
	r.Categories = normalizeCategories(inferred)
}

// extractTags expands the tag set with content-derived tags, each
// resolved category, and scope-derived tags.
func extractTags(r *model.Record) {
	text := strings.ToLower(r.Title + " " + r.Description)

	var found []string
	for keyword, tag := range tagKeywords {
		if strings.Contains(text, keyword) {
			found = append(found, tag)
		}
	}
	sort.Strings(found)

	tags := unionStrings(r.Tags, found)
	tags = unionStrings(tags, r.Categories)

	switch {
	case r.Scope == model.ScopeNational:
		tags = unionStrings(tags, []string{"nationwide"})
	case r.Scope == model.ScopeState || r.Scope == model.ScopeLocal:
		var stateTags []string
		for _, code := range r.States {
			stateTags = append(stateTags, "state-"+strings.ToLower(code))
		}
		tags = unionStrings(tags, stateTags)
	}

	r.Tags = tags
}

// resolveScope finalizes the geographic scope. A valid declared scope
// is respected with the state list reconciled; otherwise scope is
// inferred from location data: full address means local, a bare state
// means state, neither means national.
func resolveScope(r *model.Record) {
	if r.Scope.Valid() {
		if r.Scope != model.ScopeNational && r.State != "" {
			r.States = unionStrings(r.States, []string{r.State})
		}
		return
	}

	switch {
	case r.HasLocation():
		r.Scope = model.ScopeLocal
		r.States = unionStrings(r.States, []string{r.State})
	case r.State != "":
		r.Scope = model.ScopeState
		r.States = unionStrings(r.States, []string{r.State})
	default:
		r.Scope = model.ScopeNational
		r.States = nil
	}
}
