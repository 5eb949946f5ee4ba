package pipeline

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"go.uber.org/zap"

	"github.com/serviceatlas/catalog-cli/internal/model"
)

// DefaultSimilarityThreshold is the minimum title edit-similarity ratio
// for two records in the same org+location group to be treated as
// duplicates. Heuristic constant, tunable per call site.
const DefaultSimilarityThreshold = 0.85

// noLocationKey is the group-key sentinel for records without any
// location field.
const noLocationKey = "no-location"

// corpSuffixes are trailing corporate suffixes stripped from org names
// before grouping, so "Acme Inc" and "Acme LLC" land in the same group.
var corpSuffixes = []string{"inc", "inc.", "llc", "corp", "corporation"}

// Deduper clusters normalized records by organization and location,
// then collapses near-identical titles within each cluster into a
// single surviving record.
type Deduper struct {
	threshold float64
}

// NewDeduper creates a Deduper. A non-positive threshold falls back to
// DefaultSimilarityThreshold.
func NewDeduper(threshold float64) *Deduper {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Deduper{threshold: threshold}
}

// Deduplicate collapses duplicates across the input set and returns the
// survivors plus the number of records merged away. Input order is
// preserved for records that never collide.
func (d *Deduper) Deduplicate(records []model.Record) ([]model.Record, int) {
	if len(records) == 0 {
		return nil, 0
	}

	groups := make(map[string][]int)
	var keyOrder []string
	for i, r := range records {
		key := groupKey(&r)
		if _, ok := groups[key]; !ok {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], i)
	}

	var survivors []model.Record
	removed := 0

	for _, key := range keyOrder {
		idxs := groups[key]
		if len(idxs) == 1 {
			survivors = append(survivors, records[idxs[0]])
			continue
		}

		// Most trusted, most complete candidate first, so it becomes
		// the survivor without back-merges.
		sort.SliceStable(idxs, func(a, b int) bool {
			ra, rb := &records[idxs[a]], &records[idxs[b]]
			if ra.SourceTier != rb.SourceTier {
				return ra.SourceTier < rb.SourceTier
			}
			return completeness(ra) > completeness(rb)
		})

		var kept []model.Record
		for _, i := range idxs {
			rec := records[i]
			match := -1
			for k := range kept {
				if d.titlesMatch(kept[k].Title, rec.Title) {
					match = k
					break
				}
			}
			if match < 0 {
				kept = append(kept, rec)
				continue
			}
			mergeRecord(&kept[match], &rec)
			removed++
			zap.L().Debug("dedupe: merged duplicate",
				zap.String("group", key),
				zap.String("survivor", kept[match].Title),
				zap.String("duplicate", rec.Title),
				zap.String("source", rec.SourceName),
			)
		}
		survivors = append(survivors, kept...)
	}

	return survivors, removed
}

// FindMatch probes one new record against an existing set using the
// same group-key and title-similarity test, for incremental dedup
// against a live store. Returns the index of the match, or -1.
func (d *Deduper) FindMatch(record *model.Record, existing []model.Record) int {
	key := groupKey(record)
	for i := range existing {
		if groupKey(&existing[i]) != key {
			continue
		}
		if d.titlesMatch(existing[i].Title, record.Title) {
			return i
		}
	}
	return -1
}

// titlesMatch applies case-insensitive exact match first, then a
// word-boundary prefix check ("VA Employment Services" vs
// "VA Employment Services Program"), then the normalized
// edit-similarity ratio against the threshold.
func (d *Deduper) titlesMatch(a, b string) bool {
	if strings.EqualFold(a, b) {
		return true
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if len(la) > len(lb) {
		la, lb = lb, la
	}
	if strings.HasPrefix(lb, la+" ") {
		return true
	}
	sim := levenshtein.Similarity(la, lb, nil)
	return sim >= d.threshold
}

// groupKey builds the transient clustering key: suffix-stripped org
// name plus a location key, or the no-location sentinel.
func groupKey(r *model.Record) string {
	org := stripCorpSuffix(strings.ToLower(strings.TrimSpace(r.OrgName)))

	loc := noLocationKey
	if r.Address != "" || r.City != "" || r.State != "" || r.ZipCode != "" {
		loc = strings.ToLower(strings.Join([]string{r.Address, r.City, r.State, r.ZipCode}, "|"))
	}
	return org + "::" + loc
}

// stripCorpSuffix removes trailing corporate suffixes, including any
// comma before them, repeating until none remain.
func stripCorpSuffix(org string) string {
	for {
		trimmed := strings.TrimRight(org, " ,")
		stripped := trimmed
		for _, suffix := range corpSuffixes {
			if strings.HasSuffix(trimmed, " "+suffix) || strings.HasSuffix(trimmed, ","+suffix) {
				stripped = strings.TrimRight(trimmed[:len(trimmed)-len(suffix)], " ,")
				break
			}
		}
		if stripped == org {
			return org
		}
		org = stripped
	}
}

// completeness scores how many optional fields a record populates.
// Contact and application details weigh double; tag richness is capped
// so tag-spammy sources don't win ties.
func completeness(r *model.Record) int {
	score := 0
	for _, f := range []string{r.Address, r.Phone, r.Eligibility, r.HowToApply} {
		if f != "" {
			score += 2
		}
	}
	for _, f := range []string{r.OrgWebsite, r.Email, r.Hours, r.City, r.State, r.ZipCode} {
		if f != "" {
			score++
		}
	}
	score += len(r.Categories)
	score += min(len(r.Tags), 5)
	return score
}

// mergeRecord copies non-conflicting data from a duplicate into the
// survivor: optional scalars fill only empty fields, set-valued fields
// union. Populated survivor fields are never overwritten.
func mergeRecord(dst, src *model.Record) {
	if dst.OrgWebsite == "" {
		dst.OrgWebsite = src.OrgWebsite
	}
	if dst.Phone == "" {
		dst.Phone = src.Phone
	}
	if dst.Email == "" {
		dst.Email = src.Email
	}
	if dst.Hours == "" {
		dst.Hours = src.Hours
	}
	if dst.Eligibility == "" {
		dst.Eligibility = src.Eligibility
	}
	if dst.HowToApply == "" {
		dst.HowToApply = src.HowToApply
	}
	dst.Categories = unionStrings(dst.Categories, src.Categories)
	dst.Tags = unionStrings(dst.Tags, src.Tags)
	dst.States = unionStrings(dst.States, src.States)
}

// unionStrings appends elements of b not already in a, preserving order.
func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			a = append(a, s)
		}
	}
	return a
}
