package model

import "time"

// Tier describes how much a source is trusted: 1 is the highest
// (official government data), 4 the lowest (scraped pages).
type Tier int

const (
	TierOfficial Tier = 1
	TierPartner  Tier = 2
	TierCurated  Tier = 3
	TierScraped  Tier = 4
)

// Reliability maps a source tier to its reliability score.
// Unknown tiers score the same as the lowest tier.
func (t Tier) Reliability() float64 {
	switch t {
	case TierOfficial:
		return 1.0
	case TierPartner:
		return 0.8
	case TierCurated:
		return 0.6
	default:
		return 0.4
	}
}

// Scope is the geographic reach of a listing.
type Scope string

const (
	ScopeNational Scope = "national"
	ScopeState    Scope = "state"
	ScopeLocal    Scope = "local"
)

// Valid reports whether s is one of the three recognized scopes.
func (s Scope) Valid() bool {
	return s == ScopeNational || s == ScopeState || s == ScopeLocal
}

// Categories is the fixed classification taxonomy. Normalization and
// enrichment both filter category sets against this list; it is never
// mutated at runtime.
var Categories = []string{
	"benefits",
	"crisis",
	"disability",
	"education",
	"employment",
	"family",
	"financial",
	"food",
	"healthcare",
	"housing",
	"legal",
	"mental-health",
	"transportation",
}

var categorySet = func() map[string]bool {
	m := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// ValidCategory reports whether c is part of the fixed taxonomy.
func ValidCategory(c string) bool {
	return categorySet[c]
}

// Record is the canonical, validated listing shape. It is created once
// by the normalizer, possibly absorbs fields from duplicates during
// deduplication, and is mutated in place by enrichment.
type Record struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OrgName     string `json:"org_name"`
	SourceURL   string `json:"source_url"`

	SourceName string `json:"source_name"`
	SourceTier Tier   `json:"source_tier"`

	OrgWebsite  string   `json:"org_website,omitempty"`
	Address     string   `json:"address,omitempty"`
	City        string   `json:"city,omitempty"`
	State       string   `json:"state,omitempty"`
	ZipCode     string   `json:"zip_code,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Email       string   `json:"email,omitempty"`
	Hours       string   `json:"hours,omitempty"`
	Eligibility string   `json:"eligibility,omitempty"`
	HowToApply  string   `json:"how_to_apply,omitempty"`

	Scope  Scope    `json:"scope"`
	States []string `json:"states,omitempty"`

	Reliability float64  `json:"reliability"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`

	RawData     map[string]any `json:"raw_data,omitempty"`
	FetchedAt   time.Time      `json:"fetched_at,omitempty"`
	Fingerprint string         `json:"fingerprint"`
}

// HasLocation reports whether the record carries a full postal address.
// Only records with a full address are geocoded.
func (r *Record) HasLocation() bool {
	return r.Address != "" && r.City != "" && r.State != "" && r.ZipCode != ""
}
