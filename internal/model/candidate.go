// Package model defines the core types flowing through the ingestion
// pipeline: raw candidates, normalized records, and run results.
package model

import "time"

// Candidate is the raw record shape produced by every source adapter
// before validation. Title, Description, OrgName, and SourceURL are
// required; everything else is optional and may arrive in whatever
// form the upstream source uses.
type Candidate struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	OrgName     string `json:"org_name" yaml:"org_name"`
	SourceURL   string `json:"source_url" yaml:"source_url"`

	OrgWebsite  string   `json:"org_website,omitempty" yaml:"org_website,omitempty"`
	Address     string   `json:"address,omitempty" yaml:"address,omitempty"`
	City        string   `json:"city,omitempty" yaml:"city,omitempty"`
	State       string   `json:"state,omitempty" yaml:"state,omitempty"`
	ZipCode     string   `json:"zip_code,omitempty" yaml:"zip_code,omitempty"`
	Categories  []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Phone       string   `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email       string   `json:"email,omitempty" yaml:"email,omitempty"`
	Hours       string   `json:"hours,omitempty" yaml:"hours,omitempty"`
	Eligibility string   `json:"eligibility,omitempty" yaml:"eligibility,omitempty"`
	HowToApply  string   `json:"how_to_apply,omitempty" yaml:"how_to_apply,omitempty"`
	Scope       string   `json:"scope,omitempty" yaml:"scope,omitempty"`
	States      []string `json:"states,omitempty" yaml:"states,omitempty"`

	RawData   map[string]any `json:"raw_data,omitempty" yaml:"raw_data,omitempty"`
	FetchedAt time.Time      `json:"fetched_at,omitempty" yaml:"fetched_at,omitempty"`
}
