package source

import (
	"strings"
	"time"

	"github.com/serviceatlas/catalog-cli/internal/model"
)

// listDelimiter separates multi-valued cells (categories, tags, states)
// in CSV and XLSX exports.
const listDelimiter = ";"

// rowsToCandidates maps tabular rows onto candidates using the header
// row. Column names follow the candidate schema's field names; unknown
// columns are ignored rather than rejected, since spreadsheet exports
// routinely carry extra bookkeeping columns.
func rowsToCandidates(header []string, rows [][]string) []model.Candidate {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	now := time.Now().UTC()
	candidates := make([]model.Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, model.Candidate{
			Title:       cell(row, "title"),
			Description: cell(row, "description"),
			OrgName:     cell(row, "org_name"),
			SourceURL:   cell(row, "source_url"),
			OrgWebsite:  cell(row, "org_website"),
			Address:     cell(row, "address"),
			City:        cell(row, "city"),
			State:       cell(row, "state"),
			ZipCode:     cell(row, "zip_code"),
			Categories:  splitList(cell(row, "categories")),
			Tags:        splitList(cell(row, "tags")),
			Phone:       cell(row, "phone"),
			Email:       cell(row, "email"),
			Hours:       cell(row, "hours"),
			Eligibility: cell(row, "eligibility"),
			HowToApply:  cell(row, "how_to_apply"),
			Scope:       cell(row, "scope"),
			States:      splitList(cell(row, "states")),
			FetchedAt:   now,
		})
	}
	return candidates
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, listDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
