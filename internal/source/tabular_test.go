package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsToCandidates(t *testing.T) {
	header := []string{"Title", "org_name", "description", "source_url", "categories", "ignored_column", "phone"}
	rows := [][]string{
		{"Food Pantry", "Helpers", "Groceries.", "https://h.example.org/p", "food; benefits", "x", "555-123-4567"},
		{"Crisis Line", "Helpers", "Phone support.", "https://h.example.org/c"},
	}

	candidates := rowsToCandidates(header, rows)
	require.Len(t, candidates, 2)

	c := candidates[0]
	assert.Equal(t, "Food Pantry", c.Title)
	assert.Equal(t, "Helpers", c.OrgName)
	assert.Equal(t, []string{"food", "benefits"}, c.Categories)
	assert.Equal(t, "555-123-4567", c.Phone)
	assert.False(t, c.FetchedAt.IsZero())

	// Short rows yield empty cells for the missing columns.
	assert.Equal(t, "Crisis Line", candidates[1].Title)
	assert.Empty(t, candidates[1].Phone)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("a; b"))
	assert.Equal(t, []string{"a"}, splitList("a;;"))
	assert.Nil(t, splitList("  "))
	assert.Nil(t, splitList(""))
}
