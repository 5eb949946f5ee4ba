package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/serviceatlas/catalog-cli/internal/model"
)

func TestXLSXFileFetch(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Listings")
	require.NoError(t, err)
	for _, row := range [][]string{
		{"title", "description", "org_name", "source_url", "tags"},
		{"Food Pantry", "Groceries.", "Helpers", "https://h.example.org/p", "weekly; walk-in"},
	} {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}
	path := filepath.Join(t.TempDir(), "listings.xlsx")
	require.NoError(t, f.Save(path))

	a := NewXLSXFile(Info{Name: "partner", Tier: model.TierPartner}, path, "Listings")
	defer a.Close()

	candidates, err := a.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Food Pantry", candidates[0].Title)
	assert.Equal(t, []string{"weekly", "walk-in"}, candidates[0].Tags)
}

func TestXLSXFileFetchMissing(t *testing.T) {
	a := NewXLSXFile(Info{Name: "partner", Tier: model.TierPartner}, filepath.Join(t.TempDir(), "nope.xlsx"), "")
	_, err := a.Fetch(context.Background())
	assert.Error(t, err)
}
