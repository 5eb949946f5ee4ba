package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTestXLSX(t *testing.T, sheetName string, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)
	for _, row := range rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}

	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := writeTestXLSX(t, "Listings", [][]string{
		{"title", "org_name"},
		{"Food Pantry", "Helpers"},
		{"Crisis Line", "Helpers"},
	})

	header, rows, err := ReadXLSX(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "org_name"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Food Pantry", "Helpers"}, rows[0])
}

func TestReadXLSXNamedSheet(t *testing.T) {
	path := writeTestXLSX(t, "Listings", [][]string{
		{"title"},
		{"Food Pantry"},
	})

	header, _, err := ReadXLSX(path, "Listings")
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, header)

	_, _, err = ReadXLSX(path, "Nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReadXLSXMissingFile(t *testing.T) {
	_, _, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), "")
	assert.Error(t, err)
}
