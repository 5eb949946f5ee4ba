package source

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/serviceatlas/catalog-cli/internal/fetcher"
	"github.com/serviceatlas/catalog-cli/internal/model"
)

// XLSXFile reads candidates from a local spreadsheet, the format most
// partner organizations share their listings in.
type XLSXFile struct {
	info  Info
	path  string
	sheet string
}

// NewXLSXFile creates a spreadsheet adapter. An empty sheet name
// selects the first sheet.
func NewXLSXFile(info Info, path, sheet string) *XLSXFile {
	return &XLSXFile{info: info, path: path, sheet: sheet}
}

// Info implements Adapter.
func (a *XLSXFile) Info() Info { return a.info }

// Fetch implements Adapter.
func (a *XLSXFile) Fetch(_ context.Context) ([]model.Candidate, error) {
	header, rows, err := fetcher.ReadXLSX(a.path, a.sheet)
	if err != nil {
		return nil, eris.Wrapf(err, "source %s: read xlsx", a.info.Name)
	}
	return rowsToCandidates(header, rows), nil
}

// Close implements Adapter. File adapters hold no resources.
func (a *XLSXFile) Close() error { return nil }
