package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX reads one sheet of a spreadsheet into a header row and data
// rows. An empty sheet name selects the first sheet.
func ReadXLSX(path, sheetName string) (header []string, rows [][]string, err error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "fetcher: open xlsx %s", path)
	}

	var sheet *xlsx.Sheet
	if sheetName == "" {
		if len(f.Sheets) == 0 {
			return nil, nil, eris.Errorf("fetcher: xlsx %s has no sheets", path)
		}
		sheet = f.Sheets[0]
	} else {
		s, ok := f.Sheet[sheetName]
		if !ok {
			return nil, nil, eris.Errorf("fetcher: xlsx sheet %q not found", sheetName)
		}
		sheet = s
	}

	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if i == 0 {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}

	return header, rows, nil
}
