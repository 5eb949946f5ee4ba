package fetcher

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadCSV parses CSV input into a header row and data rows. Fields are
// trimmed; rows may have variable field counts (short rows happen in
// hand-maintained spreadsheet exports).
func ReadCSV(r io.Reader) (header []string, rows [][]string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	first := true
	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, nil, eris.Wrap(readErr, "fetcher: read csv row")
		}

		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}

		if first {
			header = record
			first = false
			continue
		}
		rows = append(rows, record)
	}

	return header, rows, nil
}
