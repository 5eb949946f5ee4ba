package fetcher

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// DecodeArray decodes a JSON array of T, streaming element by element
// so large payloads don't need to be buffered whole.
func DecodeArray[T any](r io.Reader) ([]T, error) {
	decoder := json.NewDecoder(r)

	tok, err := decoder.Token()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, eris.Wrap(err, "fetcher: read opening json token")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, eris.Errorf("fetcher: expected json array, got %v", tok)
	}

	var items []T
	for decoder.More() {
		var item T
		if err := decoder.Decode(&item); err != nil {
			return nil, eris.Wrap(err, "fetcher: decode json element")
		}
		items = append(items, item)
	}

	return items, nil
}
