package source

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/serviceatlas/catalog-cli/internal/model"
)

// yamlDocument is the on-disk shape of a YAML reference file: a list of
// candidates under a top-level listings key.
type yamlDocument struct {
	Listings []model.Candidate `yaml:"listings"`
}

// YAMLFile reads candidates from a local YAML reference file, the
// format used for hand-curated listings.
type YAMLFile struct {
	info Info
	path string
}

// NewYAMLFile creates a YAML file adapter.
func NewYAMLFile(info Info, path string) *YAMLFile {
	return &YAMLFile{info: info, path: path}
}

// Info implements Adapter.
func (a *YAMLFile) Info() Info { return a.info }

// Fetch implements Adapter.
func (a *YAMLFile) Fetch(_ context.Context) ([]model.Candidate, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, eris.Wrapf(err, "source %s: read yaml file", a.info.Name)
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "source %s: parse yaml", a.info.Name)
	}

	now := time.Now().UTC()
	for i := range doc.Listings {
		if doc.Listings[i].FetchedAt.IsZero() {
			doc.Listings[i].FetchedAt = now
		}
	}

	return doc.Listings, nil
}

// Close implements Adapter. File adapters hold no resources.
func (a *YAMLFile) Close() error { return nil }
