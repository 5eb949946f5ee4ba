package source

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/serviceatlas/catalog-cli/internal/fetcher"
	"github.com/serviceatlas/catalog-cli/internal/model"
)

// Spec describes one configured source. Kind selects the adapter type;
// the remaining fields are interpreted per kind. UserAgent, TimeoutSecs,
// and MaxRetries come from the shared fetch config and apply to every
// remote adapter.
type Spec struct {
	Name         string
	Kind         string // yaml, csv, xlsx, json
	Tier         int
	Cadence      string
	Path         string
	URL          string
	Sheet        string
	AuthToken    string
	RequiresAuth bool
	UserAgent    string
	TimeoutSecs  int
	MaxRetries   int
}

// Build constructs adapters from specs, in order. An unknown kind or a
// tier outside 1-4 is a configuration error, not a run-time one.
func Build(specs []Spec) ([]Adapter, error) {
	adapters := make([]Adapter, 0, len(specs))
	for _, s := range specs {
		a, err := build(s)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

func build(s Spec) (Adapter, error) {
	if s.Name == "" {
		return nil, eris.New("source: spec missing name")
	}
	if s.Tier < 1 || s.Tier > 4 {
		return nil, eris.Errorf("source %s: tier must be 1-4, got %d", s.Name, s.Tier)
	}

	info := Info{
		Name:         s.Name,
		Tier:         model.Tier(s.Tier),
		Cadence:      Cadence(s.Cadence),
		RequiresAuth: s.RequiresAuth,
	}
	httpOpts := fetcher.HTTPOptions{
		UserAgent:  s.UserAgent,
		Timeout:    time.Duration(s.TimeoutSecs) * time.Second,
		MaxRetries: s.MaxRetries,
		AuthToken:  s.AuthToken,
	}

	switch s.Kind {
	case "yaml":
		if s.Path == "" {
			return nil, eris.Errorf("source %s: yaml kind requires path", s.Name)
		}
		return NewYAMLFile(info, s.Path), nil
	case "csv":
		if s.Path == "" && s.URL == "" {
			return nil, eris.Errorf("source %s: csv kind requires path or url", s.Name)
		}
		return NewCSVSource(info, s.Path, s.URL, httpOpts), nil
	case "xlsx":
		if s.Path == "" {
			return nil, eris.Errorf("source %s: xlsx kind requires path", s.Name)
		}
		return NewXLSXFile(info, s.Path, s.Sheet), nil
	case "json":
		if s.URL == "" {
			return nil, eris.Errorf("source %s: json kind requires url", s.Name)
		}
		return NewJSONAPI(info, s.URL, httpOpts), nil
	default:
		return nil, eris.Errorf("source %s: unknown kind %q", s.Name, s.Kind)
	}
}
