package source

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/serviceatlas/catalog-cli/internal/fetcher"
	"github.com/serviceatlas/catalog-cli/internal/model"
)

// JSONAPI pulls candidates from an HTTP endpoint returning a JSON
// array of candidate-shaped objects. Government listing APIs mostly
// look like this.
type JSONAPI struct {
	info    Info
	url     string
	fetcher *fetcher.HTTPFetcher
}

// NewJSONAPI creates a JSON API adapter. httpOpts carries the shared
// fetch settings plus the source's auth token, which may be empty for
// sources that don't require credentials.
func NewJSONAPI(info Info, url string, httpOpts fetcher.HTTPOptions) *JSONAPI {
	return &JSONAPI{
		info:    info,
		url:     url,
		fetcher: fetcher.NewHTTPFetcher(httpOpts),
	}
}

// Info implements Adapter.
func (a *JSONAPI) Info() Info { return a.info }

// Fetch implements Adapter.
func (a *JSONAPI) Fetch(ctx context.Context) ([]model.Candidate, error) {
	body, err := a.fetcher.Download(ctx, a.url)
	if err != nil {
		return nil, eris.Wrapf(err, "source %s: download", a.info.Name)
	}
	defer body.Close() //nolint:errcheck

	candidates, err := fetcher.DecodeArray[model.Candidate](body)
	if err != nil {
		return nil, eris.Wrapf(err, "source %s: decode payload", a.info.Name)
	}

	now := time.Now().UTC()
	for i := range candidates {
		if candidates[i].FetchedAt.IsZero() {
			candidates[i].FetchedAt = now
		}
	}

	zap.L().Debug("source: fetched json api",
		zap.String("source", a.info.Name),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}

// Close implements Adapter, releasing pooled connections.
func (a *JSONAPI) Close() error {
	a.fetcher.Close()
	return nil
}
