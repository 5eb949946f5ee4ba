package source

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/serviceatlas/catalog-cli/internal/fetcher"
	"github.com/serviceatlas/catalog-cli/internal/model"
)

// CSVSource reads candidates from a CSV export, either a local file or
// a remote URL (http, https, or ftp).
type CSVSource struct {
	info     Info
	path     string
	url      string
	http     *fetcher.HTTPFetcher
	ftp      *fetcher.FTPFetcher
	httpOpts fetcher.HTTPOptions
}

// NewCSVSource creates a CSV adapter. Exactly one of path or url should
// be set; url wins when both are.
func NewCSVSource(info Info, path, url string, httpOpts fetcher.HTTPOptions) *CSVSource {
	return &CSVSource{
		info:     info,
		path:     path,
		url:      url,
		httpOpts: httpOpts,
	}
}

// Info implements Adapter.
func (a *CSVSource) Info() Info { return a.info }

// Fetch implements Adapter.
func (a *CSVSource) Fetch(ctx context.Context) ([]model.Candidate, error) {
	body, err := a.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	header, rows, err := fetcher.ReadCSV(body)
	if err != nil {
		return nil, eris.Wrapf(err, "source %s: parse csv", a.info.Name)
	}

	return rowsToCandidates(header, rows), nil
}

func (a *CSVSource) open(ctx context.Context) (io.ReadCloser, error) {
	switch {
	case a.url != "" && strings.HasPrefix(a.url, "ftp://"):
		if a.ftp == nil {
			a.ftp = fetcher.NewFTPFetcher(a.httpOpts.Timeout)
		}
		body, err := a.ftp.Download(ctx, a.url)
		if err != nil {
			return nil, eris.Wrapf(err, "source %s: ftp download", a.info.Name)
		}
		return body, nil
	case a.url != "":
		if a.http == nil {
			a.http = fetcher.NewHTTPFetcher(a.httpOpts)
		}
		body, err := a.http.Download(ctx, a.url)
		if err != nil {
			return nil, eris.Wrapf(err, "source %s: download", a.info.Name)
		}
		return body, nil
	default:
		f, err := os.Open(a.path)
		if err != nil {
			return nil, eris.Wrapf(err, "source %s: open csv file", a.info.Name)
		}
		return f, nil
	}
}

// Close implements Adapter.
func (a *CSVSource) Close() error {
	if a.http != nil {
		a.http.Close()
	}
	return nil
}
