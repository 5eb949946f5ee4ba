package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviceatlas/catalog-cli/internal/fetcher"
	"github.com/serviceatlas/catalog-cli/internal/model"
)

const testCSV = "title,description,org_name,source_url,categories\n" +
	"Food Pantry,Groceries.,Helpers,https://h.example.org/p,food\n"

func TestCSVSourceLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))

	a := NewCSVSource(Info{Name: "local", Tier: model.TierCurated}, path, "", fetcher.HTTPOptions{})
	defer a.Close()

	candidates, err := a.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Food Pantry", candidates[0].Title)
	assert.Equal(t, []string{"food"}, candidates[0].Categories)
}

func TestCSVSourceHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The shared fetch settings reach the request.
		assert.Equal(t, "catalog-cli/test", r.Header.Get("User-Agent"))
		w.Write([]byte(testCSV))
	}))
	defer srv.Close()

	opts := fetcher.HTTPOptions{UserAgent: "catalog-cli/test", Timeout: 5 * time.Second}
	a := NewCSVSource(Info{Name: "remote", Tier: model.TierPartner}, "", srv.URL, opts)
	defer a.Close()

	candidates, err := a.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Helpers", candidates[0].OrgName)
}

func TestCSVSourceMissingFile(t *testing.T) {
	a := NewCSVSource(Info{Name: "local", Tier: model.TierCurated}, filepath.Join(t.TempDir(), "nope.csv"), "", fetcher.HTTPOptions{})
	defer a.Close()

	_, err := a.Fetch(context.Background())
	assert.Error(t, err)
}
