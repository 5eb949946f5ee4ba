package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	censusOneLineURL = "https://geocoding.geo.census.gov/geocoder/locations/onelineaddress"
	censusBenchmark  = "Public_AR_Current"
)

// censusResponse is the JSON response from the Census one-line API.
type censusResponse struct {
	Result struct {
		AddressMatches []struct {
			Coordinates struct {
				X float64 `json:"x"` // longitude
				Y float64 `json:"y"` // latitude
			} `json:"coordinates"`
			MatchedAddress string `json:"matchedAddress"`
		} `json:"addressMatches"`
	} `json:"result"`
}

// CensusClient geocodes via the US Census Geocoder one-line API, with
// rate limiting and an in-process cache keyed by formatted address.
type CensusClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter

	mu    sync.Mutex
	cache map[string]Result
}

// CensusOption configures the CensusClient.
type CensusOption func(*CensusClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) CensusOption {
	return func(c *CensusClient) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the Census endpoint, for tests.
func WithBaseURL(u string) CensusOption {
	return func(c *CensusClient) {
		c.baseURL = u
	}
}

// WithRateLimit sets the requests-per-second limit for Census calls.
func WithRateLimit(rps float64) CensusOption {
	return func(c *CensusClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
	}
}

// NewCensusClient creates a Census geocoder.
func NewCensusClient(opts ...CensusOption) *CensusClient {
	c := &CensusClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    censusOneLineURL,
		limiter:    rate.NewLimiter(10, 10),
		cache:      make(map[string]Result),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geocode implements Geocoder. Transport failures are returned as
// errors; an address the Census API cannot resolve is an unmatched
// Result. Repeat lookups for the same address hit the cache.
func (c *CensusClient) Geocode(ctx context.Context, addr Address) (*Result, error) {
	line := oneLine(addr)
	if line == "" {
		return &Result{Matched: false, Source: "census"}, nil
	}

	c.mu.Lock()
	if cached, ok := c.cache[line]; ok {
		c.mu.Unlock()
		return &cached, nil
	}
	c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: census rate limit")
	}

	params := url.Values{
		"address":   {line},
		"benchmark": {censusBenchmark},
		"format":    {"json"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: census build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: census request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: census returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: census read body")
	}

	var parsed censusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "geocode: census parse response")
	}

	result := Result{Matched: false, Source: "census"}
	if len(parsed.Result.AddressMatches) > 0 {
		match := parsed.Result.AddressMatches[0]
		result = Result{
			Latitude:  match.Coordinates.Y,
			Longitude: match.Coordinates.X,
			Source:    "census",
			Matched:   true,
		}
	} else {
		zap.L().Debug("geocode: census no match", zap.String("address", line))
	}

	c.mu.Lock()
	c.cache[line] = result
	c.mu.Unlock()

	return &result, nil
}
