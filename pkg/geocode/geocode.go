// Package geocode resolves postal addresses to coordinates. The Census
// Geocoder is the default real provider; a no-op stub is used when no
// provider is configured.
package geocode

import (
	"context"
	"strings"
)

// Address is a full postal address to geocode.
type Address struct {
	Street  string
	City    string
	State   string
	ZipCode string
}

// Result holds the geocoding output for an address. Matched is false
// when the provider could not resolve the address; coordinates are only
// meaningful when Matched is true.
type Result struct {
	Latitude  float64
	Longitude float64
	Source    string
	Matched   bool
}

// Geocoder resolves a single address. Implementations must treat a
// miss as a Result with Matched=false, not an error; errors are for
// transport-level failures.
type Geocoder interface {
	Geocode(ctx context.Context, addr Address) (*Result, error)
}

// Stub is the default Geocoder when no real provider is configured.
// It never matches.
type Stub struct{}

// Geocode implements Geocoder.
func (Stub) Geocode(_ context.Context, _ Address) (*Result, error) {
	return &Result{Matched: false, Source: "stub"}, nil
}

// oneLine formats an address the way the Census one-line endpoint
// expects it.
func oneLine(addr Address) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{addr.Street, addr.City, addr.State, addr.ZipCode} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}
