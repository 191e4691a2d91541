// Package routingclient fetches travel-time/distance matrices from an
// external routing backend when a problem document supplies raw
// coordinates but no matrices (spec.md §6.2). It never runs inside the
// solve hot path: internal/core.Context always holds an already-resolved
// matrix.Set, built either directly from the input or, once, here.
package routingclient

import (
	"context"
	"fmt"
)

// Provider fetches a duration/distance table for one travel profile over
// an ordered list of [lon,lat] coordinates. Row/column i of the returned
// tables corresponds to coords[i].
type Provider interface {
	Name() string
	Matrix(ctx context.Context, profile string, coords [][2]float64) (durations, distances [][]int64, err error)
	// Route returns a polyline-encoded shape for a single leg, used only
	// when a caller asks for route geometry (spec.md §6, supplemented).
	Route(ctx context.Context, profile string, from, to [2]float64) (polyline string, distance, duration int64, err error)
}

func newProvider(name, baseURL, apiKey string) (Provider, error) {
	switch name {
	case "", "osrm":
		return newOSRMProvider(defaultString(baseURL, "http://localhost:5000")), nil
	case "ors":
		return newORSProvider(defaultString(baseURL, "https://api.openrouteservice.org"), apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported routing provider %q", name)
	}
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
