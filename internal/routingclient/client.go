package routingclient

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"vroom/internal/config"
	"vroom/internal/matrix"
	"vroom/internal/metrics"
	"vroom/internal/model"
	"vroom/internal/vrerr"
)

// Client fetches and caches travel matrices from a configured routing
// backend. One Client is built per solver process and shared across every
// concurrently-served problem (spec.md §6.2, supplemented).
type Client struct {
	provider Provider
	limiter  *rate.Limiter
	cache    cache
	ttl      time.Duration
}

// New builds a Client from cfg. A missing cfg.Provider defaults to osrm;
// a missing cfg.RedisURL falls back to an in-process memoization cache
// that doesn't survive process restarts.
func New(cfg config.RoutingConfig) (*Client, error) {
	provider, err := newProvider(cfg.Provider, cfg.BaseURL, cfg.APIKey)
	if err != nil {
		return nil, vrerr.InputError("routingclient.New", err)
	}
	var c cache
	if cfg.RedisURL != "" {
		c, err = newRedisCache(cfg.RedisURL)
		if err != nil {
			return nil, vrerr.InputError("routingclient.New", err)
		}
	} else {
		c = newMemoryCache()
	}
	ttl := time.Duration(cfg.CacheTTLMS) * time.Millisecond
	return &Client{provider: provider, limiter: rate.NewLimiter(rate.Limit(5), 10), cache: c, ttl: ttl}, nil
}

// FetchSet builds a matrix.Set covering every distinct vehicle profile in
// in, fetching each profile's durations/distances from the routing
// backend over every location referenced by a job or vehicle endpoint.
// Every referenced Location must already carry coordinates (spec.md §6:
// FetchSet is only reached when the problem document gave none of its
// own matrices).
func (c *Client) FetchSet(ctx context.Context, in *model.Input) (*matrix.Set, error) {
	coords, err := collectCoordinates(in)
	if err != nil {
		return nil, vrerr.InputError("routingclient.FetchSet", err)
	}
	profileNames := map[string]struct{}{}
	for _, v := range in.Vehicles {
		profileNames[v.Profile] = struct{}{}
	}
	built := make([]*matrix.Profile, 0, len(profileNames))
	for _, name := range sortedProfiles(profileNames) {
		durations, distances, err := c.fetchProfile(ctx, name, coords)
		if err != nil {
			return nil, vrerr.RoutingErrorf("routingclient.FetchSet", "profile %q: %v", name, err)
		}
		built = append(built, &matrix.Profile{
			Name:      name,
			Durations: tableOf(durations),
			Distances: tableOf(distances),
		})
	}
	return matrix.NewSet(built...), nil
}

func (c *Client) fetchProfile(ctx context.Context, profile string, coords [][2]float64) (durations, distances [][]int64, err error) {
	key := cacheKey(profile, coords)
	if data, ok := c.cache.get(ctx, key); ok {
		metrics.RoutingClientRequests.WithLabelValues(c.provider.Name(), "hit").Inc()
		return decodeMatrix(data)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}
	start := time.Now()
	durations, distances, err = c.provider.Matrix(ctx, profile, coords)
	metrics.RoutingClientLatency.WithLabelValues(c.provider.Name()).Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RoutingClientRequests.WithLabelValues(c.provider.Name(), "error").Inc()
		return nil, nil, err
	}
	metrics.RoutingClientRequests.WithLabelValues(c.provider.Name(), "miss").Inc()
	if data, encErr := encodeMatrix(durations, distances); encErr == nil {
		c.cache.set(ctx, key, data, c.ttl)
	}
	return durations, distances, nil
}

// RouteGeometry stitches together one polyline per consecutive pair of
// locations in stops into a single encoded polyline for the whole route
// (spec.md §6, supplemented: an optional "geometry" field on each route).
func (c *Client) RouteGeometry(ctx context.Context, profile string, stops [][2]float64) (string, error) {
	if len(stops) < 2 {
		return "", nil
	}
	var all [][2]float64
	for i := 0; i+1 < len(stops); i++ {
		leg, _, _, err := c.provider.Route(ctx, profile, stops[i], stops[i+1])
		if err != nil {
			return "", vrerr.RoutingErrorf("routingclient.RouteGeometry", "leg %d: %v", i, err)
		}
		points := decodePolyline(leg)
		if i > 0 && len(points) > 0 {
			points = points[1:] // drop the duplicate junction point
		}
		all = append(all, points...)
	}
	return encodePolyline(all), nil
}

func collectCoordinates(in *model.Input) ([][2]float64, error) {
	coords := make([][2]float64, in.LocationCount)
	seen := make([]bool, in.LocationCount)
	set := func(loc model.Location) error {
		if loc.Index < 0 || loc.Index >= in.LocationCount {
			return fmt.Errorf("location index %d out of range", loc.Index)
		}
		if !loc.HasCoords {
			return fmt.Errorf("location %d has no coordinates to fetch a matrix with", loc.Index)
		}
		coords[loc.Index] = [2]float64{loc.Lon, loc.Lat}
		seen[loc.Index] = true
		return nil
	}
	for _, j := range in.Jobs {
		if err := set(j.Location); err != nil {
			return nil, err
		}
	}
	for _, v := range in.Vehicles {
		if v.Start != nil {
			if err := set(*v.Start); err != nil {
				return nil, err
			}
		}
		if v.End != nil {
			if err := set(*v.End); err != nil {
				return nil, err
			}
		}
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("location %d is never referenced by a job or vehicle endpoint", i)
		}
	}
	return coords, nil
}

func tableOf(rows [][]int64) *matrix.Table {
	n := len(rows)
	t := matrix.NewTable(n)
	for i, row := range rows {
		for j, v := range row {
			t.Set(i, j, v)
		}
	}
	return t
}
