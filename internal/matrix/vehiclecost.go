package matrix

import "sync"

// CostFunc evaluates the travel cost from i to j for one vehicle.
type CostFunc func(i, j int) int64

// VehicleCosts lazily synthesizes and caches a per-vehicle cost function
// when a profile carries no explicit cost matrix. Per spec.md §4.1 the
// synthetic cost depends on the vehicle's own per_hour/per_km rates, so it
// cannot be shared across vehicles the way duration/distance are; caching
// it per (profile, per_hour, per_km) combination avoids resynthesizing it
// on every operator evaluation, and vehicles with identical rates share
// one table.
type VehicleCosts struct {
	mu    sync.Mutex
	set   *Set
	cache map[vehicleCostKey]*Table
}

type vehicleCostKey struct {
	profile string
	perHour int64
	perKm   int64
}

// NewVehicleCosts builds a cache over the given matrix set.
func NewVehicleCosts(set *Set) *VehicleCosts {
	return &VehicleCosts{set: set, cache: make(map[vehicleCostKey]*Table)}
}

// For returns a CostFunc for the named profile and per_hour/per_km rates,
// using the profile's explicit cost matrix if one was supplied, or a
// synthesized and cached table otherwise.
func (vc *VehicleCosts) For(profile string, perHour, perKm int64) (CostFunc, error) {
	p, err := vc.set.Profile(profile)
	if err != nil {
		return nil, err
	}
	if p.Costs != nil {
		return p.Cost, nil
	}
	key := vehicleCostKey{profile: profile, perHour: perHour, perKm: perKm}
	vc.mu.Lock()
	defer vc.mu.Unlock()
	t, ok := vc.cache[key]
	if !ok {
		t = SynthesizeCost(p.Durations, p.Distances, perHour, perKm)
		vc.cache[key] = t
	}
	return t.Get, nil
}
