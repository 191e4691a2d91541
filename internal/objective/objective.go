// Package objective scalarizes a Solution into the lexicographic tuple
// spec.md §4.7 defines the solver around:
//
//	(-Σ priority(unassigned), Σ_routes (fixed + travel_cost), Σ_routes duration)
//
// and provides the comparison every construction heuristic and
// local-search move selection is judged against.
package objective

import (
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/routestate"
)

// Tuple is the three-component objective, ordered exactly as compared:
// fewer unassigned priority points first, then lower cost, then lower
// total travel duration.
//
// spec.md §4.7 writes the first component as "-Σ priority(unassigned)"
// but §1 and every worked scenario (§8 scenario 6: "the priority-10 job is
// assigned; unassigned contains the other regardless of relative cost")
// describe minimizing the priority weight left unassigned, not maximizing
// it. UnassignedPriority is defined here as the plain, unnegated sum
// (smaller is better, zero means everything got assigned) — see DESIGN.md
// for this Open Question resolution.
type Tuple struct {
	UnassignedPriority int64
	Cost               int64
	Duration           int64
}

// Compare returns a negative number if a is strictly better than b, zero
// if they're equal, and a positive number if b is strictly better —
// comparing component-wise, left to right, per spec.md §4.7.
func Compare(a, b Tuple) int {
	switch {
	case a.UnassignedPriority != b.UnassignedPriority:
		return sign(a.UnassignedPriority - b.UnassignedPriority)
	case a.Cost != b.Cost:
		return sign(a.Cost - b.Cost)
	default:
		return sign(a.Duration - b.Duration)
	}
}

// Less reports whether a is strictly better than b.
func Less(a, b Tuple) bool { return Compare(a, b) < 0 }

func sign(v int64) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

// Add returns a+b componentwise; used to fold a move's incremental
// contribution into a running tuple without a full re-evaluation.
func (a Tuple) Add(b Tuple) Tuple {
	return Tuple{
		UnassignedPriority: a.UnassignedPriority + b.UnassignedPriority,
		Cost:               a.Cost + b.Cost,
		Duration:           a.Duration + b.Duration,
	}
}

// RouteCost returns a single route's (fixed + travel_cost) contribution to
// the objective, per spec.md §4.7. travel_cost is cache.TotalCost, the
// route's edges summed under the vehicle's cost function — either an
// explicit per-profile cost matrix, or, absent one, per_hour/per_km rates
// synthesized per edge with the half-away-from-zero rounding spec.md §9
// pins (matrix.SynthesizeCost via matrix.VehicleCosts).
//
// This intentionally supersedes spec.md §4.7's route-level formula
// ceil(per_hour·duration/3600)+ceil(per_km·distance/1000): summing an
// already-rounded cost per edge and rounding the aggregate route totals
// once are numerically different operations, and per-edge accumulation is
// what lets an explicit cost matrix override synthesis one edge at a time
// (see DESIGN.md for the resolution).
func RouteCost(v model.Vehicle, cache *routestate.Cache) int64 {
	if cache.TaskCount == 0 {
		return 0
	}
	return v.Cost.Fixed + cache.TotalCost
}

// RouteTuple returns the (cost, duration) contribution of one route,
// leaving UnassignedPriority at zero (callers sum it in separately).
func RouteTuple(v model.Vehicle, cache *routestate.Cache) Tuple {
	return Tuple{Cost: RouteCost(v, cache), Duration: cache.TotalDuration}
}

// Evaluate computes the full objective tuple for a solution from scratch,
// given each route's already-rebuilt cache. This is the reference,
// non-incremental computation used to seed a run and to sanity-check the
// incrementally-tracked tuple in debug builds (spec.md §8 P5).
func Evaluate(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache) Tuple {
	var t Tuple
	for _, ji := range sol.Unassigned {
		t.UnassignedPriority += ctx.Input.Jobs[ji].PriorityContribution()
	}
	for i, r := range sol.Routes {
		if len(r.Steps) == 0 {
			continue
		}
		v := ctx.Input.Vehicles[r.VehicleIndex]
		rt := RouteTuple(v, caches[i])
		t.Cost += rt.Cost
		t.Duration += rt.Duration
	}
	return t
}
