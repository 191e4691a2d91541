package operator

import (
	"vroom/internal/core"
	"vroom/internal/feasibility"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/routestate"
)

// CandidateCache rebuilds the cache for a hypothetical route (vehicleIndex,
// steps) and folds in the checks Rebuild doesn't already cover: skills
// (route-wide, spec.md §4.2) and the vehicle's optional global maxima
// (task count / travel time / distance, spec.md §3 invariant 5).
//
// This function is the operator framework's one deliberate departure from
// strict O(1) gain evaluation (spec.md §4.4): rebuilding a whole candidate
// route is O(|route|), not O(1) against precomputed bounds. See DESIGN.md
// for the tradeoff this buys in exchange for correctness across 16
// operator variants, several of which reverse segments.
func CandidateCache(ctx *core.Context, vehicleIndex int, steps []model.Step) (*routestate.Cache, bool) {
	v := ctx.Input.Vehicles[vehicleIndex]
	route := model.Route{VehicleIndex: vehicleIndex, Steps: steps}
	cache, err := routestate.Rebuild(ctx, route)
	if err != nil || !cache.Feasible {
		return cache, false
	}
	for _, s := range steps {
		if s.Kind != model.StepJob {
			continue
		}
		if !feasibility.Skills(ctx.Input.Jobs[s.JobIndex], v) {
			return cache, false
		}
	}
	if !feasibility.GlobalLimits(v, cache.TotalDuration, cache.TotalDistance, cache.JobCount) {
		return cache, false
	}
	return cache, true
}

// pdConstraintsHold reports whether steps still respects the
// pickup-before-delivery pairing invariant for every shipment job it
// contains (spec.md P2). Both a pickup and its delivery must be present
// together, pickup strictly before delivery.
func pdConstraintsHold(in *model.Input, steps []model.Step) bool {
	rankOf := make(map[int]int, len(steps))
	for k, s := range steps {
		if s.Kind == model.StepJob {
			rankOf[s.JobIndex] = k
		}
	}
	for ji, rank := range rankOf {
		j := in.Jobs[ji]
		if j.Kind == model.JobPickup {
			dRank, ok := rankOf[j.PairIndex]
			if !ok || rank >= dRank {
				return false
			}
		} else if j.Kind == model.JobDelivery {
			pRank, ok := rankOf[j.PairIndex]
			if !ok || pRank >= rank {
				return false
			}
		}
	}
	return true
}

// routeCostDelta returns the objective contribution change of replacing a
// route's cache with newCache (fixed cost only counts while the route is
// non-empty).
func routeCostDelta(v model.Vehicle, oldCache, newCache *routestate.Cache) (costDelta, durationDelta int64) {
	oldCost := int64(0)
	if oldCache != nil && oldCache.TaskCount > 0 {
		oldCost = objective.RouteCost(v, oldCache)
	}
	newCost := int64(0)
	if newCache != nil && newCache.TaskCount > 0 {
		newCost = objective.RouteCost(v, newCache)
	}
	oldDur := int64(0)
	if oldCache != nil {
		oldDur = oldCache.TotalDuration
	}
	newDur := int64(0)
	if newCache != nil {
		newDur = newCache.TotalDuration
	}
	return newCost - oldCost, newDur - oldDur
}
