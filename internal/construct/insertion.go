package construct

import (
	"vroom/internal/core"
	"vroom/internal/feasibility"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/operator"
	"vroom/internal/routestate"
)

// placement is the cheapest feasible spot found for a unit in one route:
// the rank to insert at (steps go before index TargetRank, i.e. the same
// convention operator.Move uses for a 0-length-segment landing spot) and
// the resulting cache plus cost delta.
type placement struct {
	routeIndex int
	rank       int
	cache      *routestate.Cache
	costDelta  int64
	durDelta   int64
	found      bool
}

// bestInsertion scans every rank of one route for the cheapest feasible
// placement of unit u, landing its jobs contiguously (pickup immediately
// followed by delivery for a shipment — spec.md §3 P2, §4.5's tractability
// simplification). A single-job unit first runs the O(1)
// feasibility.CanInsertSingleJob check against the route's current cache
// (spec.md §4.2) and skips ranks it rules out without paying for a full
// candidate rebuild; every rank it doesn't rule out, and every rank of a
// multi-job (shipment) unit, still gets the O(|route|) rebuild
// internal/operator.CandidateCache documents, since that's what actually
// prices the placement.
func bestInsertion(ctx *core.Context, routeIndex int, route model.Route, cache *routestate.Cache, u unit) placement {
	v := ctx.Input.Vehicles[route.VehicleIndex]
	best := placement{routeIndex: routeIndex}
	seg := u.steps()
	var singleJob model.Job
	isSingleJob := len(u.jobs) == 1
	if isSingleJob {
		singleJob = ctx.Input.Jobs[u.jobs[0]]
	}
	for rank := 0; rank <= len(route.Steps); rank++ {
		if isSingleJob {
			if ok, err := feasibility.CanInsertSingleJob(ctx, cache, v, singleJob, rank-1, rank); err == nil && !ok {
				continue
			}
		}
		newSteps := withSegmentInserted(route.Steps, rank, seg)
		newCache, ok := operator.CandidateCache(ctx, route.VehicleIndex, newSteps)
		if !ok {
			continue
		}
		costDelta, durDelta := deltaAgainst(v, cache, newCache)
		if !best.found || costDelta < best.costDelta {
			best = placement{routeIndex: routeIndex, rank: rank, cache: newCache, costDelta: costDelta, durDelta: durDelta, found: true}
		}
	}
	return best
}

func withSegmentInserted(steps []model.Step, rank int, seg []model.Step) []model.Step {
	out := make([]model.Step, 0, len(steps)+len(seg))
	out = append(out, steps[:rank]...)
	out = append(out, seg...)
	out = append(out, steps[rank:]...)
	return out
}

func deltaAgainst(v model.Vehicle, oldCache, newCache *routestate.Cache) (costDelta, durDelta int64) {
	oldCost := int64(0)
	oldDur := int64(0)
	if oldCache != nil && oldCache.TaskCount > 0 {
		oldCost = objective.RouteCost(v, oldCache)
		oldDur = oldCache.TotalDuration
	}
	newCost := objective.RouteCost(v, newCache)
	return newCost - oldCost, newCache.TotalDuration - oldDur
}

// rankedPlacements returns every route's best placement for u, sorted
// ascending by cost delta. A route with no feasible placement is omitted.
func rankedPlacements(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, u unit, vehicleFilter func(int) bool) []placement {
	out := make([]placement, 0, len(sol.Routes))
	for ri, r := range sol.Routes {
		if vehicleFilter != nil && !vehicleFilter(r.VehicleIndex) {
			continue
		}
		p := bestInsertion(ctx, ri, r, caches[ri], u)
		if p.found {
			out = append(out, p)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].costDelta < out[j-1].costDelta; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
