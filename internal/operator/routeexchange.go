package operator

import (
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/routestate"
)

// RouteExchange swaps the entire step sequence of SourceRoute with that of
// TargetRoute — useful when two vehicles are near-equivalent but one is
// cheaper (spec.md §4.4).

func evaluateRouteExchange(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, move Move) Evaluation {
	if move.SourceRoute == move.TargetRoute {
		return Evaluation{}
	}
	src := sol.Routes[move.SourceRoute]
	tgt := sol.Routes[move.TargetRoute]
	newSrcCache, ok := CandidateCache(ctx, src.VehicleIndex, cloneSteps(tgt.Steps))
	if !ok {
		return Evaluation{Feasible: false}
	}
	newTgtCache, ok := CandidateCache(ctx, tgt.VehicleIndex, cloneSteps(src.Steps))
	if !ok {
		return Evaluation{Feasible: false}
	}
	sv := ctx.Input.Vehicles[src.VehicleIndex]
	tv := ctx.Input.Vehicles[tgt.VehicleIndex]
	srcCostDelta, srcDurDelta := routeCostDelta(sv, caches[move.SourceRoute], newSrcCache)
	tgtCostDelta, tgtDurDelta := routeCostDelta(tv, caches[move.TargetRoute], newTgtCache)
	return Evaluation{
		Feasible:       true,
		Delta:          objective.Tuple{Cost: srcCostDelta + tgtCostDelta, Duration: srcDurDelta + tgtDurDelta},
		NewSourceCache: newSrcCache,
		NewTargetCache: newTgtCache,
	}
}

func applyRouteExchange(sol *model.Solution, move Move) ApplyResult {
	src := &sol.Routes[move.SourceRoute]
	tgt := &sol.Routes[move.TargetRoute]
	src.Steps, tgt.Steps = tgt.Steps, src.Steps
	return ApplyResult{TouchedRoutes: []int{move.SourceRoute, move.TargetRoute}}
}
