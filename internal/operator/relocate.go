package operator

import (
	"vroom/internal/core"
	"vroom/internal/feasibility"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/routestate"
)

// Relocate/IntraRelocate move a single job (SegLen defaults to 1) from
// (SourceRoute, SourceRank) to (TargetRoute, TargetRank); Or-opt/IntraOr-opt
// are the same move generalized to a 2- or 3-job segment with an optional
// Reverse flag (spec.md §4.4 catalog). TargetRank is expressed in the
// TARGET route's ORIGINAL index space; for the intra-route case a shift is
// applied internally to account for the segment's removal.

func evaluateRelocate(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, move Move) Evaluation {
	segLen := segLenOrOne(move.SegLen)
	src := sol.Routes[move.SourceRoute]
	if move.SourceRank < 0 || move.SourceRank+segLen > len(src.Steps) {
		return Evaluation{}
	}
	restSteps, seg := withSegmentRemoved(src.Steps, move.SourceRank, segLen)

	if move.SourceRoute == move.TargetRoute {
		targetRank := move.TargetRank
		if targetRank > move.SourceRank {
			targetRank -= segLen
		}
		if targetRank < 0 || targetRank > len(restSteps) {
			return Evaluation{}
		}
		newSteps := withSegmentInserted(restSteps, targetRank, seg, move.Reverse)
		if !pdConstraintsHold(ctx.Input, newSteps) {
			return Evaluation{}
		}
		newCache, ok := CandidateCache(ctx, src.VehicleIndex, newSteps)
		if !ok {
			return Evaluation{Feasible: false}
		}
		v := ctx.Input.Vehicles[src.VehicleIndex]
		costDelta, durDelta := routeCostDelta(v, caches[move.SourceRoute], newCache)
		return Evaluation{
			Feasible:       true,
			Delta:          objective.Tuple{Cost: costDelta, Duration: durDelta},
			NewSourceCache: newCache,
		}
	}

	if move.TargetRoute < 0 || move.TargetRoute >= len(sol.Routes) {
		return Evaluation{}
	}
	tgt := sol.Routes[move.TargetRoute]
	if move.TargetRank < 0 || move.TargetRank > len(tgt.Steps) {
		return Evaluation{}
	}
	// A plain single-job Relocate (segLen 1, not Or-opt's 2/3-job segment)
	// gets the O(1) feasibility.CanInsertSingleJob check against the
	// target route's current cache first, so an insertion the peak-load/
	// earliest-latest arrays already rule out never pays for the two full
	// candidate rebuilds below (spec.md §4.2, §4.4).
	if segLen == 1 {
		tv := ctx.Input.Vehicles[tgt.VehicleIndex]
		job := ctx.Input.Jobs[seg[0].JobIndex]
		if ok, err := feasibility.CanInsertSingleJob(ctx, caches[move.TargetRoute], tv, job, move.TargetRank-1, move.TargetRank); err == nil && !ok {
			return Evaluation{Feasible: false}
		}
	}
	newTargetSteps := withSegmentInserted(tgt.Steps, move.TargetRank, seg, move.Reverse)
	if !pdConstraintsHold(ctx.Input, restSteps) || !pdConstraintsHold(ctx.Input, newTargetSteps) {
		return Evaluation{}
	}
	newSourceCache, ok := CandidateCache(ctx, src.VehicleIndex, restSteps)
	if !ok {
		return Evaluation{Feasible: false}
	}
	newTargetCache, ok := CandidateCache(ctx, tgt.VehicleIndex, newTargetSteps)
	if !ok {
		return Evaluation{Feasible: false}
	}
	sv := ctx.Input.Vehicles[src.VehicleIndex]
	tv := ctx.Input.Vehicles[tgt.VehicleIndex]
	srcCostDelta, srcDurDelta := routeCostDelta(sv, caches[move.SourceRoute], newSourceCache)
	tgtCostDelta, tgtDurDelta := routeCostDelta(tv, caches[move.TargetRoute], newTargetCache)
	return Evaluation{
		Feasible: true,
		Delta: objective.Tuple{
			Cost:     srcCostDelta + tgtCostDelta,
			Duration: srcDurDelta + tgtDurDelta,
		},
		NewSourceCache: newSourceCache,
		NewTargetCache: newTargetCache,
	}
}

func applyRelocate(sol *model.Solution, move Move) ApplyResult {
	segLen := segLenOrOne(move.SegLen)
	src := &sol.Routes[move.SourceRoute]
	restSteps, seg := withSegmentRemoved(src.Steps, move.SourceRank, segLen)

	if move.SourceRoute == move.TargetRoute {
		targetRank := move.TargetRank
		if targetRank > move.SourceRank {
			targetRank -= segLen
		}
		src.Steps = withSegmentInserted(restSteps, targetRank, seg, move.Reverse)
		return ApplyResult{TouchedRoutes: []int{move.SourceRoute}}
	}

	src.Steps = restSteps
	tgt := &sol.Routes[move.TargetRoute]
	tgt.Steps = withSegmentInserted(tgt.Steps, move.TargetRank, seg, move.Reverse)
	return ApplyResult{TouchedRoutes: []int{move.SourceRoute, move.TargetRoute}}
}
