package operator

import (
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/routestate"
)

// SwapStar removes one job from each of two routes and reinserts each into
// the other route at its own best (unrestricted) position — SourceRank/
// TargetRank are the ranks removed from; SourceInsertRank/TargetInsertRank
// are where the incoming job lands (spec.md §4.4). Candidate pairs are
// chosen by the caller (internal/localsearch), which tries every job pair
// of the two routes with no geographic restriction; this function only
// scores one concrete pair.

func adjustRankAfterRemoval(insertRank, removedRank int) int {
	if insertRank > removedRank {
		return insertRank - 1
	}
	return insertRank
}

func clampRank(r, max int) int {
	if r < 0 {
		return 0
	}
	if r > max {
		return max
	}
	return r
}

func evaluateSwapStar(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, move Move) Evaluation {
	if move.SourceRoute == move.TargetRoute {
		return Evaluation{}
	}
	src := sol.Routes[move.SourceRoute]
	tgt := sol.Routes[move.TargetRoute]
	if move.SourceRank < 0 || move.SourceRank >= len(src.Steps) {
		return Evaluation{}
	}
	if move.TargetRank < 0 || move.TargetRank >= len(tgt.Steps) {
		return Evaluation{}
	}
	restSrc, segA := withSegmentRemoved(src.Steps, move.SourceRank, 1)
	restTgt, segB := withSegmentRemoved(tgt.Steps, move.TargetRank, 1)

	srcInsertRank := clampRank(adjustRankAfterRemoval(move.SourceInsertRank, move.SourceRank), len(restSrc))
	tgtInsertRank := clampRank(adjustRankAfterRemoval(move.TargetInsertRank, move.TargetRank), len(restTgt))

	newSrcSteps := withSegmentInserted(restSrc, srcInsertRank, segB, false)
	newTgtSteps := withSegmentInserted(restTgt, tgtInsertRank, segA, false)
	if !pdConstraintsHold(ctx.Input, newSrcSteps) || !pdConstraintsHold(ctx.Input, newTgtSteps) {
		return Evaluation{}
	}
	newSrcCache, ok := CandidateCache(ctx, src.VehicleIndex, newSrcSteps)
	if !ok {
		return Evaluation{Feasible: false}
	}
	newTgtCache, ok := CandidateCache(ctx, tgt.VehicleIndex, newTgtSteps)
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

func applySwapStar(sol *model.Solution, move Move) ApplyResult {
	src := &sol.Routes[move.SourceRoute]
	tgt := &sol.Routes[move.TargetRoute]
	restSrc, segA := withSegmentRemoved(src.Steps, move.SourceRank, 1)
	restTgt, segB := withSegmentRemoved(tgt.Steps, move.TargetRank, 1)
	srcInsertRank := clampRank(adjustRankAfterRemoval(move.SourceInsertRank, move.SourceRank), len(restSrc))
	tgtInsertRank := clampRank(adjustRankAfterRemoval(move.TargetInsertRank, move.TargetRank), len(restTgt))
	src.Steps = withSegmentInserted(restSrc, srcInsertRank, segB, false)
	tgt.Steps = withSegmentInserted(restTgt, tgtInsertRank, segA, false)
	return ApplyResult{TouchedRoutes: []int{move.SourceRoute, move.TargetRoute}}
}
