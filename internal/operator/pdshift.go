package operator

import (
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/routestate"
)

// PDShift moves a pickup/delivery pair from SourceRoute to TargetRoute as a
// unit, preserving precedence (spec.md §4.4). SourceRank is the pickup's
// rank in the source route; its delivery is located via the job's
// PairIndex (the two need not be adjacent in the source route). The pair
// is inserted contiguously — pickup then delivery — starting at TargetRank
// in the target route.

func removeTwoRanks(steps []model.Step, rankA, rankB int) (rest []model.Step, a, b model.Step) {
	if rankA > rankB {
		rankA, rankB = rankB, rankA
	}
	a = steps[rankA]
	b = steps[rankB]
	rest = make([]model.Step, 0, len(steps)-2)
	rest = append(rest, steps[:rankA]...)
	rest = append(rest, steps[rankA+1:rankB]...)
	rest = append(rest, steps[rankB+1:]...)
	return rest, a, b
}

func pdshiftSegments(ctx *core.Context, sol *model.Solution, move Move) (restSrc []model.Step, pdSeg []model.Step, ok bool) {
	src := sol.Routes[move.SourceRoute]
	if move.SourceRank < 0 || move.SourceRank >= len(src.Steps) {
		return nil, nil, false
	}
	pickupStep := src.Steps[move.SourceRank]
	if pickupStep.Kind != model.StepJob {
		return nil, nil, false
	}
	pickupJob := ctx.Input.Jobs[pickupStep.JobIndex]
	if pickupJob.Kind != model.JobPickup {
		return nil, nil, false
	}
	deliveryRank := src.IndexOfJob(pickupJob.PairIndex)
	if deliveryRank < 0 {
		return nil, nil, false
	}
	rest, pRank1, dRank1 := removeTwoRanks(src.Steps, move.SourceRank, deliveryRank)
	if move.SourceRank < deliveryRank {
		return rest, []model.Step{pRank1, dRank1}, true
	}
	return rest, []model.Step{dRank1, pRank1}, true
}

func evaluatePDShift(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, move Move) Evaluation {
	if move.SourceRoute == move.TargetRoute {
		return Evaluation{}
	}
	restSrc, pdSeg, ok := pdshiftSegments(ctx, sol, move)
	if !ok {
		return Evaluation{}
	}
	tgt := sol.Routes[move.TargetRoute]
	if move.TargetRank < 0 || move.TargetRank > len(tgt.Steps) {
		return Evaluation{}
	}
	newTgtSteps := withSegmentInserted(tgt.Steps, move.TargetRank, pdSeg, false)
	if !pdConstraintsHold(ctx.Input, restSrc) || !pdConstraintsHold(ctx.Input, newTgtSteps) {
		return Evaluation{}
	}
	src := sol.Routes[move.SourceRoute]
	newSrcCache, ok := CandidateCache(ctx, src.VehicleIndex, restSrc)
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

func applyPDShift(ctx *core.Context, sol *model.Solution, move Move) ApplyResult {
	restSrc, pdSeg, ok := pdshiftSegments(ctx, sol, move)
	if !ok {
		return ApplyResult{}
	}
	src := &sol.Routes[move.SourceRoute]
	tgt := &sol.Routes[move.TargetRoute]
	src.Steps = restSrc
	tgt.Steps = withSegmentInserted(tgt.Steps, move.TargetRank, pdSeg, false)
	return ApplyResult{TouchedRoutes: []int{move.SourceRoute, move.TargetRoute}}
}
