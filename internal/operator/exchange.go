package operator

import (
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/routestate"
)

// Exchange/IntraExchange swap one job (SegLen=TargetSegLen=1) between two
// positions; CrossExchange swaps two 2-job segments; MixedExchange swaps a
// single job against a 2-job segment (spec.md §4.4). Reverse/ReverseTarget
// control whether the segment lifted from the source/target is flipped
// before landing in its new home.

func segOrOne(n int) int { return segLenOrOne(n) }

func evaluateExchange(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, move Move) Evaluation {
	segLenA := segOrOne(move.SegLen)
	segLenB := segOrOne(move.TargetSegLen)

	if move.SourceRoute == move.TargetRoute {
		newSteps, ok := swapSegmentsSameRoute(sol.Routes[move.SourceRoute].Steps, move.SourceRank, segLenA, move.TargetRank, segLenB, move.Reverse, move.ReverseTarget)
		if !ok || !pdConstraintsHold(ctx.Input, newSteps) {
			return Evaluation{}
		}
		newCache, ok := CandidateCache(ctx, sol.Routes[move.SourceRoute].VehicleIndex, newSteps)
		if !ok {
			return Evaluation{Feasible: false}
		}
		v := ctx.Input.Vehicles[sol.Routes[move.SourceRoute].VehicleIndex]
		costDelta, durDelta := routeCostDelta(v, caches[move.SourceRoute], newCache)
		return Evaluation{Feasible: true, Delta: objective.Tuple{Cost: costDelta, Duration: durDelta}, NewSourceCache: newCache}
	}

	src := sol.Routes[move.SourceRoute]
	tgt := sol.Routes[move.TargetRoute]
	if move.SourceRank < 0 || move.SourceRank+segLenA > len(src.Steps) {
		return Evaluation{}
	}
	if move.TargetRank < 0 || move.TargetRank+segLenB > len(tgt.Steps) {
		return Evaluation{}
	}
	restSrc, segA := withSegmentRemoved(src.Steps, move.SourceRank, segLenA)
	restTgt, segB := withSegmentRemoved(tgt.Steps, move.TargetRank, segLenB)
	newSrcSteps := withSegmentInserted(restSrc, move.SourceRank, segB, move.ReverseTarget)
	newTgtSteps := withSegmentInserted(restTgt, move.TargetRank, segA, move.Reverse)
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

func applyExchange(sol *model.Solution, move Move) ApplyResult {
	segLenA := segOrOne(move.SegLen)
	segLenB := segOrOne(move.TargetSegLen)

	if move.SourceRoute == move.TargetRoute {
		newSteps, _ := swapSegmentsSameRoute(sol.Routes[move.SourceRoute].Steps, move.SourceRank, segLenA, move.TargetRank, segLenB, move.Reverse, move.ReverseTarget)
		sol.Routes[move.SourceRoute].Steps = newSteps
		return ApplyResult{TouchedRoutes: []int{move.SourceRoute}}
	}

	src := &sol.Routes[move.SourceRoute]
	tgt := &sol.Routes[move.TargetRoute]
	restSrc, segA := withSegmentRemoved(src.Steps, move.SourceRank, segLenA)
	restTgt, segB := withSegmentRemoved(tgt.Steps, move.TargetRank, segLenB)
	src.Steps = withSegmentInserted(restSrc, move.SourceRank, segB, move.ReverseTarget)
	tgt.Steps = withSegmentInserted(restTgt, move.TargetRank, segA, move.Reverse)
	return ApplyResult{TouchedRoutes: []int{move.SourceRoute, move.TargetRoute}}
}

// swapSegmentsSameRoute swaps two disjoint segments within one route's step
// slice, reporting ok=false if they overlap.
func swapSegmentsSameRoute(steps []model.Step, rankA, lenA, rankB, lenB int, reverseAintoB, reverseBintoA bool) ([]model.Step, bool) {
	if rankA > rankB {
		rankA, rankB = rankB, rankA
		lenA, lenB = lenB, lenA
		reverseAintoB, reverseBintoA = reverseBintoA, reverseAintoB
	}
	if rankA < 0 || rankA+lenA > rankB || rankB+lenB > len(steps) {
		return nil, false
	}
	segA := cloneSteps(steps[rankA : rankA+lenA])
	segB := cloneSteps(steps[rankB : rankB+lenB])
	rest := make([]model.Step, 0, len(steps)-lenA-lenB)
	rest = append(rest, steps[:rankA]...)
	rest = append(rest, steps[rankA+lenA:rankB]...)
	rest = append(rest, steps[rankB+lenB:]...)

	bSlotInRest := rankB - lenA
	afterB := withSegmentInserted(rest, rankA, segB, reverseBintoA)
	final := withSegmentInserted(afterB, bSlotInRest+len(segB), segA, reverseAintoB)
	return final, true
}
