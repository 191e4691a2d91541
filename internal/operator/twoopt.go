package operator

import (
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/routestate"
)

// TwoOpt exchanges the tails of two routes after ranks SourceRank
// (exclusive) and TargetRank (exclusive): newSource = source[:SourceRank+1]
// + target[TargetRank+1:], newTarget = target[:TargetRank+1] +
// source[SourceRank+1:]. ReverseTwoOpt is the same exchange with the
// appended tail reversed (spec.md §4.4). IntraTwoOpt reverses the
// subsequence [SourceRank, TargetRank] within a single route.

func evaluateTwoOpt(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, move Move) Evaluation {
	if move.Kind == IntraTwoOpt || move.SourceRoute == move.TargetRoute {
		steps := sol.Routes[move.SourceRoute].Steps
		i, j := move.SourceRank, move.TargetRank
		if i > j {
			i, j = j, i
		}
		if i < 0 || j >= len(steps) || i >= j {
			return Evaluation{}
		}
		newSteps := make([]model.Step, len(steps))
		copy(newSteps, steps[:i])
		copy(newSteps[i:], reversedSteps(steps[i:j+1]))
		copy(newSteps[j+1:], steps[j+1:])
		if !pdConstraintsHold(ctx.Input, newSteps) {
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
	if move.SourceRank < -1 || move.SourceRank >= len(src.Steps) {
		return Evaluation{}
	}
	if move.TargetRank < -1 || move.TargetRank >= len(tgt.Steps) {
		return Evaluation{}
	}
	srcHead := cloneSteps(src.Steps[:move.SourceRank+1])
	srcTail := cloneSteps(src.Steps[move.SourceRank+1:])
	tgtHead := cloneSteps(tgt.Steps[:move.TargetRank+1])
	tgtTail := cloneSteps(tgt.Steps[move.TargetRank+1:])

	var newSrcSteps, newTgtSteps []model.Step
	if move.Kind == ReverseTwoOpt {
		newSrcSteps = append(append([]model.Step{}, srcHead...), reversedSteps(tgtTail)...)
		newTgtSteps = append(append([]model.Step{}, tgtHead...), reversedSteps(srcTail)...)
	} else {
		newSrcSteps = append(append([]model.Step{}, srcHead...), tgtTail...)
		newTgtSteps = append(append([]model.Step{}, tgtHead...), srcTail...)
	}
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

func applyTwoOpt(sol *model.Solution, move Move) ApplyResult {
	if move.Kind == IntraTwoOpt || move.SourceRoute == move.TargetRoute {
		steps := sol.Routes[move.SourceRoute].Steps
		i, j := move.SourceRank, move.TargetRank
		if i > j {
			i, j = j, i
		}
		newSteps := make([]model.Step, len(steps))
		copy(newSteps, steps[:i])
		copy(newSteps[i:], reversedSteps(steps[i:j+1]))
		copy(newSteps[j+1:], steps[j+1:])
		sol.Routes[move.SourceRoute].Steps = newSteps
		return ApplyResult{TouchedRoutes: []int{move.SourceRoute}}
	}

	src := &sol.Routes[move.SourceRoute]
	tgt := &sol.Routes[move.TargetRoute]
	srcHead := cloneSteps(src.Steps[:move.SourceRank+1])
	srcTail := cloneSteps(src.Steps[move.SourceRank+1:])
	tgtHead := cloneSteps(tgt.Steps[:move.TargetRank+1])
	tgtTail := cloneSteps(tgt.Steps[move.TargetRank+1:])
	if move.Kind == ReverseTwoOpt {
		src.Steps = append(append([]model.Step{}, srcHead...), reversedSteps(tgtTail)...)
		tgt.Steps = append(append([]model.Step{}, tgtHead...), reversedSteps(srcTail)...)
	} else {
		src.Steps = append(append([]model.Step{}, srcHead...), tgtTail...)
		tgt.Steps = append(append([]model.Step{}, tgtHead...), srcTail...)
	}
	return ApplyResult{TouchedRoutes: []int{move.SourceRoute, move.TargetRoute}}
}
