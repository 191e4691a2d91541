package operator

import (
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/routestate"
)

// PriorityReplace removes a lower-priority assigned job at (SourceRoute,
// SourceRank) and inserts the currently-unassigned UnassignedJob at
// SourceInsertRank in its place (spec.md §4.4). Both routes are the same
// route; the displaced job becomes newly unassigned.

func evaluatePriorityReplace(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, move Move) Evaluation {
	src := sol.Routes[move.SourceRoute]
	if move.SourceRank < 0 || move.SourceRank >= len(src.Steps) {
		return Evaluation{}
	}
	if src.Steps[move.SourceRank].Kind != model.StepJob {
		return Evaluation{}
	}
	displacedJob := src.Steps[move.SourceRank].JobIndex
	rest, _ := withSegmentRemoved(src.Steps, move.SourceRank, 1)
	insertRank := clampRank(adjustRankAfterRemoval(move.SourceInsertRank, move.SourceRank), len(rest))
	newSteps := withSegmentInserted(rest, insertRank, []model.Step{{Kind: model.StepJob, JobIndex: move.UnassignedJob}}, false)
	if !pdConstraintsHold(ctx.Input, newSteps) {
		return Evaluation{}
	}
	newCache, ok := CandidateCache(ctx, src.VehicleIndex, newSteps)
	if !ok {
		return Evaluation{Feasible: false}
	}
	v := ctx.Input.Vehicles[src.VehicleIndex]
	costDelta, durDelta := routeCostDelta(v, caches[move.SourceRoute], newCache)
	priorityDelta := ctx.Input.Jobs[displacedJob].PriorityContribution() - ctx.Input.Jobs[move.UnassignedJob].PriorityContribution()
	return Evaluation{
		Feasible:       true,
		Delta:          objective.Tuple{UnassignedPriority: priorityDelta, Cost: costDelta, Duration: durDelta},
		NewSourceCache: newCache,
	}
}

func applyPriorityReplace(sol *model.Solution, move Move) ApplyResult {
	src := &sol.Routes[move.SourceRoute]
	displacedJob := src.Steps[move.SourceRank].JobIndex
	rest, _ := withSegmentRemoved(src.Steps, move.SourceRank, 1)
	insertRank := clampRank(adjustRankAfterRemoval(move.SourceInsertRank, move.SourceRank), len(rest))
	src.Steps = withSegmentInserted(rest, insertRank, []model.Step{{Kind: model.StepJob, JobIndex: move.UnassignedJob}}, false)
	sol.Unassigned = removeFromUnassigned(sol.Unassigned, move.UnassignedJob)
	sol.Unassigned = append(sol.Unassigned, displacedJob)
	return ApplyResult{TouchedRoutes: []int{move.SourceRoute}}
}

func removeFromUnassigned(list []int, job int) []int {
	out := make([]int, 0, len(list))
	for _, j := range list {
		if j != job {
			out = append(out, j)
		}
	}
	return out
}
