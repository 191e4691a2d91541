package operator

import (
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/routestate"
)

// UnassignedExchange swaps an assigned job for a currently-unassigned one
// in the same route, landing at SourceInsertRank (spec.md §4.4). Mechanically identical to
// PriorityReplace — remove one job, insert another, the displaced job
// becomes unassigned — but reachable by local search even when the
// incoming job's priority is no higher, so it is offered as a distinct
// catalog entry with its own candidate-generation policy upstream.
func evaluateUnassignedExchange(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, move Move) Evaluation {
	return evaluatePriorityReplace(ctx, sol, caches, move)
}

func applyUnassignedExchange(sol *model.Solution, move Move) ApplyResult {
	return applyPriorityReplace(sol, move)
}
