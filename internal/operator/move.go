package operator

import (
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/routestate"
)

// Move is the single parameter record every operator kind is expressed
// with (spec.md §9). Not every field is meaningful for every Kind; see the
// per-family comments in relocate.go, exchange.go, twoopt.go etc.
type Move struct {
	Kind Kind

	SourceRoute int
	SourceRank  int
	SegLen      int // length of the segment touched in the source route (default 1)

	TargetRoute  int
	TargetRank   int
	TargetSegLen int // length of the segment touched in the target route (exchange family)

	Reverse       bool // the segment lifted from the source is reversed on insertion
	ReverseTarget bool // the segment lifted from the target is reversed on insertion (exchange family)

	// UnassignedJob is the index into Input.Jobs of the currently
	// unassigned job a PriorityReplace/UnassignedExchange move would
	// bring in.
	UnassignedJob int

	// SourceInsertRank/TargetInsertRank give SwapStar its "unrestricted
	// re-insertion position" (spec.md §4.4): the rank each incoming job
	// lands at need not equal the rank it displaced. PriorityReplace and
	// UnassignedExchange use SourceInsertRank the same way.
	SourceInsertRank int
	TargetInsertRank int
}

// Evaluation is the result of scoring a Move without applying it. Delta is
// the change the move would make to the running objective tuple — negative
// components mean improvement, matching spec.md §4.7's minimization sense.
type Evaluation struct {
	Feasible bool
	Delta    objective.Tuple

	// NewSourceCache/NewTargetCache are the rebuilt caches the move would
	// produce, memoized here so Apply doesn't recompute them. NewTargetCache
	// is nil when the move only touches one route.
	NewSourceCache *routestate.Cache
	NewTargetCache *routestate.Cache
}

// ApplyResult reports which routes were mutated, so callers can invalidate
// exactly those routes' caches and re-scan the vehicles/jobs that could be
// affected (spec.md §4.6 dirty-set requirement).
type ApplyResult struct {
	TouchedRoutes []int
}

// Improves reports whether the move strictly decreases the objective —
// the "positive gain" condition local search requires before considering
// applying a move (spec.md §4.6 step 2).
func (e Evaluation) Improves() bool {
	return e.Feasible && objective.Compare(e.Delta, objective.Tuple{}) < 0
}

// Evaluate scores move against sol using the routes' current caches,
// returning the objective delta and feasibility. It never mutates sol or
// caches.
func Evaluate(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, move Move) Evaluation {
	switch move.Kind {
	case Relocate, IntraRelocate, OrOpt, IntraOrOpt:
		return evaluateRelocate(ctx, sol, caches, move)
	case Exchange, IntraExchange, CrossExchange, MixedExchange:
		return evaluateExchange(ctx, sol, caches, move)
	case TwoOpt, ReverseTwoOpt, IntraTwoOpt:
		return evaluateTwoOpt(ctx, sol, caches, move)
	case SwapStar:
		return evaluateSwapStar(ctx, sol, caches, move)
	case PDShift:
		return evaluatePDShift(ctx, sol, caches, move)
	case RouteExchange:
		return evaluateRouteExchange(ctx, sol, caches, move)
	case PriorityReplace:
		return evaluatePriorityReplace(ctx, sol, caches, move)
	case UnassignedExchange:
		return evaluateUnassignedExchange(ctx, sol, caches, move)
	default:
		return Evaluation{}
	}
}

// Apply mutates sol in place to reflect move, using the caches memoized in
// eval, and returns the routes whose cache callers must swap in.
func Apply(ctx *core.Context, sol *model.Solution, move Move, eval Evaluation) ApplyResult {
	switch move.Kind {
	case Relocate, IntraRelocate, OrOpt, IntraOrOpt:
		return applyRelocate(sol, move)
	case Exchange, IntraExchange, CrossExchange, MixedExchange:
		return applyExchange(sol, move)
	case TwoOpt, ReverseTwoOpt, IntraTwoOpt:
		return applyTwoOpt(sol, move)
	case SwapStar:
		return applySwapStar(sol, move)
	case PDShift:
		return applyPDShift(ctx, sol, move)
	case RouteExchange:
		return applyRouteExchange(sol, move)
	case PriorityReplace:
		return applyPriorityReplace(sol, move)
	case UnassignedExchange:
		return applyUnassignedExchange(sol, move)
	default:
		return ApplyResult{}
	}
}

// AdditionCandidates returns the job indices that become eligible for
// re-insertion after move is applied (spec.md §4.4): for the exchange
// family, the jobs of the target segment swapped into the source route;
// nil for every other kind.
func AdditionCandidates(sol *model.Solution, move Move) []int {
	switch move.Kind {
	case Exchange, IntraExchange, CrossExchange, MixedExchange:
		return jobsInSegment(sol, move.TargetRoute, move.TargetRank, move.TargetSegLen)
	default:
		return nil
	}
}

// RemovalCandidates returns the job indices a move makes newly attractive
// to remove (e.g. the jobs it just relocated, for a follow-up pass).
func RemovalCandidates(sol *model.Solution, move Move) []int {
	return jobsInSegment(sol, move.SourceRoute, move.SourceRank, segLenOrOne(move.SegLen))
}

func segLenOrOne(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

func jobsInSegment(sol *model.Solution, routeIdx, rank, segLen int) []int {
	if routeIdx < 0 || routeIdx >= len(sol.Routes) {
		return nil
	}
	r := sol.Routes[routeIdx]
	out := make([]int, 0, segLen)
	for k := rank; k < rank+segLen && k < len(r.Steps); k++ {
		if r.Steps[k].Kind == model.StepJob {
			out = append(out, r.Steps[k].JobIndex)
		}
	}
	return out
}
