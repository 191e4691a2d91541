package localsearch

import (
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/operator"
	"vroom/internal/routestate"
)

// Descend repeatedly applies the single best strictly-positive-gain move
// across the full operator catalog until none remains (spec.md §4.6 steps
// 1-4). It mutates sol and caches in place and returns the number of
// moves applied.
func Descend(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache) int {
	dirty := AllDirty()
	applied := 0
	for {
		candidates := Generate(ctx, sol, caches, dirty)
		if len(candidates) == 0 {
			return applied
		}
		best := candidates[0]
		for _, c := range candidates[1:] {
			if betterCandidate(sol, c, best) {
				best = c
			}
		}
		result := operator.Apply(ctx, sol, best.Move, best.Eval)
		refreshCaches(ctx, sol, caches, best, result)
		dirty = NewDirtySet()
		dirty.MarkAll(result.TouchedRoutes)
		applied++
	}
}

// betterCandidate orders candidates by objective gain first (more negative
// delta wins), falling back to the operator package's deterministic
// tie-break for equal gains (spec.md §4.4, §4.6 step 2).
func betterCandidate(sol *model.Solution, a, b operator.Candidate) bool {
	cmp := objective.Compare(a.Eval.Delta, b.Eval.Delta)
	if cmp != 0 {
		return cmp < 0
	}
	return operator.Better(sol, a, b)
}

// refreshCaches installs the caches Evaluate already memoized for the
// winning move's source/target routes, and falls back to a fresh rebuild
// for any touched route the evaluation didn't cover (spec.md §4.6 step 3).
func refreshCaches(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, c operator.Candidate, result operator.ApplyResult) {
	for _, ri := range result.TouchedRoutes {
		switch {
		case ri == c.Move.SourceRoute && c.Eval.NewSourceCache != nil:
			caches[ri] = c.Eval.NewSourceCache
		case ri == c.Move.TargetRoute && c.Eval.NewTargetCache != nil:
			caches[ri] = c.Eval.NewTargetCache
		default:
			if fresh, err := routestate.Rebuild(ctx, sol.Routes[ri]); err == nil {
				caches[ri] = fresh
			}
		}
	}
}
