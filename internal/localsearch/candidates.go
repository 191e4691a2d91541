package localsearch

import (
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/operator"
	"vroom/internal/routestate"
)

// Generate materializes every feasible, strictly-improving candidate move
// touching at least one dirty route, across the full operator catalog
// (spec.md §4.4, §4.6 step 1). Infeasible or non-improving candidates are
// dropped immediately — the driver only ever chooses among improving
// moves.
func Generate(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, dirty *DirtySet) []operator.Candidate {
	var out []operator.Candidate
	consider := func(m operator.Move) {
		eval := operator.Evaluate(ctx, sol, caches, m)
		if eval.Improves() {
			out = append(out, operator.Candidate{Move: m, Eval: eval})
		}
	}

	n := len(sol.Routes)
	for r1 := 0; r1 < n; r1++ {
		route1 := sol.Routes[r1]
		generateRelocateFamily(sol, route1, r1, dirty, consider)
		generateExchangeFamily(sol, route1, r1, dirty, consider)
		generateIntraTwoOpt(route1, r1, dirty, consider)

		for r2 := r1 + 1; r2 < n; r2++ {
			if !dirty.Touches(r1, r2) {
				continue
			}
			route2 := sol.Routes[r2]
			generateTwoOptPair(route1, r1, route2, r2, consider)
			generateSwapStar(ctx, route1, r1, route2, r2, consider)
			generatePDShift(ctx, sol, r1, r2, consider)
			generatePDShift(ctx, sol, r2, r1, consider)
			generateRouteExchange(r1, r2, consider)
			generateCrossMixedExchange(route1, r1, route2, r2, consider)
		}
	}
	generatePriorityMoves(ctx, sol, dirty, consider)
	return out
}

func generateRelocateFamily(sol *model.Solution, route1 model.Route, r1 int, dirty *DirtySet, consider func(operator.Move)) {
	for rank := range route1.Steps {
		if route1.Steps[rank].Kind != model.StepJob {
			continue
		}
		for r2 := 0; r2 < len(sol.Routes); r2++ {
			if !dirty.Touches(r1, r2) {
				continue
			}
			targetLen := len(sol.Routes[r2].Steps)
			for tr := 0; tr <= targetLen; tr++ {
				if r1 == r2 && (tr == rank || tr == rank+1) {
					continue
				}
				kind := operator.Relocate
				if r1 == r2 {
					kind = operator.IntraRelocate
				}
				consider(operator.Move{Kind: kind, SourceRoute: r1, SourceRank: rank, TargetRoute: r2, TargetRank: tr})
			}
		}
		for segLen := 2; segLen <= 3; segLen++ {
			if rank+segLen > len(route1.Steps) {
				continue
			}
			for r2 := 0; r2 < len(sol.Routes); r2++ {
				if !dirty.Touches(r1, r2) {
					continue
				}
				targetLen := len(sol.Routes[r2].Steps)
				for tr := 0; tr <= targetLen; tr++ {
					if r1 == r2 && tr >= rank && tr <= rank+segLen {
						continue
					}
					kind := operator.OrOpt
					if r1 == r2 {
						kind = operator.IntraOrOpt
					}
					for _, rev := range []bool{false, true} {
						consider(operator.Move{Kind: kind, SourceRoute: r1, SourceRank: rank, SegLen: segLen, TargetRoute: r2, TargetRank: tr, Reverse: rev})
					}
				}
			}
		}
	}
}

func generateExchangeFamily(sol *model.Solution, route1 model.Route, r1 int, dirty *DirtySet, consider func(operator.Move)) {
	for rank := range route1.Steps {
		if route1.Steps[rank].Kind != model.StepJob {
			continue
		}
		for r2 := r1; r2 < len(sol.Routes); r2++ {
			if !dirty.Touches(r1, r2) {
				continue
			}
			route2 := sol.Routes[r2]
			start := 0
			if r2 == r1 {
				start = rank + 1
			}
			for tr := start; tr < len(route2.Steps); tr++ {
				if route2.Steps[tr].Kind != model.StepJob {
					continue
				}
				kind := operator.Exchange
				if r2 == r1 {
					kind = operator.IntraExchange
				}
				consider(operator.Move{Kind: kind, SourceRoute: r1, SourceRank: rank, TargetRoute: r2, TargetRank: tr})
			}
		}
	}
}

// generateCrossMixedExchange emits CrossExchange (two 2-job segments) and
// MixedExchange (a 1-job segment against a 2-job segment) moves between
// distinct routes, per spec.md §4.4's operator table. Both directions of
// MixedExchange are tried since which side carries the 2-job segment isn't
// symmetric. The candidate segment's own reversal is tried both ways; the
// far side of a MixedExchange is always a single job, which reversal
// doesn't affect.
func generateCrossMixedExchange(route1 model.Route, r1 int, route2 model.Route, r2 int, consider func(operator.Move)) {
	for rank := range route1.Steps {
		if route1.Steps[rank].Kind != model.StepJob {
			continue
		}
		twoJobSrc := rank+2 <= len(route1.Steps)
		for tr := range route2.Steps {
			if route2.Steps[tr].Kind != model.StepJob {
				continue
			}
			if twoJobSrc && tr+2 <= len(route2.Steps) {
				for _, revSrc := range []bool{false, true} {
					for _, revTgt := range []bool{false, true} {
						consider(operator.Move{
							Kind: operator.CrossExchange, SourceRoute: r1, SourceRank: rank, SegLen: 2,
							TargetRoute: r2, TargetRank: tr, TargetSegLen: 2, Reverse: revSrc, ReverseTarget: revTgt,
						})
					}
				}
			}
			if twoJobSrc {
				consider(operator.Move{
					Kind: operator.MixedExchange, SourceRoute: r1, SourceRank: rank, SegLen: 2,
					TargetRoute: r2, TargetRank: tr, TargetSegLen: 1,
				})
				consider(operator.Move{
					Kind: operator.MixedExchange, SourceRoute: r1, SourceRank: rank, SegLen: 2,
					TargetRoute: r2, TargetRank: tr, TargetSegLen: 1, Reverse: true,
				})
			}
			if tr+2 <= len(route2.Steps) {
				consider(operator.Move{
					Kind: operator.MixedExchange, SourceRoute: r1, SourceRank: rank, SegLen: 1,
					TargetRoute: r2, TargetRank: tr, TargetSegLen: 2,
				})
				consider(operator.Move{
					Kind: operator.MixedExchange, SourceRoute: r1, SourceRank: rank, SegLen: 1,
					TargetRoute: r2, TargetRank: tr, TargetSegLen: 2, ReverseTarget: true,
				})
			}
		}
	}
}

func generateIntraTwoOpt(route1 model.Route, r1 int, dirty *DirtySet, consider func(operator.Move)) {
	if !dirty.Touches(r1, r1) {
		return
	}
	for i := 0; i < len(route1.Steps); i++ {
		for j := i + 1; j < len(route1.Steps); j++ {
			consider(operator.Move{Kind: operator.IntraTwoOpt, SourceRoute: r1, SourceRank: i, TargetRoute: r1, TargetRank: j})
		}
	}
}

func generateTwoOptPair(route1 model.Route, r1 int, route2 model.Route, r2 int, consider func(operator.Move)) {
	for i := -1; i < len(route1.Steps); i++ {
		for j := -1; j < len(route2.Steps); j++ {
			consider(operator.Move{Kind: operator.TwoOpt, SourceRoute: r1, SourceRank: i, TargetRoute: r2, TargetRank: j})
			consider(operator.Move{Kind: operator.ReverseTwoOpt, SourceRoute: r1, SourceRank: i, TargetRoute: r2, TargetRank: j})
		}
	}
}

// generateSwapStar tries the single-job exchange between two routes for
// every pair of jobs, scanning every re-insertion rank of the opposite
// route for each incoming job. The job pairs are not restricted by
// proximity: every job of route1 is paired with every job of route2.
func generateSwapStar(ctx *core.Context, route1 model.Route, r1 int, route2 model.Route, r2 int, consider func(operator.Move)) {
	for i, s1 := range route1.Steps {
		if s1.Kind != model.StepJob {
			continue
		}
		for j, s2 := range route2.Steps {
			if s2.Kind != model.StepJob {
				continue
			}
			for srcInsert := 0; srcInsert <= len(route1.Steps); srcInsert++ {
				for tgtInsert := 0; tgtInsert <= len(route2.Steps); tgtInsert++ {
					consider(operator.Move{
						Kind: operator.SwapStar, SourceRoute: r1, SourceRank: i, TargetRoute: r2, TargetRank: j,
						SourceInsertRank: srcInsert, TargetInsertRank: tgtInsert,
					})
				}
			}
		}
	}
}

func generatePDShift(ctx *core.Context, sol *model.Solution, srcRoute, tgtRoute int, consider func(operator.Move)) {
	src := sol.Routes[srcRoute]
	tgtLen := len(sol.Routes[tgtRoute].Steps)
	for rank, s := range src.Steps {
		if s.Kind != model.StepJob {
			continue
		}
		if ctx.Input.Jobs[s.JobIndex].Kind != model.JobPickup {
			continue
		}
		for tr := 0; tr <= tgtLen; tr++ {
			consider(operator.Move{Kind: operator.PDShift, SourceRoute: srcRoute, SourceRank: rank, TargetRoute: tgtRoute, TargetRank: tr})
		}
	}
}

func generateRouteExchange(r1, r2 int, consider func(operator.Move)) {
	consider(operator.Move{Kind: operator.RouteExchange, SourceRoute: r1, TargetRoute: r2})
}

// generatePriorityMoves tries swapping each unassigned job into each
// dirty route in place of every assigned job with strictly lower priority
// (PriorityReplace) or any assigned job (UnassignedExchange), at every
// re-insertion rank.
func generatePriorityMoves(ctx *core.Context, sol *model.Solution, dirty *DirtySet, consider func(operator.Move)) {
	for _, uj := range sol.Unassigned {
		for r, route := range sol.Routes {
			if !dirty.Touches(r, r) {
				continue
			}
			for rank, s := range route.Steps {
				if s.Kind != model.StepJob {
					continue
				}
				for insertRank := 0; insertRank <= len(route.Steps); insertRank++ {
					displaced := ctx.Input.Jobs[s.JobIndex]
					incoming := ctx.Input.Jobs[uj]
					move := operator.Move{
						Kind: operator.UnassignedExchange, SourceRoute: r, SourceRank: rank,
						UnassignedJob: uj, SourceInsertRank: insertRank,
					}
					consider(move)
					if incoming.PriorityContribution() > displaced.PriorityContribution() {
						move.Kind = operator.PriorityReplace
						consider(move)
					}
				}
			}
		}
	}
}
