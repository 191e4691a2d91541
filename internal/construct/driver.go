package construct

import (
	"sort"

	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/routestate"
)

// Params pins one construction seed: Lambda weights regret (fleet
// spreading) against raw insertion cost when scoring which unassigned
// unit to place next, and RegretK picks which rank of "k-th best
// insertion cost" the regret term is measured against (spec.md §4.5).
type Params struct {
	Lambda     float64
	RegretK    int
	Sequential bool
}

// DefaultSeeds returns the H seeds the solver runs per spec.md §4.5: a
// spread of (λ, regret-k) pairs, each run in both variants by
// internal/solve.
func DefaultSeeds(h int) []Params {
	lambdas := []float64{0.0, 0.5, 1.0, 2.0}
	ks := []int{2, 3}
	seeds := make([]Params, 0, h)
	for i := 0; i < h; i++ {
		seeds = append(seeds, Params{
			Lambda:  lambdas[i%len(lambdas)],
			RegretK: ks[(i/len(lambdas))%len(ks)],
		})
	}
	return seeds
}

// Build runs one construction pass (sequential or parallel per
// params.Sequential) and returns the resulting solution together with
// each route's rebuilt cache.
func Build(ctx *core.Context, params Params) (*model.Solution, []*routestate.Cache, error) {
	sol := emptySolution(ctx.Input)
	caches, err := routestate.RebuildAll(ctx, sol)
	if err != nil {
		return nil, nil, err
	}
	remaining := buildUnits(ctx.Input)
	sortUnitsByID(remaining)

	if params.Sequential {
		for vehicleIndex := range ctx.Input.Vehicles {
			remaining = fillRoute(ctx, sol, caches, remaining, vehicleIndex, params)
		}
	} else {
		remaining = fillParallel(ctx, sol, caches, remaining, params)
	}

	for _, u := range remaining {
		sol.Unassigned = append(sol.Unassigned, u.jobs...)
	}
	sort.Ints(sol.Unassigned)
	return sol, caches, nil
}

func emptySolution(in *model.Input) *model.Solution {
	routes := make([]model.Route, len(in.Vehicles))
	for i := range in.Vehicles {
		routes[i] = model.Route{VehicleIndex: i}
	}
	return &model.Solution{Routes: routes}
}

func sortUnitsByID(units []unit) {
	sort.Slice(units, func(i, j int) bool { return units[i].id < units[j].id })
}

// fillRoute repeatedly inserts, into routeIndex == vehicleIndex alone,
// the remaining unit with the highest (priority + λ·regret) score, where
// regret is measured across that single route's candidate ranks, until
// no remaining unit admits a feasible placement. It returns the units
// still unplaced.
func fillRoute(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, remaining []unit, vehicleIndex int, params Params) []unit {
	for {
		bestIdx := -1
		var bestScore float64
		var bestPlacement placement
		for i, u := range remaining {
			placements := rankedSingleRoutePlacements(ctx, sol, caches, vehicleIndex, u)
			if len(placements) == 0 {
				continue
			}
			score := regretScore(ctx.Input, u, placements, params)
			if bestIdx == -1 || score > bestScore {
				bestIdx, bestScore, bestPlacement = i, score, placements[0]
			}
		}
		if bestIdx == -1 {
			return remaining
		}
		commitPlacement(sol, caches, remaining[bestIdx], bestPlacement)
		remaining = removeUnit(remaining, bestIdx)
	}
}

// fillParallel repeatedly inserts, across all routes at once, the
// remaining unit with the highest (priority + λ·regret) score until no
// remaining unit admits any feasible placement.
func fillParallel(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, remaining []unit, params Params) []unit {
	for {
		bestIdx := -1
		var bestScore float64
		var bestPlacement placement
		for i, u := range remaining {
			placements := rankedPlacements(ctx, sol, caches, u, nil)
			if len(placements) == 0 {
				continue
			}
			score := regretScore(ctx.Input, u, placements, params)
			if bestIdx == -1 || score > bestScore {
				bestIdx, bestScore, bestPlacement = i, score, placements[0]
			}
		}
		if bestIdx == -1 {
			return remaining
		}
		commitPlacement(sol, caches, remaining[bestIdx], bestPlacement)
		remaining = removeUnit(remaining, bestIdx)
	}
}

// regretScore is priority_contribution·priority_weight + λ·regret, where
// regret is the gap between the best and the RegretK-th best insertion
// cost in placements (0 if fewer than RegretK options exist — spec.md
// §4.5 step 1-2).
func regretScore(in *model.Input, u unit, placements []placement, params Params) float64 {
	score := float64(u.priority(in))
	k := params.RegretK
	if k < 1 {
		k = 1
	}
	if k <= len(placements) {
		score += params.Lambda * float64(placements[k-1].costDelta-placements[0].costDelta)
	}
	return score
}

func rankedSingleRoutePlacements(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, vehicleIndex int, u unit) []placement {
	return rankedPlacements(ctx, sol, caches, u, func(vi int) bool { return vi == vehicleIndex })
}

func commitPlacement(sol *model.Solution, caches []*routestate.Cache, u unit, p placement) {
	r := &sol.Routes[p.routeIndex]
	r.Steps = withSegmentInserted(r.Steps, p.rank, u.steps())
	caches[p.routeIndex] = p.cache
}

func removeUnit(units []unit, idx int) []unit {
	out := make([]unit, 0, len(units)-1)
	out = append(out, units[:idx]...)
	out = append(out, units[idx+1:]...)
	return out
}
