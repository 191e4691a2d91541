package localsearch

import (
	"sort"

	"vroom/internal/construct"
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/routestate"
)

// Budget bounds a perturbation run: MaxUnsuccessful consecutive
// non-improving perturbations end the search, RuinSize is the number of
// jobs removed per round (spec.md §4.6 step 5's "up to r jobs").
type Budget struct {
	MaxUnsuccessful int
	RuinSize        int
	ReinsertParams  construct.Params

	// Reporter, if set, is called after the initial descent and after
	// every perturbation round with the run's current best tuple, so a
	// caller can stream progress (internal/progress, spec.md §5
	// supplemented). Never called concurrently with itself.
	Reporter func(phase string, iteration int, tuple objective.Tuple, unassigned int)
}

// removalGain is the objective cost a job's route would shed by removing
// it — the ranking criterion spec.md §4.6 step 5 calls "removal gain".
type removalGain struct {
	jobIndex   int
	routeIndex int
	gain       int64
}

// rankByRemovalGain scores every currently assigned job by how much
// removing it alone would save its route, descending.
func rankByRemovalGain(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache) []removalGain {
	var gains []removalGain
	for ri, r := range sol.Routes {
		v := ctx.Vehicle(r)
		for rank, s := range r.Steps {
			if s.Kind != model.StepJob {
				continue
			}
			without, _ := withoutRank(r.Steps, rank)
			newCache, err := routestate.Rebuild(ctx, model.Route{VehicleIndex: r.VehicleIndex, Steps: without})
			if err != nil || !newCache.Feasible {
				continue
			}
			oldCost := int64(0)
			if caches[ri] != nil && caches[ri].TaskCount > 0 {
				oldCost = objective.RouteCost(v, caches[ri])
			}
			newCost := int64(0)
			if newCache.TaskCount > 0 {
				newCost = objective.RouteCost(v, newCache)
			}
			gains = append(gains, removalGain{jobIndex: s.JobIndex, routeIndex: ri, gain: oldCost - newCost})
		}
	}
	sort.Slice(gains, func(i, j int) bool { return gains[i].gain > gains[j].gain })
	return gains
}

func withoutRank(steps []model.Step, rank int) ([]model.Step, model.Step) {
	out := make([]model.Step, 0, len(steps)-1)
	out = append(out, steps[:rank]...)
	out = append(out, steps[rank+1:]...)
	return out, steps[rank]
}

// removeJobs strips jobIndices out of sol's routes and rebuilds the
// touched routes' caches, without adding them to sol.Unassigned — the
// caller re-inserts them immediately via construct.Reinsert.
func removeJobs(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, jobIndices []int) {
	remove := make(map[int]bool, len(jobIndices))
	for _, ji := range jobIndices {
		remove[ji] = true
	}
	touched := make(map[int]bool)
	for ri := range sol.Routes {
		r := &sol.Routes[ri]
		changed := false
		newSteps := make([]model.Step, 0, len(r.Steps))
		for _, s := range r.Steps {
			if s.Kind == model.StepJob && remove[s.JobIndex] {
				changed = true
				continue
			}
			newSteps = append(newSteps, s)
		}
		if changed {
			r.Steps = newSteps
			touched[ri] = true
		}
	}
	for ri := range touched {
		if fresh, err := routestate.Rebuild(ctx, sol.Routes[ri]); err == nil {
			caches[ri] = fresh
		}
	}
}

// Perturb runs one ruin-and-recreate round: remove up to budget.RuinSize
// jobs ranked by removal gain, re-insert them via construction, then
// descend to a new local optimum. It returns the resulting tuple so the
// caller can compare against the pre-perturbation solution and decide
// whether to keep or roll back.
func Perturb(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, budget Budget) objective.Tuple {
	gains := rankByRemovalGain(ctx, sol, caches)
	r := budget.RuinSize
	if r > len(gains) {
		r = len(gains)
	}
	victims := make([]int, 0, r)
	for i := 0; i < r; i++ {
		victims = append(victims, gains[i].jobIndex)
	}
	removeJobs(ctx, sol, caches, victims)
	stillUnassigned := construct.Reinsert(ctx, sol, caches, victims, budget.ReinsertParams)
	sol.Unassigned = append(sol.Unassigned, stillUnassigned...)
	Descend(ctx, sol, caches)
	return objective.Evaluate(ctx, sol, caches)
}

// Run executes the full local-search phase for one constructed solution:
// descend to a local optimum, then repeatedly perturb, keeping the
// perturbed solution only when it strictly improves the objective, until
// budget.MaxUnsuccessful consecutive rounds fail to improve it (spec.md
// §4.6 step 5).
func Run(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, budget Budget) objective.Tuple {
	Descend(ctx, sol, caches)
	best := objective.Evaluate(ctx, sol, caches)
	report(budget, "local_search", 0, best, len(sol.Unassigned))
	unsuccessful := 0
	round := 0
	for budget.RuinSize > 0 && unsuccessful < budget.MaxUnsuccessful {
		round++
		trialSol := sol.Clone()
		trialCaches := cloneCaches(caches)
		tuple := Perturb(ctx, &trialSol, trialCaches, budget)
		if objective.Less(tuple, best) {
			*sol = trialSol
			copy(caches, trialCaches)
			best = tuple
			unsuccessful = 0
		} else {
			unsuccessful++
		}
		report(budget, "perturbation", round, best, len(sol.Unassigned))
	}
	return best
}

func report(budget Budget, phase string, iteration int, tuple objective.Tuple, unassigned int) {
	if budget.Reporter != nil {
		budget.Reporter(phase, iteration, tuple, unassigned)
	}
}

func cloneCaches(caches []*routestate.Cache) []*routestate.Cache {
	out := make([]*routestate.Cache, len(caches))
	copy(out, caches)
	return out
}
