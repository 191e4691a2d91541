package construct

import (
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/routestate"
)

// unitsFromJobIndices groups a flat list of job indices back into units,
// pairing up a pickup and delivery whenever both halves are present so
// Reinsert never tries to place one leg of a shipment on its own.
func unitsFromJobIndices(in *model.Input, jobIndices []int) []unit {
	present := make(map[int]bool, len(jobIndices))
	for _, ji := range jobIndices {
		present[ji] = true
	}
	seen := make(map[int]bool, len(jobIndices))
	units := make([]unit, 0, len(jobIndices))
	for _, ji := range jobIndices {
		if seen[ji] {
			continue
		}
		j := in.Jobs[ji]
		switch {
		case j.Kind == model.JobSingle:
			units = append(units, unit{jobs: []int{ji}, id: j.ID})
			seen[ji] = true
		case j.Kind == model.JobPickup && present[j.PairIndex]:
			units = append(units, unit{jobs: []int{ji, j.PairIndex}, id: j.ID})
			seen[ji] = true
			seen[j.PairIndex] = true
		case j.Kind == model.JobDelivery && present[j.PairIndex]:
			units = append(units, unit{jobs: []int{j.PairIndex, ji}, id: in.Jobs[j.PairIndex].ID})
			seen[ji] = true
			seen[j.PairIndex] = true
		default:
			// the other half of a shipment isn't in this batch; place this
			// leg alone rather than dropping it silently.
			units = append(units, unit{jobs: []int{ji}, id: j.ID})
			seen[ji] = true
		}
	}
	return units
}

// Reinsert re-inserts jobIndices into sol using the same regret-weighted,
// all-vehicles scoring as the parallel construction variant (spec.md
// §4.6 step 5: "re-insert via the construction heuristic"). It mutates
// sol and caches in place and returns the job indices that still admit no
// feasible placement.
func Reinsert(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache, jobIndices []int, params Params) []int {
	remaining := unitsFromJobIndices(ctx.Input, jobIndices)
	remaining = fillParallel(ctx, sol, caches, remaining, params)
	out := make([]int, 0, len(remaining))
	for _, u := range remaining {
		out = append(out, u.jobs...)
	}
	return out
}
