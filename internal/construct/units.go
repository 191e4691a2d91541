// Package construct implements the regret-insertion construction
// heuristics from spec.md §4.5: sequential and parallel variants, seeded
// by several (λ, regret-k) pairs, each producing one initial feasible
// solution for internal/localsearch to improve.
package construct

import "vroom/internal/model"

// unit is one indivisible thing construction inserts at a time: a single
// job (one step) or a shipment (a pickup/delivery pair inserted together,
// contiguously, pickup first — spec.md §3 P2).
type unit struct {
	jobs []int // 1 element for a single job, 2 (pickup, delivery) for a shipment
	id   uint64
}

func (u unit) priority(in *model.Input) int64 {
	best := int64(0)
	for _, ji := range u.jobs {
		if p := in.Jobs[ji].PriorityContribution(); p > best {
			best = p
		}
	}
	return best
}

func (u unit) steps() []model.Step {
	out := make([]model.Step, len(u.jobs))
	for i, ji := range u.jobs {
		out[i] = model.Step{Kind: model.StepJob, JobIndex: ji}
	}
	return out
}

// buildUnits partitions every job in the input into single-job or
// shipment units, in input order; Build sorts them by id afterwards
// (sortUnitsByID) for deterministic tie-breaking (spec.md §4.5 step 2).
func buildUnits(in *model.Input) []unit {
	units := make([]unit, 0, len(in.Jobs))
	for i, j := range in.Jobs {
		switch j.Kind {
		case model.JobSingle:
			units = append(units, unit{jobs: []int{i}, id: j.ID})
		case model.JobPickup:
			units = append(units, unit{jobs: []int{i, j.PairIndex}, id: j.ID})
		case model.JobDelivery:
			// handled by its paired pickup
		}
	}
	return units
}
