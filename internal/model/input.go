package model

// Input is the immutable problem graph referenced by index throughout the
// solver's lifetime. It is produced once by internal/jsonio and never
// mutated afterwards.
type Input struct {
	Jobs          []Job
	Vehicles      []Vehicle
	LocationCount int
	AmountSize    int
}

// PriorityWeight scales a job's 0..100 priority into the objective's
// unassigned-penalty term. Priority 100 a.k.a. "must-serve" jobs dominate
// any amount of cost savings from leaving them out; priority 0 jobs are
// the first candidates for ejection when capacity is tight.
const PriorityWeight = 1

// PriorityContribution returns the weighted priority contribution of job j to the
// "unassigned" term of the objective.
func (j Job) PriorityContribution() int64 {
	return int64(j.Priority) * PriorityWeight
}

// EligibleVehicles returns the indices of vehicles whose skill set is a
// superset of job j's required skills.
func (in *Input) EligibleVehicles(jobIndex int) []int {
	j := in.Jobs[jobIndex]
	out := make([]int, 0, len(in.Vehicles))
	for vi, v := range in.Vehicles {
		if j.Skills.Subset(v.Skills) {
			out = append(out, vi)
		}
	}
	return out
}

// IsShipment reports whether job j is one half of a pickup/delivery pair.
func (j Job) IsShipment() bool {
	return j.Kind == JobPickup || j.Kind == JobDelivery
}
