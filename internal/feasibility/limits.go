package feasibility

import "vroom/internal/model"

// GlobalLimits reports whether a route's accumulated travel time, distance
// and task count stay within the vehicle's optional maxima (spec.md §3
// invariant 5, §4.2 "the incremental Δduration, Δdistance and Δcount").
// duration/distance/taskCount are the route TOTALS after the candidate
// move, not deltas — callers compute the delta themselves when comparing
// two candidate totals is more convenient.
func GlobalLimits(v model.Vehicle, duration, distance int64, taskCount int) bool {
	if v.MaxTravelTime != nil && duration > *v.MaxTravelTime {
		return false
	}
	if v.MaxDistance != nil && distance > *v.MaxDistance {
		return false
	}
	if v.MaxTasks != nil && taskCount > *v.MaxTasks {
		return false
	}
	return true
}
