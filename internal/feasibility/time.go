package feasibility

import (
	"vroom/internal/model"
	"vroom/internal/routestate"
)

// TimeForInsertion checks the closed-form insertion feasibility test from
// spec.md §4.2: given travel times into and out of a new step s inserted
// after rank i (i==-1 means at the route head), the new earliest service
// start at the insertion point must not exceed the new latest, and that
// margin must still hold against whatever follows.
//
// prevEarliest is cache.Earliest[i] (or the vehicle's shift start if
// i==-1); nextLatest is cache.Latest[j] (or the vehicle's shift end if
// j==len(route)), where j is the rank immediately after the insertion
// point in the original route.
func TimeForInsertion(prevEarliest, travelIn, setup int64, tw model.TimeWindows, travelOut, nextLatest int64) (earliest, latest int64, ok bool) {
	if len(tw) == 0 {
		tw = model.TimeWindows{model.Universal}
	}
	arrival := prevEarliest + travelIn + setup
	e, feasible := tw.EarliestFeasibleStart(arrival)
	if !feasible {
		return 0, 0, false
	}
	latestArrival := nextLatest - travelOut
	l, feasible := tw.LatestFeasibleStart(latestArrival)
	if !feasible || e > l {
		return e, l, false
	}
	return e, l, true
}

// CacheEarliestAt returns the earliest-service-start bound to use as the
// left neighbour of an insertion at rank i (i==-1 meaning "before the
// first step", in which case the vehicle's own shift start applies).
func CacheEarliestAt(cache *routestate.Cache, v model.Vehicle, i int) int64 {
	if i < 0 || i >= len(cache.Earliest) {
		return v.TimeWindow.Start
	}
	return cache.Earliest[i] // caller adds service time of step i separately when needed
}

// CacheLatestAt returns the latest-service-start bound to use as the right
// neighbour of an insertion at rank j (j==len(route) meaning "after the
// last step", in which case the vehicle's own shift end applies).
func CacheLatestAt(cache *routestate.Cache, v model.Vehicle, j int) int64 {
	if j < 0 || j >= len(cache.Latest) {
		return v.TimeWindow.End
	}
	return cache.Latest[j]
}
