package feasibility

import (
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/routestate"
)

// CanInsertSingleJob is the O(1) composite check spec.md §4.2/§4.4 centers
// candidate evaluation on: capacity via the two peak-load arrays, then the
// closed-form time-window insertion test, both read against the cache of
// the route as it stood BEFORE the insertion. It answers "can this rank be
// ruled out immediately", not "is this rank feasible" — a caller only
// skips its own full routestate.Rebuild when ok is false; a true result
// still gets confirmed by the rebuild, since neither check here accounts
// for a following step's own schedule shifting the way a full replay does.
//
// i is the last untouched rank before the insertion point, j the first
// untouched rank immediately after it, both in the ORIGINAL route's index
// space (i==-1 means "at the route head", j==len(route.Steps) means "at
// the route tail").
func CanInsertSingleJob(ctx *core.Context, cache *routestate.Cache, v model.Vehicle, job model.Job, i, j int) (bool, error) {
	if !CapacityForInsertion(cache, v.Capacity, i, j, job.Pickup, job.Delivery) {
		return false, nil
	}
	profile, err := ctx.Profile(v)
	if err != nil {
		return false, err
	}
	prevLoc := -1
	if i >= 0 && i < len(cache.Locations) {
		prevLoc = cache.Locations[i]
	} else if i < 0 && v.Start != nil {
		prevLoc = v.Start.Index
	}
	nextLoc := -1
	if j >= 0 && j < len(cache.Locations) {
		nextLoc = cache.Locations[j]
	} else if j >= len(cache.Locations) && v.End != nil {
		nextLoc = v.End.Index
	}
	var travelIn, travelOut int64
	if prevLoc >= 0 {
		travelIn = routestate.ScaledDuration(v, profile.Duration(prevLoc, job.Location.Index))
	}
	if nextLoc >= 0 {
		travelOut = routestate.ScaledDuration(v, profile.Duration(job.Location.Index, nextLoc))
	}
	prevEarliest := CacheEarliestAt(cache, v, i)
	nextLatest := CacheLatestAt(cache, v, j)
	_, _, ok := TimeForInsertion(prevEarliest, travelIn, job.Setup, job.TimeWindows, travelOut, nextLatest)
	return ok, nil
}
