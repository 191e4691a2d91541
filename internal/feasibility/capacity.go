// Package feasibility implements the O(1) insertion-time predicates from
// spec.md §4.2: capacity, time-window, skills and global-limit checks, all
// answered against a routestate.Cache rather than by replaying a route.
package feasibility

import (
	"vroom/internal/model"
	"vroom/internal/routestate"
)

// CapacityForInsertion reports whether inserting a job whose running-load
// contribution rises by pickup between ranks i and j (0-based, i<=j) and
// is offset by delivery outside that span stays within the vehicle's
// capacity at every rank, using only the two peak-load arrays (spec.md
// §4.2): fwd_peak_load[i] + pickup <= capacity and bwd_peak_load[j] +
// delivery <= capacity, componentwise.
//
// i and j are the ranks flanking the insertion point in the ORIGINAL
// (pre-insertion) route: i is the last untouched rank before the segment,
// j is the first untouched rank after it (either may be -1/len(route) at
// the ends).
func CapacityForInsertion(cache *routestate.Cache, capacity model.Amount, i, j int, pickup, delivery model.Amount) bool {
	var fwdPeak, bwdPeak model.Amount
	if i >= 0 && i < len(cache.FwdPeakLoad) {
		fwdPeak = cache.FwdPeakLoad[i]
	} else {
		fwdPeak = model.NewAmount(len(capacity))
	}
	if j >= 0 && j < len(cache.BwdPeakLoad) {
		bwdPeak = cache.BwdPeakLoad[j]
	} else {
		bwdPeak = model.NewAmount(len(capacity))
	}
	if !fwdPeak.Add(pickup).LessEq(capacity) {
		return false
	}
	if !bwdPeak.Add(delivery).LessEq(capacity) {
		return false
	}
	return true
}

// RouteRunningLoadFeasible reports whether every rank of a freshly rebuilt
// cache stays within capacity componentwise and never dips negative
// (spec.md P3). Rebuild already flags this in Cache.Feasible; this helper
// exists for callers (property tests) that want the check spelled out
// independently of the rebuild's other feasibility bits (time windows,
// skills).
func RouteRunningLoadFeasible(cache *routestate.Cache, capacity model.Amount) bool {
	for _, load := range cache.Load {
		if !load.NonNegative() || !load.LessEq(capacity) {
			return false
		}
	}
	return true
}
