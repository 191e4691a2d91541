// Package localsearch implements the descent-plus-perturbation driver from
// spec.md §4.6: materialize every operator's candidate moves against the
// current solution, apply the single best strictly-positive-gain move
// under the operator package's tie-break order, and repeat until none
// remains, occasionally ruining and re-inserting a batch of jobs to escape
// local optima.
package localsearch

// DirtySet tracks which routes changed since the last full candidate scan.
// A move is only worth re-evaluating if it touches at least one dirty
// route (spec.md §4.6 step 3: "only pairs that could possibly be affected
// by the mutation"). Route-level granularity is coarser than the spec's
// ideal per-job-pair dirty set but keeps the bookkeeping O(routes) instead
// of O(jobs²).
type DirtySet struct {
	all    bool
	routes map[int]bool
}

// AllDirty returns a set that considers every route dirty, for the first
// scan of a run.
func AllDirty() *DirtySet {
	return &DirtySet{all: true}
}

// NewDirtySet returns an empty dirty set.
func NewDirtySet() *DirtySet {
	return &DirtySet{routes: make(map[int]bool)}
}

// Mark flags routeIndex (and any negative index, meaning "no route", is a
// no-op) as dirty.
func (d *DirtySet) Mark(routeIndex int) {
	if routeIndex < 0 {
		return
	}
	if d.routes == nil {
		d.routes = make(map[int]bool)
	}
	d.routes[routeIndex] = true
}

// MarkAll flags every route in indices as dirty.
func (d *DirtySet) MarkAll(indices []int) {
	for _, i := range indices {
		d.Mark(i)
	}
}

// Touches reports whether either route is dirty.
func (d *DirtySet) Touches(a, b int) bool {
	if d.all {
		return true
	}
	return d.routes[a] || d.routes[b]
}

// Reset clears the set back to empty (not all-dirty).
func (d *DirtySet) Reset() {
	d.all = false
	d.routes = make(map[int]bool)
}
