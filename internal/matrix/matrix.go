// Package matrix holds per-profile travel duration/distance/cost matrices
// keyed by index, plus the half-away-from-zero synthesis of a cost matrix
// from duration and distance when the caller doesn't supply one.
package matrix

import "fmt"

// Table is a dense N×N matrix of int64 entries, addressed [i][j].
type Table struct {
	n    int
	data []int64
}

// NewTable allocates a zeroed n×n table.
func NewTable(n int) *Table {
	return &Table{n: n, data: make([]int64, n*n)}
}

// Size returns the table's side length.
func (t *Table) Size() int { return t.n }

// Get returns entry (i,j).
func (t *Table) Get(i, j int) int64 {
	return t.data[i*t.n+j]
}

// Set assigns entry (i,j).
func (t *Table) Set(i, j int, v int64) {
	t.data[i*t.n+j] = v
}

// Profile holds the duration, distance and cost tables for one named
// travel mode. Matrices are immutable for the solver's lifetime; callers
// must not mutate a Profile's tables once handed to the solver.
type Profile struct {
	Name      string
	Durations *Table
	Distances *Table
	Costs     *Table
}

// Duration returns the travel duration in seconds from i to j.
func (p *Profile) Duration(i, j int) int64 { return p.Durations.Get(i, j) }

// Distance returns the travel distance in meters from i to j.
func (p *Profile) Distance(i, j int) int64 { return p.Distances.Get(i, j) }

// Cost returns the travel cost from i to j, synthesized at load time if
// the input didn't supply one.
func (p *Profile) Cost(i, j int) int64 { return p.Costs.Get(i, j) }

// Set is the full collection of per-profile matrices for a problem.
type Set struct {
	profiles map[string]*Profile
}

// NewSet builds a Set from the given profiles, keyed by name.
func NewSet(profiles ...*Profile) *Set {
	s := &Set{profiles: make(map[string]*Profile, len(profiles))}
	for _, p := range profiles {
		s.profiles[p.Name] = p
	}
	return s
}

// Profile returns the named profile, or an error if it was never loaded —
// a missing profile reference is fatal at load time per spec.md §4.1.
func (s *Set) Profile(name string) (*Profile, error) {
	p, ok := s.profiles[name]
	if !ok {
		return nil, fmt.Errorf("matrix: unknown profile %q", name)
	}
	return p, nil
}

// HalfAwayFromZero rounds a rational numerator/denominator ratio to the
// nearest integer, ties rounding away from zero. This is the single
// rounding convention used throughout the solver (spec.md §9 open
// question): matrix-load synthesis and per-hour/per-km cost scaling both
// use it, rather than mixing integer truncation and rounding as the
// original implementation does in different spots.
func HalfAwayFromZero(numerator, denominator int64) int64 {
	if denominator == 0 {
		return 0
	}
	neg := (numerator < 0) != (denominator < 0)
	n := numerator
	if n < 0 {
		n = -n
	}
	d := denominator
	if d < 0 {
		d = -d
	}
	q := (2*n + d) / (2 * d)
	if neg {
		return -q
	}
	return q
}

// SynthesizeCost derives cost(i,j) = per_hour·duration/3600 + per_km·
// distance/1000 per spec.md §4.1, rounding each term half-away-from-zero
// before summing.
func SynthesizeCost(durations, distances *Table, perHour, perKm int64) *Table {
	n := durations.Size()
	out := NewTable(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			timeTerm := HalfAwayFromZero(perHour*durations.Get(i, j), 3600)
			distTerm := HalfAwayFromZero(perKm*distances.Get(i, j), 1000)
			out.Set(i, j, timeTerm+distTerm)
		}
	}
	return out
}
