// Package core wires the value model and the travel-matrix set into the
// single read-only context every solver layer above it is handed. Nothing
// under internal/core mutates a Solution; it only answers questions about
// one.
package core

import (
	"vroom/internal/matrix"
	"vroom/internal/model"
)

// Context bundles everything an operator, a construction heuristic or the
// local-search driver needs to evaluate a candidate move: the immutable
// problem graph, the per-profile travel matrices, and the lazily-cached
// per-vehicle cost function. It is built once per solve and shared,
// read-only, across every worker (spec.md §5).
type Context struct {
	Input    *model.Input
	Matrices *matrix.Set

	// VehicleCosts lazily synthesizes and caches the per-vehicle travel-cost
	// function routestate.Rebuild accumulates along every route, so an
	// explicit per-profile cost matrix (spec.md §6) is honored instead of
	// only ever deriving cost from aggregate duration/distance.
	VehicleCosts *matrix.VehicleCosts
}

// New builds a Context over the given input and matrix set.
func New(in *model.Input, matrices *matrix.Set) *Context {
	return &Context{Input: in, Matrices: matrices, VehicleCosts: matrix.NewVehicleCosts(matrices)}
}

// Vehicle returns the vehicle that owns route (a shorthand used
// throughout the operator/localsearch packages).
func (c *Context) Vehicle(route model.Route) model.Vehicle {
	return c.Input.Vehicles[route.VehicleIndex]
}

// Profile returns the matrix profile for the given vehicle.
func (c *Context) Profile(v model.Vehicle) (*matrix.Profile, error) {
	return c.Matrices.Profile(v.Profile)
}

// StepLocation returns the location index of a route step: a job's
// location for StepJob, or -1 for any other step kind (breaks don't move
// the vehicle, so they inherit whatever location precedes them; callers
// resolve that separately).
func (c *Context) StepLocation(step model.Step) int {
	if step.Kind == model.StepJob {
		return c.Input.Jobs[step.JobIndex].Location.Index
	}
	return -1
}
