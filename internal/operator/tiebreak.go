package operator

import "vroom/internal/model"

// Candidate pairs a Move with its Evaluation for tie-break comparison
// during local search's best-move selection (spec.md §4.4, §4.6 step 2).
type Candidate struct {
	Move Move
	Eval Evaluation
}

// activatesNewVehicle reports whether applying move would turn an empty
// target route non-empty, incurring the vehicle's fixed activation cost —
// the second tie-break criterion.
func activatesNewVehicle(sol *model.Solution, move Move) bool {
	if move.TargetRoute < 0 || move.TargetRoute >= len(sol.Routes) {
		return false
	}
	return len(sol.Routes[move.TargetRoute].Steps) == 0
}

// Better reports whether a should be preferred over b when both are
// candidate best moves with equal objective delta, per spec.md §4.4's
// deterministic tie-break order: fewer unassigned jobs, then lower
// vehicle fixed-cost activation, then lower target route index, then
// lower source rank.
func Better(sol *model.Solution, a, b Candidate) bool {
	if a.Eval.Delta.UnassignedPriority != b.Eval.Delta.UnassignedPriority {
		return a.Eval.Delta.UnassignedPriority < b.Eval.Delta.UnassignedPriority
	}
	aActivates, bActivates := activatesNewVehicle(sol, a.Move), activatesNewVehicle(sol, b.Move)
	if aActivates != bActivates {
		return !aActivates
	}
	if a.Move.TargetRoute != b.Move.TargetRoute {
		return a.Move.TargetRoute < b.Move.TargetRoute
	}
	return a.Move.SourceRank < b.Move.SourceRank
}
