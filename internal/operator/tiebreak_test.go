package operator

import (
	"testing"

	"vroom/internal/model"
	"vroom/internal/objective"
)

func twoRouteSolution() *model.Solution {
	return &model.Solution{
		Routes: []model.Route{
			{VehicleIndex: 0, Steps: []model.Step{{Kind: model.StepJob, JobIndex: 0}}},
			{VehicleIndex: 1, Steps: nil}, // empty, activating it costs the fixed fee
		},
	}
}

func TestBetterPrefersFewerUnassigned(t *testing.T) {
	sol := twoRouteSolution()
	a := Candidate{Eval: Evaluation{Delta: objective.Tuple{UnassignedPriority: 0}}}
	b := Candidate{Eval: Evaluation{Delta: objective.Tuple{UnassignedPriority: 1}}}
	if !Better(sol, a, b) {
		t.Fatal("expected the move leaving fewer jobs unassigned to win")
	}
	if Better(sol, b, a) {
		t.Fatal("expected the reverse comparison to lose")
	}
}

func TestBetterPrefersNotActivatingNewVehicle(t *testing.T) {
	sol := twoRouteSolution()
	activates := Candidate{Move: Move{TargetRoute: 1}}
	stays := Candidate{Move: Move{TargetRoute: 0}}
	if !Better(sol, stays, activates) {
		t.Fatal("expected the move that avoids activating an idle vehicle to win")
	}
}

func TestBetterFallsBackToTargetRouteThenSourceRank(t *testing.T) {
	sol := twoRouteSolution()
	sol.Routes[1].Steps = []model.Step{{Kind: model.StepJob, JobIndex: 1}} // both routes non-empty now
	lowRoute := Candidate{Move: Move{TargetRoute: 0, SourceRank: 5}}
	highRoute := Candidate{Move: Move{TargetRoute: 1, SourceRank: 0}}
	if !Better(sol, lowRoute, highRoute) {
		t.Fatal("expected the lower target route index to win regardless of source rank")
	}
	lowRank := Candidate{Move: Move{TargetRoute: 0, SourceRank: 0}}
	highRank := Candidate{Move: Move{TargetRoute: 0, SourceRank: 3}}
	if !Better(sol, lowRank, highRank) {
		t.Fatal("expected the lower source rank to win when target routes tie")
	}
}
