package objective

import (
	"testing"

	"vroom/internal/core"
	"vroom/internal/matrix"
	"vroom/internal/model"
	"vroom/internal/routestate"
)

func TestCompareOrdersUnassignedFirst(t *testing.T) {
	better := Tuple{UnassignedPriority: 0, Cost: 1000, Duration: 1000}
	worse := Tuple{UnassignedPriority: 1, Cost: 0, Duration: 0}
	if !Less(better, worse) {
		t.Fatal("expected fewer unassigned priority to win regardless of cost/duration")
	}
}

func TestCompareFallsBackToCostThenDuration(t *testing.T) {
	a := Tuple{UnassignedPriority: 0, Cost: 10, Duration: 100}
	b := Tuple{UnassignedPriority: 0, Cost: 20, Duration: 1}
	if !Less(a, b) {
		t.Fatal("expected lower cost to win when unassigned priority ties")
	}
	c := Tuple{UnassignedPriority: 0, Cost: 10, Duration: 100}
	d := Tuple{UnassignedPriority: 0, Cost: 10, Duration: 50}
	if !Less(d, c) {
		t.Fatal("expected lower duration to win when cost and unassigned priority tie")
	}
}

func TestTupleAdd(t *testing.T) {
	a := Tuple{UnassignedPriority: 1, Cost: 2, Duration: 3}
	b := Tuple{UnassignedPriority: 4, Cost: 5, Duration: 6}
	got := a.Add(b)
	want := Tuple{UnassignedPriority: 5, Cost: 7, Duration: 9}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRouteCostEmptyRouteIsZero(t *testing.T) {
	v := model.Vehicle{Cost: model.VehicleCost{Fixed: 50}}
	cache := &routestate.Cache{TaskCount: 0}
	if got := RouteCost(v, cache); got != 0 {
		t.Fatalf("expected zero cost for an unused vehicle, got %d", got)
	}
}

func TestRouteCostIncludesFixedAndTravel(t *testing.T) {
	v := model.Vehicle{Cost: model.VehicleCost{Fixed: 50}}
	cache := &routestate.Cache{TaskCount: 2, TotalCost: 400}
	if got := RouteCost(v, cache); got != 450 {
		t.Fatalf("expected 450 (fixed 50 + travel 400), got %d", got)
	}
}

func TestEvaluateSumsUnassignedAndRoutes(t *testing.T) {
	durations := matrix.NewTable(2)
	distances := matrix.NewTable(2)
	durations.Set(0, 1, 100)
	durations.Set(1, 0, 100)
	distances.Set(0, 1, 1000)
	distances.Set(1, 0, 1000)
	set := matrix.NewSet(&matrix.Profile{Name: "car", Durations: durations, Distances: distances})

	start := model.Location{Index: 0}
	v := model.Vehicle{
		Start: &start, End: &start, Profile: "car", Capacity: model.Amount{5},
		TimeWindow: model.Universal, SpeedFactor: 1, Cost: model.VehicleCost{Fixed: 10, PerHour: 3600},
	}
	in := &model.Input{
		Jobs: []model.Job{
			{ID: 1, Location: model.Location{Index: 1}, Pickup: model.Amount{0}, Delivery: model.Amount{1}, Priority: 50, TimeWindows: model.TimeWindows{model.Universal}, PairIndex: -1},
			{ID: 2, Location: model.Location{Index: 1}, Pickup: model.Amount{0}, Delivery: model.Amount{1}, Priority: 10, TimeWindows: model.TimeWindows{model.Universal}, PairIndex: -1},
		},
		Vehicles:      []model.Vehicle{v},
		LocationCount: 2,
		AmountSize:    1,
	}
	ctx := core.New(in, set)
	sol := &model.Solution{
		Routes:     []model.Route{{VehicleIndex: 0, Steps: []model.Step{{Kind: model.StepJob, JobIndex: 0}}}},
		Unassigned: []int{1},
	}
	caches, err := routestate.RebuildAll(ctx, sol)
	if err != nil {
		t.Fatal(err)
	}
	tuple := Evaluate(ctx, sol, caches)
	if tuple.UnassignedPriority != 10 {
		t.Fatalf("expected unassigned priority 10, got %d", tuple.UnassignedPriority)
	}
	if tuple.Cost != 210 { // fixed 10 + 200s round trip at 1/sec
		t.Fatalf("expected cost 210, got %d", tuple.Cost)
	}
	if tuple.Duration != 200 {
		t.Fatalf("expected duration 200, got %d", tuple.Duration)
	}
}
