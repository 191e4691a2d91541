package routestate

import (
	"testing"

	"vroom/internal/core"
	"vroom/internal/matrix"
	"vroom/internal/model"
)

func twoStopContext() *core.Context {
	durations := matrix.NewTable(3)
	distances := matrix.NewTable(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				continue
			}
			d := int64(100 * (j - i))
			if d < 0 {
				d = -d
			}
			durations.Set(i, j, d)
			distances.Set(i, j, d*10)
		}
	}
	set := matrix.NewSet(&matrix.Profile{Name: "car", Durations: durations, Distances: distances})

	start := model.Location{Index: 0}
	end := model.Location{Index: 0}
	v := model.Vehicle{
		ID: 1, Start: &start, End: &end, Profile: "car",
		Capacity:    model.Amount{10},
		TimeWindow:  model.Universal,
		SpeedFactor: 1,
		Cost:        model.VehicleCost{Fixed: 5, PerHour: 3600, PerKm: 0}, // 1/sec
	}
	in := &model.Input{
		Jobs: []model.Job{
			{ID: 100, Location: model.Location{Index: 1}, Pickup: model.Amount{0}, Delivery: model.Amount{2}, TimeWindows: model.TimeWindows{model.Universal}, Kind: model.JobSingle, PairIndex: -1},
			{ID: 101, Location: model.Location{Index: 2}, Pickup: model.Amount{0}, Delivery: model.Amount{3}, TimeWindows: model.TimeWindows{model.Universal}, Kind: model.JobSingle, PairIndex: -1},
		},
		Vehicles:      []model.Vehicle{v},
		LocationCount: 3,
		AmountSize:    1,
	}
	return core.New(in, set)
}

func TestRebuildEmptyRoute(t *testing.T) {
	ctx := twoStopContext()
	route := model.Route{VehicleIndex: 0}
	c, err := Rebuild(ctx, route)
	if err != nil {
		t.Fatal(err)
	}
	if c.TaskCount != 0 {
		t.Fatalf("expected TaskCount 0, got %d", c.TaskCount)
	}
	if !c.Feasible {
		t.Fatal("expected an empty route to be feasible")
	}
	if c.TotalDuration != 0 || c.TotalDistance != 0 || c.TotalCost != 0 {
		t.Fatalf("expected a same-start/end empty route to have zero totals, got %+v", c)
	}
}

func TestRebuildTwoJobRoute(t *testing.T) {
	ctx := twoStopContext()
	route := model.Route{
		VehicleIndex: 0,
		Steps: []model.Step{
			{Kind: model.StepJob, JobIndex: 0},
			{Kind: model.StepJob, JobIndex: 1},
		},
	}
	c, err := Rebuild(ctx, route)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Feasible {
		t.Fatal("expected route to be feasible")
	}
	// 0->1 (100s), 1->2 (100s), 2->0 (200s) = 400s total travel.
	if c.TotalDuration != 400 {
		t.Fatalf("expected total duration 400, got %d", c.TotalDuration)
	}
	if c.TotalDistance != 4000 {
		t.Fatalf("expected total distance 4000, got %d", c.TotalDistance)
	}
	// per_hour=3600 means 1 unit/sec; travel cost equals travel duration.
	if c.TotalCost != 400 {
		t.Fatalf("expected total cost 400 (fixed excluded), got %d", c.TotalCost)
	}
	// Delivery load is carried from departure: both deliveries (2+3=5) are
	// on board at the start, 3 remain after the first delivery and 0 after
	// the second (Load[k] is the load after rank k).
	if c.Load[0][0] != 3 || c.Load[1][0] != 0 {
		t.Fatalf("expected load 3 after rank 0 and 0 after rank 1, got %v %v", c.Load[0], c.Load[1])
	}
	if c.ReadyAt[0] != c.Earliest[0] {
		t.Fatalf("expected no waiting under a universal time window, got ReadyAt=%d Earliest=%d", c.ReadyAt[0], c.Earliest[0])
	}
}

func TestRebuildInfeasibleOverCapacity(t *testing.T) {
	ctx := twoStopContext()
	ctx.Input.Vehicles[0].Capacity = model.Amount{4} // less than 2+3=5
	route := model.Route{
		VehicleIndex: 0,
		Steps: []model.Step{
			{Kind: model.StepJob, JobIndex: 0},
			{Kind: model.StepJob, JobIndex: 1},
		},
	}
	c, err := Rebuild(ctx, route)
	if err != nil {
		t.Fatal(err)
	}
	if c.Feasible {
		t.Fatal("expected route exceeding capacity to be infeasible")
	}
}

func TestRebuildAllPreservesOrder(t *testing.T) {
	ctx := twoStopContext()
	sol := &model.Solution{
		Routes: []model.Route{
			{VehicleIndex: 0, Steps: []model.Step{{Kind: model.StepJob, JobIndex: 0}}},
			{VehicleIndex: 0},
		},
	}
	caches, err := RebuildAll(ctx, sol)
	if err != nil {
		t.Fatal(err)
	}
	if len(caches) != 2 {
		t.Fatalf("expected 2 caches, got %d", len(caches))
	}
	if caches[0].TaskCount != 1 || caches[1].TaskCount != 0 {
		t.Fatalf("caches out of order: %+v", caches)
	}
}
