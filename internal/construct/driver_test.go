package construct

import (
	"testing"

	"vroom/internal/core"
	"vroom/internal/matrix"
	"vroom/internal/model"
	"vroom/internal/objective"
)

// line builds a 1D road: locations 0,1,2,... 1km/1min apart.
func line(n int) *matrix.Profile {
	dur := matrix.NewTable(n)
	dist := matrix.NewTable(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := i - j
			if d < 0 {
				d = -d
			}
			dur.Set(i, j, int64(d*60))
			dist.Set(i, j, int64(d*1000))
		}
	}
	return &matrix.Profile{Name: "car", Durations: dur, Distances: dist, Costs: matrix.SynthesizeCost(dur, dist, 3600, 100)}
}

func loc(i int) model.Location { return model.Location{Index: i} }

func testContext(jobs []model.Job, vehicles []model.Vehicle, n int) *core.Context {
	in := &model.Input{Jobs: jobs, Vehicles: vehicles, LocationCount: n, AmountSize: 1}
	return core.New(in, matrix.NewSet(line(n)))
}

func vehicle(start, end int) model.Vehicle {
	s, e := loc(start), loc(end)
	return model.Vehicle{
		Profile:    "car",
		Capacity:   model.Amount{10},
		TimeWindow: model.TimeWindow{Start: 0, End: 100000},
		Start:      &s,
		End:        &e,
		Cost:       model.VehicleCost{PerHour: 3600, PerKm: 100},
	}
}

func singleJob(id uint64, location int, amount int64) model.Job {
	return model.Job{
		ID:          id,
		Location:    loc(location),
		Pickup:      model.Amount{amount},
		Delivery:    model.Amount{0},
		TimeWindows: model.TimeWindows{model.Universal},
		Kind:        model.JobSingle,
		PairIndex:   -1,
	}
}

func TestBuildParallelAssignsAllFeasibleJobs(t *testing.T) {
	jobs := []model.Job{singleJob(1, 1, 2), singleJob(2, 2, 2), singleJob(3, 3, 2)}
	vehicles := []model.Vehicle{vehicle(0, 0)}
	ctx := testContext(jobs, vehicles, 4)

	sol, caches, err := Build(ctx, Params{Lambda: 1, RegretK: 2, Sequential: false})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(sol.Unassigned) != 0 {
		t.Fatalf("expected all jobs assigned, got unassigned=%v", sol.Unassigned)
	}
	if sol.Routes[0].JobCount() != 3 {
		t.Fatalf("expected 3 jobs on the single route, got %d", sol.Routes[0].JobCount())
	}
	tuple := objective.Evaluate(ctx, sol, caches)
	if tuple.UnassignedPriority != 0 {
		t.Fatalf("unexpected unassigned priority %d", tuple.UnassignedPriority)
	}
}

func TestBuildSequentialFillsOneVehicleFirst(t *testing.T) {
	jobs := []model.Job{singleJob(1, 1, 5), singleJob(2, 2, 5), singleJob(3, 3, 5)}
	vehicles := []model.Vehicle{vehicle(0, 0), vehicle(0, 0)}
	ctx := testContext(jobs, vehicles, 4)

	sol, _, err := Build(ctx, Params{Lambda: 0.5, RegretK: 2, Sequential: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(sol.Unassigned) != 0 {
		t.Fatalf("expected all jobs assigned, got unassigned=%v", sol.Unassigned)
	}
	total := 0
	for _, r := range sol.Routes {
		total += r.JobCount()
	}
	if total != 3 {
		t.Fatalf("expected 3 jobs placed across routes, got %d", total)
	}
	// Capacity 10 holds two pickups of 5, so vehicle 0 is filled with two
	// jobs before vehicle 1 is opened for the third.
	if got := sol.Routes[0].JobCount(); got != 2 {
		t.Fatalf("expected vehicle 0 filled with 2 jobs first, got %d", got)
	}
}

func TestBuildLeavesInfeasibleJobUnassigned(t *testing.T) {
	jobs := []model.Job{singleJob(1, 1, 2), singleJob(2, 2, 50)}
	vehicles := []model.Vehicle{vehicle(0, 0)}
	ctx := testContext(jobs, vehicles, 3)

	sol, _, err := Build(ctx, Params{Lambda: 1, RegretK: 2})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(sol.Unassigned) != 1 || sol.Unassigned[0] != 1 {
		t.Fatalf("expected job index 1 (over capacity) unassigned, got %v", sol.Unassigned)
	}
}

func TestDefaultSeedsCoversRequestedCount(t *testing.T) {
	seeds := DefaultSeeds(5)
	if len(seeds) != 5 {
		t.Fatalf("expected 5 seeds, got %d", len(seeds))
	}
}
