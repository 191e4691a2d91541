package solve

import (
	"context"
	"encoding/json"
	"testing"

	"vroom/internal/config"
	"vroom/internal/core"
	"vroom/internal/jsonio"
	"vroom/internal/matrix"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/progress"
	"vroom/internal/routestate"
)

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

func smallContext() *core.Context {
	loc := func(i int) model.Location { return model.Location{Index: i} }
	start, end := loc(0), loc(0)
	v := model.Vehicle{
		Profile:    "car",
		Capacity:   model.Amount{10},
		TimeWindow: model.TimeWindow{Start: 0, End: 100000},
		Start:      &start,
		End:        &end,
		Cost:       model.VehicleCost{PerHour: 3600, PerKm: 100},
	}
	jobs := []model.Job{
		{ID: 1, Location: loc(1), Pickup: model.Amount{1}, Delivery: model.Amount{0}, TimeWindows: model.TimeWindows{model.Universal}, Kind: model.JobSingle, PairIndex: -1},
		{ID: 2, Location: loc(2), Pickup: model.Amount{1}, Delivery: model.Amount{0}, TimeWindows: model.TimeWindows{model.Universal}, Kind: model.JobSingle, PairIndex: -1},
	}
	in := &model.Input{Jobs: jobs, Vehicles: []model.Vehicle{v}, LocationCount: 3, AmountSize: 1}
	return core.New(in, matrix.NewSet(line(3)))
}

func TestRunReturnsFeasibleSolution(t *testing.T) {
	sctx := smallContext()
	cfg := config.Defaults()
	cfg.HeuristicsCount = 2
	cfg.ThreadCount = 2
	sol, tuple, err := Run(context.Background(), sctx, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if sol == nil {
		t.Fatal("expected a non-nil solution")
	}
	if tuple.UnassignedPriority != 0 {
		t.Fatalf("expected both jobs to be assignable, got unassigned priority %d", tuple.UnassignedPriority)
	}
}

func TestRunPublishesProgressToRunIDAndWildcard(t *testing.T) {
	sctx := smallContext()
	cfg := config.Defaults()
	cfg.HeuristicsCount = 1
	cfg.ThreadCount = 1
	broker := progress.NewMemoryBroker()
	wildcard := broker.Subscribe(progress.AllRuns)
	if _, _, err := Run(context.Background(), sctx, cfg, broker); err != nil {
		t.Fatal(err)
	}
	select {
	case <-wildcard:
	default:
		t.Fatal("expected at least one event on the AllRuns wildcard channel")
	}
}

func TestBuildTasksProducesSequentialAndParallelVariants(t *testing.T) {
	cfg := config.Defaults()
	cfg.HeuristicsCount = 3
	tasks := buildTasks(cfg)
	if len(tasks) != 6 {
		t.Fatalf("expected 2 variants per seed (3 seeds), got %d", len(tasks))
	}
	seqCount, parCount := 0, 0
	for _, tk := range tasks {
		if tk.params.Sequential {
			seqCount++
		} else {
			parCount++
		}
	}
	if seqCount != 3 || parCount != 3 {
		t.Fatalf("expected 3 sequential and 3 parallel tasks, got %d/%d", seqCount, parCount)
	}
}

func TestReduceBreaksTiesByLowestIndex(t *testing.T) {
	sameTuple := objective.Tuple{UnassignedPriority: 0, Cost: 100, Duration: 100}
	results := []Result{
		{Index: 1, Tuple: sameTuple, Solution: &model.Solution{}},
		{Index: 0, Tuple: sameTuple, Solution: &model.Solution{}},
	}
	want := results[1].Solution
	sol, _, err := reduce(results)
	if err != nil {
		t.Fatal(err)
	}
	if sol != want {
		t.Fatal("expected the lowest-index result to win a tie")
	}
}

func TestReducePicksStrictlyBetterTuple(t *testing.T) {
	worse := objective.Tuple{UnassignedPriority: 0, Cost: 500, Duration: 500}
	better := objective.Tuple{UnassignedPriority: 0, Cost: 100, Duration: 100}
	results := []Result{
		{Index: 0, Tuple: worse, Solution: &model.Solution{}},
		{Index: 1, Tuple: better, Solution: &model.Solution{}},
	}
	sol, tuple, err := reduce(results)
	if err != nil {
		t.Fatal(err)
	}
	if sol != results[1].Solution || tuple != better {
		t.Fatal("expected the strictly cheaper tuple to win regardless of index")
	}
}

func TestRuinSizeForClampsToRange(t *testing.T) {
	if got := ruinSizeFor(smallContext()); got != 1 {
		t.Fatalf("expected the floor of 1 for a tiny job count, got %d", got)
	}
}

// TestRunIsDeterministic exercises spec.md §8 P6: the same input and seed
// list run twice must produce byte-identical output. The pool's tie-break
// is index-based (reduce sorts by task index before comparing tuples) and
// no stage draws from an RNG, so two Run calls over the same *core.Context
// and config must agree route-for-route, not just on the objective tuple.
func TestRunIsDeterministic(t *testing.T) {
	cfg := config.Defaults()
	cfg.HeuristicsCount = 3
	cfg.ThreadCount = 4

	encode := func() []byte {
		sctx := smallContext()
		sol, _, err := Run(context.Background(), sctx, cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		caches, err := routestate.RebuildAll(sctx, sol)
		if err != nil {
			t.Fatal(err)
		}
		out := jsonio.Encode(sctx, sol, caches)
		b, err := json.Marshal(out)
		if err != nil {
			t.Fatal(err)
		}
		return b
	}

	first := encode()
	second := encode()
	if string(first) != string(second) {
		t.Fatalf("expected byte-identical output across runs, got:\n%s\nvs\n%s", first, second)
	}
}

// TestRunAssignsHigherPriorityJobWhenOnlyOneFits covers spec.md §8 scenario
// 6: two jobs where only one fits, one carrying priority 10 and the other
// priority 0. The priority-10 job must be assigned and the other left
// unassigned regardless of which is cheaper to serve, since the objective
// tuple orders unassigned priority ahead of cost (spec.md §4.7).
func TestRunAssignsHigherPriorityJobWhenOnlyOneFits(t *testing.T) {
	loc := func(i int) model.Location { return model.Location{Index: i} }
	start, end := loc(0), loc(0)
	v := model.Vehicle{
		Profile:    "car",
		Capacity:   model.Amount{1},
		TimeWindow: model.TimeWindow{Start: 0, End: 100000},
		Start:      &start,
		End:        &end,
		Cost:       model.VehicleCost{PerHour: 3600, PerKm: 100},
	}
	cheapLowPriority := model.Job{
		ID: 1, Priority: 0, Location: loc(1), Pickup: model.Amount{1}, Delivery: model.Amount{0},
		TimeWindows: model.TimeWindows{model.Universal}, Kind: model.JobSingle, PairIndex: -1,
	}
	expensiveHighPriority := model.Job{
		ID: 2, Priority: 10, Location: loc(2), Pickup: model.Amount{1}, Delivery: model.Amount{0},
		TimeWindows: model.TimeWindows{model.Universal}, Kind: model.JobSingle, PairIndex: -1,
	}
	in := &model.Input{
		Jobs:          []model.Job{cheapLowPriority, expensiveHighPriority},
		Vehicles:      []model.Vehicle{v},
		LocationCount: 3,
		AmountSize:    1,
	}
	sctx := core.New(in, matrix.NewSet(line(3)))

	cfg := config.Defaults()
	cfg.HeuristicsCount = 3
	cfg.ThreadCount = 2
	sol, tuple, err := Run(context.Background(), sctx, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tuple.UnassignedPriority != 0 {
		t.Fatalf("expected the priority-10 job assigned (unassigned priority 0), got %d", tuple.UnassignedPriority)
	}
	if len(sol.Unassigned) != 1 || sctx.Input.Jobs[sol.Unassigned[0]].ID != cheapLowPriority.ID {
		t.Fatalf("expected only the priority-0 job left unassigned, got unassigned=%v", sol.Unassigned)
	}
}
