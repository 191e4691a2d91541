package operator

import (
	"testing"

	"vroom/internal/core"
	"vroom/internal/matrix"
	"vroom/internal/model"
	"vroom/internal/routestate"
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

// zigzagContext builds one vehicle visiting jobs at locations 3,1,2 in that
// order, an obviously-improvable route for a relocate move to fix.
func zigzagContext() (*core.Context, *model.Solution, []*routestate.Cache) {
	jobs := []model.Job{singleJob(1, 3, 1), singleJob(2, 1, 1), singleJob(3, 2, 1)}
	vehicles := []model.Vehicle{vehicle(0, 0)}
	in := &model.Input{Jobs: jobs, Vehicles: vehicles, LocationCount: 4, AmountSize: 1}
	ctx := core.New(in, matrix.NewSet(line(4)))
	sol := &model.Solution{
		Routes: []model.Route{{
			VehicleIndex: 0,
			Steps: []model.Step{
				{Kind: model.StepJob, JobIndex: 0},
				{Kind: model.StepJob, JobIndex: 1},
				{Kind: model.StepJob, JobIndex: 2},
			},
		}},
	}
	cache, err := routestate.Rebuild(ctx, sol.Routes[0])
	if err != nil || !cache.Feasible {
		panic("expected a feasible seed route")
	}
	return ctx, sol, []*routestate.Cache{cache}
}

// twoRouteContext builds two single-vehicle routes of two jobs each, far
// enough apart that a cross-route exchange or mix is unambiguous to trace.
func twoRouteContext() (*core.Context, *model.Solution, []*routestate.Cache) {
	jobs := []model.Job{
		singleJob(1, 1, 1), singleJob(2, 2, 1), // route 0: locations 1,2
		singleJob(3, 5, 1), singleJob(4, 6, 1), // route 1: locations 5,6
	}
	vehicles := []model.Vehicle{vehicle(0, 0), vehicle(7, 7)}
	in := &model.Input{Jobs: jobs, Vehicles: vehicles, LocationCount: 8, AmountSize: 1}
	ctx := core.New(in, matrix.NewSet(line(8)))
	sol := &model.Solution{
		Routes: []model.Route{
			{VehicleIndex: 0, Steps: []model.Step{{Kind: model.StepJob, JobIndex: 0}, {Kind: model.StepJob, JobIndex: 1}}},
			{VehicleIndex: 1, Steps: []model.Step{{Kind: model.StepJob, JobIndex: 2}, {Kind: model.StepJob, JobIndex: 3}}},
		},
	}
	caches := make([]*routestate.Cache, 2)
	for i, r := range sol.Routes {
		c, err := routestate.Rebuild(ctx, r)
		if err != nil || !c.Feasible {
			panic("expected a feasible seed route")
		}
		caches[i] = c
	}
	return ctx, sol, caches
}

func TestEvaluateCrossExchangeSwapsTwoJobSegments(t *testing.T) {
	ctx, sol, caches := twoRouteContext()
	move := Move{Kind: CrossExchange, SourceRoute: 0, SourceRank: 0, SegLen: 2, TargetRoute: 1, TargetRank: 0, TargetSegLen: 2}
	eval := Evaluate(ctx, sol, caches, move)
	if !eval.Feasible {
		t.Fatal("expected swapping two whole 2-job routes to be feasible")
	}
	Apply(ctx, sol, move, eval)
	if sol.Routes[0].Steps[0].JobIndex != 2 || sol.Routes[0].Steps[1].JobIndex != 3 {
		t.Fatalf("expected route 0 to now carry jobs 2,3, got %+v", sol.Routes[0].Steps)
	}
	if sol.Routes[1].Steps[0].JobIndex != 0 || sol.Routes[1].Steps[1].JobIndex != 1 {
		t.Fatalf("expected route 1 to now carry jobs 0,1, got %+v", sol.Routes[1].Steps)
	}
}

func TestEvaluateMixedExchangeSwapsSegmentAgainstSingleJob(t *testing.T) {
	ctx, sol, caches := twoRouteContext()
	// Route 0's whole 2-job segment trades places with just the job at rank
	// 0 on route 1 (job index 2); route 1's other job (index 3) stays put.
	move := Move{Kind: MixedExchange, SourceRoute: 0, SourceRank: 0, SegLen: 2, TargetRoute: 1, TargetRank: 0, TargetSegLen: 1}
	eval := Evaluate(ctx, sol, caches, move)
	if !eval.Feasible {
		t.Fatal("expected the 2-job-for-1-job mixed exchange to be feasible")
	}
	Apply(ctx, sol, move, eval)
	if len(sol.Routes[0].Steps) != 1 || sol.Routes[0].Steps[0].JobIndex != 2 {
		t.Fatalf("expected route 0 to now carry just job 2, got %+v", sol.Routes[0].Steps)
	}
	got := sol.Routes[1].Steps
	if len(got) != 3 || got[0].JobIndex != 0 || got[1].JobIndex != 1 || got[2].JobIndex != 3 {
		t.Fatalf("expected route 1 to now carry jobs 0,1 then the untouched job 3, got %+v", got)
	}
}

func TestEvaluateRelocateImprovesZigzagRoute(t *testing.T) {
	ctx, sol, caches := zigzagContext()
	// Moving the job at rank 0 (location 3) to the end straightens the route.
	move := Move{Kind: Relocate, SourceRoute: 0, SourceRank: 0, TargetRoute: 0, TargetRank: 3}
	eval := Evaluate(ctx, sol, caches, move)
	if !eval.Feasible {
		t.Fatal("expected the relocate to be feasible")
	}
	if !eval.Improves() {
		t.Fatalf("expected relocating the out-of-order job to improve the objective, got delta %+v", eval.Delta)
	}
}

func TestApplyRelocateMutatesSteps(t *testing.T) {
	ctx, sol, caches := zigzagContext()
	move := Move{Kind: Relocate, SourceRoute: 0, SourceRank: 0, TargetRoute: 0, TargetRank: 3}
	eval := Evaluate(ctx, sol, caches, move)
	result := Apply(ctx, sol, move, eval)
	if len(result.TouchedRoutes) != 1 || result.TouchedRoutes[0] != 0 {
		t.Fatalf("expected route 0 to be reported touched, got %v", result.TouchedRoutes)
	}
	steps := sol.Routes[0].Steps
	if len(steps) != 3 || steps[2].JobIndex != 0 {
		t.Fatalf("expected the relocated job to land last, got %+v", steps)
	}
}

func TestEvaluateRelocateOutOfRangeIsInfeasible(t *testing.T) {
	ctx, sol, caches := zigzagContext()
	move := Move{Kind: Relocate, SourceRoute: 0, SourceRank: 5, TargetRoute: 0, TargetRank: 0}
	eval := Evaluate(ctx, sol, caches, move)
	if eval.Feasible {
		t.Fatal("expected an out-of-range source rank to be rejected")
	}
}

func TestEvaluateUnknownKindReturnsInfeasible(t *testing.T) {
	ctx, sol, caches := zigzagContext()
	eval := Evaluate(ctx, sol, caches, Move{Kind: Kind(999)})
	if eval.Feasible {
		t.Fatal("expected an unrecognized move kind to be infeasible")
	}
}

func TestKindStringCoversCatalog(t *testing.T) {
	kinds := []Kind{
		Relocate, IntraRelocate, Exchange, IntraExchange, OrOpt, IntraOrOpt,
		TwoOpt, ReverseTwoOpt, IntraTwoOpt, CrossExchange, MixedExchange,
		SwapStar, PDShift, RouteExchange, PriorityReplace, UnassignedExchange,
	}
	seen := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		s := k.String()
		if s == "" || s == "unknown" {
			t.Fatalf("expected %d to have a named string, got %q", k, s)
		}
		if seen[s] {
			t.Fatalf("duplicate Kind string %q", s)
		}
		seen[s] = true
	}
}

func TestKindStringUnknown(t *testing.T) {
	if got := Kind(999).String(); got != "unknown" {
		t.Fatalf("expected \"unknown\" for an unrecognized kind, got %q", got)
	}
}

func TestRemovalCandidatesReturnsSegmentJobs(t *testing.T) {
	_, sol, _ := zigzagContext()
	move := Move{SourceRoute: 0, SourceRank: 1, SegLen: 2}
	got := RemovalCandidates(sol, move)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected job indices [1,2], got %v", got)
	}
}

func TestAdditionCandidatesOnlyForExchangeFamily(t *testing.T) {
	_, sol, _ := zigzagContext()
	relocateMove := Move{Kind: Relocate, TargetRoute: 0, TargetRank: 0}
	if got := AdditionCandidates(sol, relocateMove); got != nil {
		t.Fatalf("expected relocate to contribute no addition candidates, got %v", got)
	}
	exchangeMove := Move{Kind: Exchange, TargetRoute: 0, TargetRank: 1, TargetSegLen: 1}
	if got := AdditionCandidates(sol, exchangeMove); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected job index 1 from the target segment, got %v", got)
	}
}
