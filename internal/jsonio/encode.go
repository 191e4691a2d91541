package jsonio

import (
	"vroom/internal/core"
	"vroom/internal/model"
	"vroom/internal/objective"
	"vroom/internal/routestate"
)

// Encode translates a solved Solution into the output document spec.md §6
// describes. caches must be the routestate.Cache for every route in sol,
// in the same order (the caller's authoritative post-solve state — Encode
// never rebuilds one).
func Encode(ctx *core.Context, sol *model.Solution, caches []*routestate.Cache) Output {
	out := Output{Code: "ok"}
	tuple := objective.Evaluate(ctx, sol, caches)
	out.Summary = Summary{
		Cost:       tuple.Cost,
		Duration:   tuple.Duration,
		Routes:     0,
		Unassigned: len(sol.Unassigned),
	}

	for _, ji := range sol.Unassigned {
		j := ctx.Input.Jobs[ji]
		out.Unassigned = append(out.Unassigned, UnassignedEntry{ID: j.ID, Description: j.Description})
	}

	for ri, r := range sol.Routes {
		if len(r.Steps) == 0 {
			continue
		}
		route := encodeRoute(ctx, r, caches[ri])
		out.Summary.Distance += route.Distance
		out.Routes = append(out.Routes, route)
		out.Summary.Routes++
	}
	return out
}

func encodeRoute(ctx *core.Context, r model.Route, cache *routestate.Cache) RouteOut {
	v := ctx.Input.Vehicles[r.VehicleIndex]
	amountSize := ctx.Input.AmountSize
	steps := make([]StepOut, 0, len(r.Steps)+2)

	if v.Start != nil {
		loc := v.Start.Index
		steps = append(steps, StepOut{
			Type:     "start",
			Location: &loc,
			Arrival:  v.TimeWindow.Start,
			Load:     routeTotalDelivery(ctx, r, amountSize),
		})
	}

	for k, s := range r.Steps {
		steps = append(steps, encodeStep(ctx, v, s, k, cache))
	}

	if v.End != nil {
		loc := v.End.Index
		var load []int64
		if n := len(r.Steps); n > 0 {
			load = []int64(cache.Load[n-1])
		} else {
			load = routeTotalDelivery(ctx, r, amountSize)
		}
		steps = append(steps, StepOut{
			Type:     "end",
			Location: &loc,
			Arrival:  cache.EndTime,
			Load:     load,
		})
	}

	return RouteOut{
		Vehicle:  v.ID,
		Steps:    steps,
		Cost:     objective.RouteCost(v, cache),
		Duration: cache.TotalDuration,
		Distance: cache.TotalDistance,
	}
}

func encodeStep(ctx *core.Context, v model.Vehicle, s model.Step, k int, cache *routestate.Cache) StepOut {
	loc := cache.Locations[k]
	out := StepOut{
		Location:    &loc,
		Arrival:     cache.ReadyAt[k],
		Duration:    cache.FwdDuration[k],
		WaitingTime: cache.Earliest[k] - cache.ReadyAt[k],
		Load:        []int64(cache.Load[k]),
	}
	switch s.Kind {
	case model.StepJob:
		j := ctx.Input.Jobs[s.JobIndex]
		out.Type = jobStepType(j.Kind)
		out.ID = j.ID
		out.Service = j.Service
	case model.StepBreak:
		b := v.Breaks[s.BreakIndex]
		out.Type = "break"
		out.ID = b.ID
		out.Service = b.Service
	}
	return out
}

func jobStepType(kind model.JobKind) string {
	switch kind {
	case model.JobPickup:
		return "pickup"
	case model.JobDelivery:
		return "delivery"
	default:
		return "job"
	}
}

// routeTotalDelivery mirrors routestate's own helper: the load the vehicle
// is carrying at departure, before serving any step.
func routeTotalDelivery(ctx *core.Context, r model.Route, amountSize int) []int64 {
	total := model.NewAmount(amountSize)
	for _, s := range r.Steps {
		if s.Kind == model.StepJob {
			total = total.Add(ctx.Input.Jobs[s.JobIndex].Delivery)
		}
	}
	return []int64(total)
}
