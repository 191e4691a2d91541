// Package routestate holds the per-route prefix-sum cache that lets every
// operator in internal/operator evaluate a candidate move's feasibility and
// cost delta in O(1) against precomputed summaries (spec.md §3, §4.3)
// instead of replaying the whole route.
package routestate

import (
	"math"

	"vroom/internal/core"
	"vroom/internal/model"
)

// Cache is the rebuilt-lazily state of one route. Index k corresponds to
// route.Steps[k]. It is invalidated and rebuilt in full (O(|route|)) for
// any route touched by an applied move; every other route keeps its cache
// (spec.md §4.3).
type Cache struct {
	Feasible bool

	// Earliest/Latest are absolute clock times (seconds) at which service
	// may begin at rank k, forward- and backward-propagated respectively.
	Earliest []int64
	Latest   []int64

	// ReadyAt[k] is the clock time rank k's setup would finish absent any
	// time-window wait, i.e. arrival+setup. Earliest[k]-ReadyAt[k] is the
	// waiting time internal/jsonio reports for that step.
	ReadyAt []int64

	// FwdDuration/FwdDistance are cumulative operating time and distance
	// consumed from the vehicle's shift start through the departure from
	// rank k, computed under the earliest-start schedule.
	FwdDuration []int64
	FwdDistance []int64

	// BwdDuration/BwdDistance are the operating time and distance still to
	// be consumed after departing rank k, under the same schedule
	// (TotalDuration-FwdDuration[k], TotalDistance-FwdDistance[k]).
	BwdDuration []int64
	BwdDistance []int64

	// Load is the running load immediately after rank k. FwdPeakLoad[k]
	// and BwdPeakLoad[k] are the componentwise max of Load over the
	// prefix [0,k] and suffix [k,n) respectively — the two quantities an
	// insertion capacity check needs (spec.md §4.2).
	Load        []model.Amount
	FwdPeakLoad []model.Amount
	BwdPeakLoad []model.Amount

	// Locations[k] is the effective location index serving rank k (a
	// break inherits the location of the job preceding it).
	Locations []int

	// FwdCost is the cumulative travel cost consumed from the vehicle's
	// start through the departure from rank k, under the same per-edge cost
	// function TotalCost sums to completion (spec.md §4.1, §6: an explicit
	// profile cost matrix is honored here instead of only ever being
	// derived from aggregate duration/distance).
	FwdCost []int64

	TotalDuration int64
	TotalDistance int64
	TotalCost     int64
	EndTime       int64 // absolute clock time the vehicle returns to its end location
	TaskCount     int   // len(route.Steps): jobs and breaks, used as the route's "is it active" signal
	JobCount      int   // job steps only, what a vehicle's MaxTasks maximum actually bounds
}

// routeTotalDelivery sums every job step's Delivery amount, the load the
// vehicle must already be carrying when it departs.
func routeTotalDelivery(ctx *core.Context, route model.Route, amountSize int) model.Amount {
	total := model.NewAmount(amountSize)
	for _, s := range route.Steps {
		if s.Kind == model.StepJob {
			total = total.Add(ctx.Input.Jobs[s.JobIndex].Delivery)
		}
	}
	return total
}

// ScaledDuration applies a vehicle's speed factor to a raw travel-matrix
// duration, rounding half away from zero. Exported so packages evaluating
// an insertion's feasibility in O(1) (internal/feasibility, internal/construct)
// can reproduce Rebuild's exact travel-time arithmetic without replaying the
// route.
func ScaledDuration(v model.Vehicle, raw int64) int64 {
	f := v.SpeedFactor
	if f <= 0 {
		f = 1
	}
	if f == 1 {
		return raw
	}
	return int64(math.Round(float64(raw) / f))
}

// Rebuild recomputes the full cache for route from scratch. It is the only
// place route state is derived from first principles; every operator reads
// from the result instead of re-deriving it.
func Rebuild(ctx *core.Context, route model.Route) (*Cache, error) {
	v := ctx.Input.Vehicles[route.VehicleIndex]
	profile, err := ctx.Profile(v)
	if err != nil {
		return nil, err
	}
	costFn, err := ctx.VehicleCosts.For(v.Profile, v.Cost.PerHour, v.Cost.PerKm)
	if err != nil {
		return nil, err
	}
	n := len(route.Steps)
	jobCount := 0
	for _, s := range route.Steps {
		if s.Kind == model.StepJob {
			jobCount++
		}
	}
	c := &Cache{
		Feasible:    true,
		Earliest:    make([]int64, n),
		Latest:      make([]int64, n),
		ReadyAt:     make([]int64, n),
		FwdDuration: make([]int64, n),
		FwdDistance: make([]int64, n),
		FwdCost:     make([]int64, n),
		BwdDuration: make([]int64, n),
		BwdDistance: make([]int64, n),
		Load:        make([]model.Amount, n),
		FwdPeakLoad: make([]model.Amount, n),
		BwdPeakLoad: make([]model.Amount, n),
		Locations:   make([]int, n),
		TaskCount:   n,
		JobCount:    jobCount,
	}
	if n == 0 {
		if v.Start != nil && v.End != nil {
			c.TotalDuration = ScaledDuration(v, profile.Duration(v.Start.Index, v.End.Index))
			c.TotalDistance = profile.Distance(v.Start.Index, v.End.Index)
			c.TotalCost = costFn(v.Start.Index, v.End.Index)
		}
		c.EndTime = v.TimeWindow.Start + c.TotalDuration
		return c, nil
	}

	cur := -1
	if v.Start != nil {
		cur = v.Start.Index
	}
	for k, s := range route.Steps {
		if s.Kind == model.StepJob {
			cur = ctx.Input.Jobs[s.JobIndex].Location.Index
		}
		c.Locations[k] = cur
	}

	amountSize := ctx.Input.AmountSize
	// The vehicle carries every step's delivery amount from the start of
	// the route (spec.md §6: delivery quantities are loaded before
	// departure, pickup quantities are collected along the way and carried
	// to the end), so the running load starts at the route's total
	// delivery weight rather than zero and pickups/deliveries adjust it
	// from there — mirroring AmountDelta's pickup-minus-delivery sign.
	running := routeTotalDelivery(ctx, route, amountSize)
	if !running.LessEq(v.Capacity) {
		c.Feasible = false
	}
	peak := running.Clone()

	prevDeparture := v.TimeWindow.Start
	prevLoc := -1
	if v.Start != nil {
		prevLoc = v.Start.Index
	}
	for k, s := range route.Steps {
		var setup, service int64
		var tw model.TimeWindows
		var delta model.Amount
		var maxLoad *model.Amount
		if s.Kind == model.StepJob {
			j := ctx.Input.Jobs[s.JobIndex]
			setup = j.Setup
			service = j.Service
			tw = j.TimeWindows
			delta = j.AmountDelta()
		} else {
			b := v.Breaks[s.BreakIndex]
			service = b.Service
			tw = b.TimeWindows
			delta = model.NewAmount(amountSize)
			maxLoad = b.MaxLoad
		}

		travelIn := int64(0)
		if prevLoc >= 0 && c.Locations[k] >= 0 {
			travelIn = ScaledDuration(v, profile.Duration(prevLoc, c.Locations[k]))
			c.FwdDistance[k] = profile.Distance(prevLoc, c.Locations[k])
			c.FwdCost[k] = costFn(prevLoc, c.Locations[k])
		}
		if k > 0 {
			c.FwdDistance[k] += c.FwdDistance[k-1]
			c.FwdCost[k] += c.FwdCost[k-1]
		}

		arrival := prevDeparture + travelIn
		startTime := arrival + setup
		c.ReadyAt[k] = startTime
		if len(tw) == 0 {
			tw = model.TimeWindows{model.Universal}
		}
		earliest, ok := tw.EarliestFeasibleStart(startTime)
		if !ok {
			c.Feasible = false
			earliest = startTime
		}
		c.Earliest[k] = earliest
		departure := earliest + service
		c.FwdDuration[k] = departure - v.TimeWindow.Start

		running = running.Add(delta)
		if !running.NonNegative() {
			c.Feasible = false
		}
		peak = peak.Max(running)
		if !running.LessEq(v.Capacity) {
			c.Feasible = false
		}
		if maxLoad != nil && !running.LessEq(*maxLoad) {
			c.Feasible = false
		}
		c.Load[k] = running.Clone()
		c.FwdPeakLoad[k] = peak.Clone()

		prevDeparture = departure
		prevLoc = c.Locations[k]
	}

	endTravel := int64(0)
	if v.End != nil && prevLoc >= 0 {
		endTravel = ScaledDuration(v, profile.Duration(prevLoc, v.End.Index))
	}
	c.EndTime = prevDeparture + endTravel
	c.TotalDuration = c.EndTime - v.TimeWindow.Start
	lastDist := int64(0)
	if v.End != nil && prevLoc >= 0 {
		lastDist = profile.Distance(prevLoc, v.End.Index)
	}
	c.TotalDistance = c.FwdDistance[n-1] + lastDist
	lastCost := int64(0)
	if v.End != nil && prevLoc >= 0 {
		lastCost = costFn(prevLoc, v.End.Index)
	}
	c.TotalCost = c.FwdCost[n-1] + lastCost
	if !v.TimeWindow.Contains(c.EndTime) && c.EndTime != v.TimeWindow.End {
		c.Feasible = false
	}

	for k := 0; k < n; k++ {
		c.BwdDuration[k] = c.TotalDuration - c.FwdDuration[k]
		c.BwdDistance[k] = c.TotalDistance - c.FwdDistance[k]
	}
	suffixPeak := model.NewAmount(amountSize)
	for k := n - 1; k >= 0; k-- {
		suffixPeak = suffixPeak.Max(c.Load[k])
		c.BwdPeakLoad[k] = suffixPeak.Clone()
	}

	// Backward propagation of the latest feasible service start, mirroring
	// the forward pass (spec.md §4.2: "new latest at k computed
	// symmetrically backward"). nextLatestArrival carries the latest
	// arrival time at nextLoc — i.e. Latest[k+1] with that step's OWN
	// setup subtracted back out — so that travelOut is subtracted from an
	// arrival bound rather than from the service-start bound Latest[k+1]
	// actually stores; without that, Latest[k] would drift into an
	// arrival-latest bound while Earliest[k] stays a service-start-earliest
	// bound, and the feasibility check below would compare mismatched
	// reference points whenever a step has nonzero setup.
	nextLatestArrival := v.TimeWindow.End
	nextLoc := -1
	if v.End != nil {
		nextLoc = v.End.Index
	}
	for k := n - 1; k >= 0; k-- {
		s := route.Steps[k]
		var setup, service int64
		var tw model.TimeWindows
		if s.Kind == model.StepJob {
			j := ctx.Input.Jobs[s.JobIndex]
			setup = j.Setup
			service = j.Service
			tw = j.TimeWindows
		} else {
			b := v.Breaks[s.BreakIndex]
			service = b.Service
			tw = b.TimeWindows
		}
		if len(tw) == 0 {
			tw = model.TimeWindows{model.Universal}
		}
		travelOut := int64(0)
		if c.Locations[k] >= 0 && nextLoc >= 0 {
			travelOut = ScaledDuration(v, profile.Duration(c.Locations[k], nextLoc))
		}
		latestDeparture := nextLatestArrival - travelOut
		latestServiceStart := latestDeparture - service
		latest, ok := tw.LatestFeasibleStart(latestServiceStart)
		if !ok {
			c.Feasible = false
			latest = latestServiceStart
		}
		c.Latest[k] = latest
		if c.Earliest[k] > c.Latest[k] {
			c.Feasible = false
		}
		nextLatestArrival = latest - setup
		nextLoc = c.Locations[k]
	}

	return c, nil
}

// RebuildAll rebuilds the cache for every route in sol, in route-index
// order. Used at construction time and whenever a full re-derivation is
// cheaper than tracking a dirty set (e.g. after loading a checkpoint).
func RebuildAll(ctx *core.Context, sol *model.Solution) ([]*Cache, error) {
	out := make([]*Cache, len(sol.Routes))
	for i, r := range sol.Routes {
		c, err := Rebuild(ctx, r)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
