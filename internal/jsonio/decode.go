package jsonio

import (
	"encoding/json"
	"fmt"

	"vroom/internal/matrix"
	"vroom/internal/model"
	"vroom/internal/vrerr"
)

// defaultProfile names the profile a vehicle inherits when its own
// "profile" field is empty, and the profile the deprecated top-level
// "matrix" alias populates.
const defaultProfile = "car"

// locationRegistry deduplicates coordinate pairs and explicit indices
// into a single dense [0,N) index space (spec.md §6's Location contract).
type locationRegistry struct {
	byCoords map[[2]float64]int
	next     int
	max      int
}

func newLocationRegistry() *locationRegistry {
	return &locationRegistry{byCoords: make(map[[2]float64]int)}
}

func (r *locationRegistry) resolve(coords *[2]float64, index *int) (model.Location, error) {
	switch {
	case index != nil:
		if *index+1 > r.max {
			r.max = *index + 1
		}
		if coords != nil {
			return model.Location{Index: *index, Lon: coords[0], Lat: coords[1], HasCoords: true}, nil
		}
		return model.Location{Index: *index}, nil
	case coords != nil:
		key := *coords
		if idx, ok := r.byCoords[key]; ok {
			return model.Location{Index: idx, Lon: coords[0], Lat: coords[1], HasCoords: true}, nil
		}
		idx := r.next
		r.next++
		r.byCoords[key] = idx
		if idx+1 > r.max {
			r.max = idx + 1
		}
		return model.Location{Index: idx, Lon: coords[0], Lat: coords[1], HasCoords: true}, nil
	default:
		return model.Location{}, fmt.Errorf("neither location nor location_index given")
	}
}

func (r *locationRegistry) count() int {
	if r.next > r.max {
		return r.next
	}
	return r.max
}

// Decode parses a problem document per spec.md §6 into an Input and, when
// the document supplies matrices directly, a ready-to-use matrix.Set. Set
// is nil when the caller must still fetch matrices via
// internal/routingclient (coordinates given, no "matrices"/"matrix" key).
func Decode(data []byte) (*model.Input, *matrix.Set, error) {
	var raw rawInput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, vrerr.InputError("jsonio.Decode", err)
	}

	amountSize, err := amountSizeOf(raw)
	if err != nil {
		return nil, nil, vrerr.InputError("jsonio.Decode", err)
	}

	locs := newLocationRegistry()
	jobs := make([]model.Job, 0, len(raw.Jobs)+2*len(raw.Shipments))

	for _, rj := range raw.Jobs {
		loc, err := locs.resolve(rj.Location, rj.LocationIdx)
		if err != nil {
			return nil, nil, vrerr.InputErrorf("jsonio.Decode", "job %d: %v", rj.ID, err)
		}
		j, err := buildJob(rj, loc, amountSize, model.JobSingle, -1)
		if err != nil {
			return nil, nil, vrerr.InputError("jsonio.Decode", err)
		}
		jobs = append(jobs, j)
	}

	for si, rs := range raw.Shipments {
		if len(rs.Amount) != amountSize {
			return nil, nil, vrerr.InputErrorf("jsonio.Decode", "shipment %d: amount length %d != %d", si, len(rs.Amount), amountSize)
		}
		pLoc, err := locs.resolve(rs.Pickup.Location, rs.Pickup.LocationIdx)
		if err != nil {
			return nil, nil, vrerr.InputErrorf("jsonio.Decode", "shipment %d pickup: %v", si, err)
		}
		dLoc, err := locs.resolve(rs.Delivery.Location, rs.Delivery.LocationIdx)
		if err != nil {
			return nil, nil, vrerr.InputErrorf("jsonio.Decode", "shipment %d delivery: %v", si, err)
		}
		pickupTW, err := toTimeWindows(rs.Pickup.TimeWindows)
		if err != nil {
			return nil, nil, vrerr.InputErrorf("jsonio.Decode", "shipment %d pickup: %v", si, err)
		}
		deliveryTW, err := toTimeWindows(rs.Delivery.TimeWindows)
		if err != nil {
			return nil, nil, vrerr.InputErrorf("jsonio.Decode", "shipment %d delivery: %v", si, err)
		}
		pickupIdx := len(jobs)
		deliveryIdx := pickupIdx + 1
		// Each shipment leg carries the amount vector on only one side
		// (Job.AmountDelta is a plain Pickup.Sub(Delivery), so the other
		// side must be the zero vector of the same length, not nil — a nil
		// Amount and a length-amountSize Amount panic on the componentwise
		// arithmetic routestate.Rebuild does on every step, the same way
		// buildJob already zero-fills whichever side a single job omits).
		zero := model.NewAmount(amountSize)
		jobs = append(jobs,
			model.Job{
				ID: rs.Pickup.ID, Location: pLoc, Setup: rs.Pickup.Setup, Service: rs.Pickup.Service,
				Pickup: model.Amount(rs.Amount), Delivery: zero, TimeWindows: pickupTW,
				Skills: model.SkillSet(rs.Skills), Priority: rs.Priority, Kind: model.JobPickup,
				PairIndex: deliveryIdx, Description: rs.Pickup.Description,
			},
			model.Job{
				ID: rs.Delivery.ID, Location: dLoc, Setup: rs.Delivery.Setup, Service: rs.Delivery.Service,
				Pickup: zero, Delivery: model.Amount(rs.Amount), TimeWindows: deliveryTW,
				Skills: model.SkillSet(rs.Skills), Priority: rs.Priority, Kind: model.JobDelivery,
				PairIndex: pickupIdx, Description: rs.Delivery.Description,
			},
		)
	}

	vehicles := make([]model.Vehicle, 0, len(raw.Vehicles))
	for vi, rv := range raw.Vehicles {
		v, err := buildVehicle(rv, locs, amountSize)
		if err != nil {
			return nil, nil, vrerr.InputErrorf("jsonio.Decode", "vehicle %d: %v", vi, err)
		}
		vehicles = append(vehicles, v)
	}

	in := &model.Input{Jobs: jobs, Vehicles: vehicles, LocationCount: locs.count(), AmountSize: amountSize}

	set, err := buildMatrixSet(raw, locs.count())
	if err != nil {
		return nil, nil, vrerr.InputError("jsonio.Decode", err)
	}
	return in, set, nil
}

func amountSizeOf(raw rawInput) (int, error) {
	if len(raw.Vehicles) == 0 {
		return 0, fmt.Errorf("at least one vehicle is required")
	}
	size := len(raw.Vehicles[0].Capacity)
	check := func(label string, n int) error {
		if n != size {
			return fmt.Errorf("%s length %d does not match capacity length %d", label, n, size)
		}
		return nil
	}
	for _, j := range raw.Jobs {
		if len(j.Delivery) > 0 {
			if err := check(fmt.Sprintf("job %d delivery", j.ID), len(j.Delivery)); err != nil {
				return 0, err
			}
		}
		if len(j.Pickup) > 0 {
			if err := check(fmt.Sprintf("job %d pickup", j.ID), len(j.Pickup)); err != nil {
				return 0, err
			}
		}
	}
	for i, s := range raw.Shipments {
		if err := check(fmt.Sprintf("shipment %d amount", i), len(s.Amount)); err != nil {
			return 0, err
		}
	}
	for i, v := range raw.Vehicles {
		if err := check(fmt.Sprintf("vehicle %d capacity", i), len(v.Capacity)); err != nil {
			return 0, err
		}
	}
	return size, nil
}

func buildJob(rj rawJob, loc model.Location, amountSize int, kind model.JobKind, pairIndex int) (model.Job, error) {
	delivery := model.NewAmount(amountSize)
	if len(rj.Delivery) > 0 {
		delivery = model.Amount(rj.Delivery)
	}
	pickup := model.NewAmount(amountSize)
	if len(rj.Pickup) > 0 {
		pickup = model.Amount(rj.Pickup)
	}
	tw, err := toTimeWindows(rj.TimeWindows)
	if err != nil {
		return model.Job{}, fmt.Errorf("job %d: %w", rj.ID, err)
	}
	return model.Job{
		ID: rj.ID, Location: loc, Setup: rj.Setup, Service: rj.Service,
		Delivery: delivery, Pickup: pickup, Skills: model.SkillSet(rj.Skills),
		Priority: rj.Priority, TimeWindows: tw,
		Kind: kind, PairIndex: pairIndex, Description: rj.Description,
	}, nil
}

// toTimeWindows converts a raw time-window list, rejecting any window with
// start >= end: unlike a merely inefficient window, an inverted one is
// silently mis-scheduled downstream rather than caught — TimeWindows.
// EarliestFeasibleStart treats an unreachable [10,5) as "arrival 0 is
// feasible at 10" instead of failing (spec.md §7).
func toTimeWindows(raw []rawTimeWindow) (model.TimeWindows, error) {
	if len(raw) == 0 {
		return model.TimeWindows{model.Universal}, nil
	}
	out := make(model.TimeWindows, len(raw))
	for i, w := range raw {
		if w[0] >= w[1] {
			return nil, fmt.Errorf("time window %d: start %d >= end %d", i, w[0], w[1])
		}
		out[i] = model.TimeWindow{Start: w[0], End: w[1]}
	}
	return out, nil
}

func buildVehicle(rv rawVehicle, locs *locationRegistry, amountSize int) (model.Vehicle, error) {
	if len(rv.Capacity) != amountSize {
		return model.Vehicle{}, fmt.Errorf("capacity length %d != %d", len(rv.Capacity), amountSize)
	}
	profile := rv.Profile
	if profile == "" {
		profile = defaultProfile
	}
	var start, end *model.Location
	if rv.Start != nil || rv.StartIdx != nil {
		loc, err := locs.resolve(rv.Start, rv.StartIdx)
		if err != nil {
			return model.Vehicle{}, fmt.Errorf("start: %w", err)
		}
		start = &loc
	}
	if rv.End != nil || rv.EndIdx != nil {
		loc, err := locs.resolve(rv.End, rv.EndIdx)
		if err != nil {
			return model.Vehicle{}, fmt.Errorf("end: %w", err)
		}
		end = &loc
	}
	if len(rv.Steps) > 0 {
		return model.Vehicle{}, fmt.Errorf("steps: pinning a vehicle's route via a forced steps list is not supported")
	}
	if rv.TimeWindow[0] >= rv.TimeWindow[1] && rv.TimeWindow != (rawTimeWindow{}) {
		return model.Vehicle{}, fmt.Errorf("time_window: start %d >= end %d", rv.TimeWindow[0], rv.TimeWindow[1])
	}
	tw := model.TimeWindow{Start: rv.TimeWindow[0], End: rv.TimeWindow[1]}
	if tw == (model.TimeWindow{}) {
		tw = model.Universal
	}
	breaks := make([]model.Break, len(rv.Breaks))
	for i, b := range rv.Breaks {
		var maxLoad *model.Amount
		if len(b.MaxLoad) > 0 {
			m := model.Amount(b.MaxLoad)
			maxLoad = &m
		}
		btw, err := toTimeWindows(b.TimeWindows)
		if err != nil {
			return model.Vehicle{}, fmt.Errorf("break %d: %w", b.ID, err)
		}
		breaks[i] = model.Break{
			ID: b.ID, TimeWindows: btw, Service: b.Service,
			MaxLoad: maxLoad, Description: b.Description,
		}
	}
	speedFactor := rv.SpeedFactor
	if speedFactor == 0 {
		speedFactor = 1
	}
	return model.Vehicle{
		ID: rv.ID, Start: start, End: end, Profile: profile, Capacity: model.Amount(rv.Capacity),
		Skills: model.SkillSet(rv.Skills), TimeWindow: tw, Breaks: breaks, Description: rv.Description,
		Cost: model.VehicleCost{Fixed: rv.Cost.Fixed, PerHour: rv.Cost.PerHour, PerKm: rv.Cost.PerKm},
		SpeedFactor: speedFactor, MaxTasks: rv.MaxTasks, MaxTravelTime: rv.MaxTravelTime, MaxDistance: rv.MaxDistance,
	}, nil
}

func buildMatrixSet(raw rawInput, locationCount int) (*matrix.Set, error) {
	if len(raw.Matrices) == 0 && len(raw.Matrix) == 0 {
		return nil, nil
	}
	profiles := make(map[string]rawMatrixProfile, len(raw.Matrices))
	for name, p := range raw.Matrices {
		profiles[name] = p
	}
	if len(raw.Matrix) > 0 {
		if _, exists := profiles[defaultProfile]; !exists {
			profiles[defaultProfile] = rawMatrixProfile{Durations: raw.Matrix}
		}
	}
	built := make([]*matrix.Profile, 0, len(profiles))
	for name, p := range profiles {
		durations, err := toTable(p.Durations, locationCount, name, "durations")
		if err != nil {
			return nil, err
		}
		// An absent distances table defaults to all-zero rather than
		// aliasing durations: durations are seconds and distances are
		// meters, so reusing one as the other would feed per_km costs
		// and MaxDistance checks a number in the wrong unit.
		distances := matrix.NewTable(locationCount)
		if len(p.Distances) > 0 {
			distances, err = toTable(p.Distances, locationCount, name, "distances")
			if err != nil {
				return nil, err
			}
		}
		var costs *matrix.Table
		if len(p.Costs) > 0 {
			costs, err = toTable(p.Costs, locationCount, name, "costs")
			if err != nil {
				return nil, err
			}
		}
		built = append(built, &matrix.Profile{Name: name, Durations: durations, Distances: distances, Costs: costs})
	}
	return matrix.NewSet(built...), nil
}

func toTable(rows [][]int64, n int, profile, field string) (*matrix.Table, error) {
	if len(rows) != n {
		return nil, fmt.Errorf("profile %q %s: expected %d rows, got %d", profile, field, n, len(rows))
	}
	t := matrix.NewTable(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("profile %q %s: row %d has %d entries, want %d", profile, field, i, len(row), n)
		}
		for j, v := range row {
			t.Set(i, j, v)
		}
	}
	return t, nil
}
