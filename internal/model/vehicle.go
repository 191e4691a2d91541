package model

// VehicleCost carries the fixed activation cost plus the per-hour and
// per-km rates used both to synthesize a cost matrix when none is supplied
// and to scalarize a route's travel cost in the objective.
type VehicleCost struct {
	Fixed   int64
	PerHour int64
	PerKm   int64
}

// Break is a vehicle-bound rest event: a job-like entity with its own time
// windows and service time, optionally capped by a maximum load allowed to
// be on board when the break starts.
type Break struct {
	ID          uint64
	TimeWindows TimeWindows
	Service     int64
	MaxLoad     *Amount
	Description string
}

// Vehicle is a fleet member: optional start/end location, a profile tag
// selecting a travel-matrix set, a capacity vector, a skill set, a single
// shift window, an ordered list of breaks, cost parameters, a speed factor
// and optional maxima on task count / travel time / distance.
//
// A vehicle's route is never pinned by an input-supplied prefix/suffix/
// precedence steps list; this build treats that field as unsupported and
// rejects it at decode time (spec.md §7) rather than parsing it into a
// field nothing downstream reads.
type Vehicle struct {
	ID            uint64
	Start         *Location
	End           *Location
	Profile       string
	Capacity      Amount
	Skills        SkillSet
	TimeWindow    TimeWindow
	Breaks        []Break
	Cost          VehicleCost
	SpeedFactor   float64
	MaxTasks      *int
	MaxTravelTime *int64
	MaxDistance   *int64
	Description   string
}

// AmountSize returns the capacity vector's length, which must equal the
// fleet's common amount size.
func (v Vehicle) AmountSize() int { return len(v.Capacity) }
