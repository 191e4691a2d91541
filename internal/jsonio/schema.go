// Package jsonio is the pure JSON <-> internal/model translation layer
// spec.md §6 describes: it owns the problem input schema (jobs,
// shipments, vehicles, matrices) and the solution output schema (code,
// summary, unassigned, routes). It never imports net/http — fetching
// matrices from a routing backend is internal/routingclient's job.
package jsonio

import "encoding/json"

// rawLocation accepts either an [lon, lat] pair or a pre-resolved matrix
// index; both may be given, exactly one must be well-formed input jobs
// and vehicles rely on.
type rawLocation struct {
	Coords *[2]float64 `json:"location,omitempty"`
	Index  *int        `json:"location_index,omitempty"`
}

type rawTimeWindow [2]int64

type rawJob struct {
	ID          uint64          `json:"id"`
	Location    *[2]float64     `json:"location,omitempty"`
	LocationIdx *int            `json:"location_index,omitempty"`
	Setup       int64           `json:"setup"`
	Service     int64           `json:"service"`
	Delivery    []int64         `json:"delivery"`
	Pickup      []int64         `json:"pickup"`
	Skills      []uint32        `json:"skills"`
	Priority    int             `json:"priority"`
	TimeWindows []rawTimeWindow `json:"time_windows"`
	Description string          `json:"description"`
}

type rawShipmentLeg struct {
	ID          uint64          `json:"id"`
	Location    *[2]float64     `json:"location,omitempty"`
	LocationIdx *int            `json:"location_index,omitempty"`
	Setup       int64           `json:"setup"`
	Service     int64           `json:"service"`
	TimeWindows []rawTimeWindow `json:"time_windows"`
	Description string          `json:"description"`
}

type rawShipment struct {
	Pickup   rawShipmentLeg `json:"pickup"`
	Delivery rawShipmentLeg `json:"delivery"`
	Amount   []int64        `json:"amount"`
	Skills   []uint32       `json:"skills"`
	Priority int            `json:"priority"`
}

type rawBreak struct {
	ID          uint64          `json:"id"`
	TimeWindows []rawTimeWindow `json:"time_windows"`
	Service     int64           `json:"service"`
	MaxLoad     []int64         `json:"max_load,omitempty"`
	Description string          `json:"description"`
}

type rawCost struct {
	Fixed   int64 `json:"fixed"`
	PerHour int64 `json:"per_hour"`
	PerKm   int64 `json:"per_km"`
}

type rawVehicle struct {
	ID            uint64          `json:"id"`
	Start         *[2]float64     `json:"start,omitempty"`
	StartIdx      *int            `json:"start_index,omitempty"`
	End           *[2]float64     `json:"end,omitempty"`
	EndIdx        *int            `json:"end_index,omitempty"`
	Profile       string          `json:"profile"`
	Capacity      []int64         `json:"capacity"`
	Skills        []uint32        `json:"skills"`
	TimeWindow    rawTimeWindow   `json:"time_window"`
	Breaks        []rawBreak      `json:"breaks"`
	Description   string          `json:"description"`
	Cost          rawCost         `json:"cost"`
	SpeedFactor   float64         `json:"speed_factor"`
	MaxTasks      *int            `json:"max_tasks,omitempty"`
	MaxTravelTime *int64          `json:"max_travel_time,omitempty"`
	MaxDistance   *int64          `json:"max_distance,omitempty"`
	// Steps is parsed only far enough to detect and reject a pinned-route
	// request (spec.md §3, §6): this build does not honor prefix/suffix/
	// precedence pinning, so a non-empty list is an input error rather
	// than a silently ignored field.
	Steps []json.RawMessage `json:"steps"`
}

type rawMatrixProfile struct {
	Durations [][]int64 `json:"durations"`
	Distances [][]int64 `json:"distances"`
	Costs     [][]int64 `json:"costs,omitempty"`
}

// rawInput is the full top-level problem document (spec.md §6).
type rawInput struct {
	Jobs      []rawJob                    `json:"jobs"`
	Shipments []rawShipment               `json:"shipments"`
	Vehicles  []rawVehicle                `json:"vehicles"`
	Matrices  map[string]rawMatrixProfile `json:"matrices"`
	Matrix    [][]int64                   `json:"matrix,omitempty"` // deprecated alias
}

// Output schema (spec.md §6): {code, summary, unassigned, routes}.

type Summary struct {
	Cost       int64 `json:"cost"`
	Duration   int64 `json:"duration"`
	Distance   int64 `json:"distance"`
	Routes     int   `json:"routes"`
	Unassigned int   `json:"unassigned"`
}

type UnassignedEntry struct {
	ID          uint64 `json:"id"`
	Description string `json:"description,omitempty"`
}

type StepOut struct {
	Type        string `json:"type"`
	ID          uint64 `json:"id,omitempty"`
	Location    *int   `json:"location,omitempty"`
	Arrival     int64  `json:"arrival"`
	Duration    int64  `json:"duration"`
	Service     int64  `json:"service"`
	WaitingTime int64  `json:"waiting_time"`
	Load        []int64 `json:"load"`
}

type RouteOut struct {
	Vehicle  uint64    `json:"vehicle"`
	Steps    []StepOut `json:"steps"`
	Cost     int64     `json:"cost"`
	Duration int64     `json:"duration"`
	Distance int64     `json:"distance"`
	Geometry string    `json:"geometry,omitempty"`
}

// Output is the top-level solution document.
type Output struct {
	Code       string            `json:"code"`
	Error      string            `json:"error,omitempty"`
	Summary    Summary           `json:"summary"`
	Unassigned []UnassignedEntry `json:"unassigned"`
	Routes     []RouteOut        `json:"routes"`
}
