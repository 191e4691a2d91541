package model

// Location identifies a point either by a matrix index, a coordinate pair,
// or both. After input normalization every Location carries a valid Index
// in [0, N) where N is the total number of distinct locations across jobs
// and vehicle start/end points.
type Location struct {
	Index int
	Lon   float64
	Lat   float64
	HasCoords bool
}
