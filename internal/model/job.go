package model

// JobKind distinguishes a standalone task from one half of a shipment.
type JobKind int

const (
	JobSingle JobKind = iota
	JobPickup
	JobDelivery
)

func (k JobKind) String() string {
	switch k {
	case JobPickup:
		return "pickup"
	case JobDelivery:
		return "delivery"
	default:
		return "single"
	}
}

// Job is a stable, index-addressed task. Pickup/delivery jobs are paired:
// PairIndex points at the other half of the shipment (into Input.Jobs), and
// is -1 for single jobs.
type Job struct {
	ID          uint64
	Location    Location
	Pickup      Amount
	Delivery    Amount
	Setup       int64
	Service     int64
	TimeWindows TimeWindows
	Skills      SkillSet
	Priority    int
	Kind        JobKind
	PairIndex   int
	Description string
}

// AmountDelta is the signed load change a vehicle experiences while
// carrying this job: +Pickup for a pickup/single-pickup-like job and
// -Delivery for a delivery, or Pickup-Delivery combined for a single job
// carrying both (single jobs may specify both vectors per spec.md §6).
func (j Job) AmountDelta() Amount {
	return j.Pickup.Sub(j.Delivery)
}
