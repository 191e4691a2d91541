package feasibility

import "vroom/internal/model"

// Skills reports whether job.Skills ⊆ vehicle.Skills (spec.md §4.2).
func Skills(job model.Job, vehicle model.Vehicle) bool {
	return job.Skills.Subset(vehicle.Skills)
}
