package operator

import "vroom/internal/model"

// withSegmentRemoved returns a copy of steps with the segment
// [rank, rank+segLen) removed, plus the removed segment itself.
func withSegmentRemoved(steps []model.Step, rank, segLen int) (rest, removed []model.Step) {
	removed = append(removed, steps[rank:rank+segLen]...)
	rest = make([]model.Step, 0, len(steps)-segLen)
	rest = append(rest, steps[:rank]...)
	rest = append(rest, steps[rank+segLen:]...)
	return rest, removed
}

// withSegmentInserted returns a copy of steps with segment inserted before
// rank, reversing it first if reverse is set.
func withSegmentInserted(steps []model.Step, rank int, segment []model.Step, reverse bool) []model.Step {
	seg := segment
	if reverse {
		seg = reversedSteps(segment)
	}
	out := make([]model.Step, 0, len(steps)+len(seg))
	out = append(out, steps[:rank]...)
	out = append(out, seg...)
	out = append(out, steps[rank:]...)
	return out
}

func reversedSteps(steps []model.Step) []model.Step {
	out := make([]model.Step, len(steps))
	for i, s := range steps {
		out[len(steps)-1-i] = s
	}
	return out
}

// cloneSteps returns an independent copy of steps.
func cloneSteps(steps []model.Step) []model.Step {
	out := make([]model.Step, len(steps))
	copy(out, steps)
	return out
}
