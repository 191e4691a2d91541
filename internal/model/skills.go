package model

// SkillSet is a small set of skill tags. Vehicles and jobs rarely carry more
// than a handful of skills, so a small unsorted slice with linear subset tests is
// both simpler and faster in practice than a map.
type SkillSet []uint32

// Subset reports whether every skill in s is present in other (s ⊆ other).
func (s SkillSet) Subset(other SkillSet) bool {
	for _, need := range s {
		found := false
		for _, have := range other {
			if need == have {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
