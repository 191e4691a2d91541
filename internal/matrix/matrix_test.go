package matrix

import "testing"

func TestHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		num, den, want int64
	}{
		{5, 2, 3},   // 2.5 -> 3
		{-5, 2, -3}, // -2.5 -> -3
		{4, 2, 2},
		{7, 2, 4}, // 3.5 -> 4
		{0, 5, 0},
	}
	for _, c := range cases {
		if got := HalfAwayFromZero(c.num, c.den); got != c.want {
			t.Errorf("HalfAwayFromZero(%d,%d) = %d, want %d", c.num, c.den, got, c.want)
		}
	}
}

func TestSynthesizeCost(t *testing.T) {
	durations := NewTable(2)
	durations.Set(0, 1, 3600) // 1 hour
	distances := NewTable(2)
	distances.Set(0, 1, 1000) // 1 km
	costs := SynthesizeCost(durations, distances, 10, 5) // 10/hr + 5/km
	if got := costs.Get(0, 1); got != 15 {
		t.Fatalf("got cost %d, want 15", got)
	}
}

func TestTableRoundTrip(t *testing.T) {
	tab := NewTable(3)
	tab.Set(1, 2, 42)
	if got := tab.Get(1, 2); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
	if got := tab.Get(0, 0); got != 0 {
		t.Fatalf("expected zero-initialized entry, got %d", got)
	}
}

func TestSetUnknownProfile(t *testing.T) {
	s := NewSet(&Profile{Name: "car", Durations: NewTable(1), Distances: NewTable(1)})
	if _, err := s.Profile("truck"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}
