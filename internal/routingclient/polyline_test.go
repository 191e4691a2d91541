package routingclient

import "testing"

func TestPolylineRoundTrip(t *testing.T) {
	points := [][2]float64{
		{-120.2, 38.5},
		{-120.95, 40.7},
		{-126.453, 43.252},
	}
	encoded := encodePolyline(points)
	if encoded == "" {
		t.Fatal("expected a non-empty encoded polyline")
	}
	decoded := decodePolyline(encoded)
	if len(decoded) != len(points) {
		t.Fatalf("expected %d points back, got %d", len(points), len(decoded))
	}
	for i, p := range points {
		if abs(p[0]-decoded[i][0]) > 1e-5 || abs(p[1]-decoded[i][1]) > 1e-5 {
			t.Fatalf("point %d: got %v, want %v", i, decoded[i], p)
		}
	}
}

func TestPolylineEmptyInput(t *testing.T) {
	if got := encodePolyline(nil); got != "" {
		t.Fatalf("expected empty input to encode to an empty string, got %q", got)
	}
	if got := decodePolyline(""); len(got) != 0 {
		t.Fatalf("expected an empty string to decode to no points, got %v", got)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
