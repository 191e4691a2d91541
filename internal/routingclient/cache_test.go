package routingclient

import (
	"context"
	"testing"
	"time"
)

func TestCacheKeyIsDeterministic(t *testing.T) {
	coords := [][2]float64{{-120.2, 38.5}, {-120.95, 40.7}}
	a := cacheKey("car", coords)
	b := cacheKey("car", coords)
	if a != b {
		t.Fatalf("expected the same profile and coords to hash to the same key, got %q and %q", a, b)
	}
}

func TestCacheKeyDiffersByProfile(t *testing.T) {
	coords := [][2]float64{{-120.2, 38.5}, {-120.95, 40.7}}
	if cacheKey("car", coords) == cacheKey("bike", coords) {
		t.Fatal("expected different profiles to produce different cache keys")
	}
}

func TestCacheKeyDiffersByCoordinateOrder(t *testing.T) {
	a := [][2]float64{{-120.2, 38.5}, {-120.95, 40.7}}
	b := [][2]float64{{-120.95, 40.7}, {-120.2, 38.5}}
	if cacheKey("car", a) == cacheKey("car", b) {
		t.Fatal("expected row order to matter for a matrix cache key")
	}
}

func TestMemoryCacheGetSet(t *testing.T) {
	c := newMemoryCache()
	ctx := context.Background()
	if _, ok := c.get(ctx, "missing"); ok {
		t.Fatal("expected a miss on an empty cache")
	}
	c.set(ctx, "k", []byte("payload"), 0)
	got, ok := c.get(ctx, "k")
	if !ok || string(got) != "payload" {
		t.Fatalf("expected to read back the stored payload, got %q ok=%v", got, ok)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newMemoryCache()
	ctx := context.Background()
	c.set(ctx, "k", []byte("payload"), time.Nanosecond)
	time.Sleep(time.Millisecond)
	if _, ok := c.get(ctx, "k"); ok {
		t.Fatal("expected an expired entry to be evicted on read")
	}
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	c := newMemoryCache()
	ctx := context.Background()
	c.set(ctx, "k", []byte("payload"), 0)
	time.Sleep(time.Millisecond)
	if _, ok := c.get(ctx, "k"); !ok {
		t.Fatal("expected a zero TTL entry to never expire")
	}
}

func TestEncodeDecodeMatrixRoundTrip(t *testing.T) {
	durations := [][]int64{{0, 10}, {10, 0}}
	distances := [][]int64{{0, 100}, {100, 0}}
	data, err := encodeMatrix(durations, distances)
	if err != nil {
		t.Fatal(err)
	}
	gotDur, gotDist, err := decodeMatrix(data)
	if err != nil {
		t.Fatal(err)
	}
	if gotDur[0][1] != 10 || gotDist[1][0] != 100 {
		t.Fatalf("unexpected round-trip: durations=%v distances=%v", gotDur, gotDist)
	}
}

func TestSortedProfiles(t *testing.T) {
	in := map[string]struct{}{"truck": {}, "bike": {}, "car": {}}
	got := sortedProfiles(in)
	want := []string{"bike", "car", "truck"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
