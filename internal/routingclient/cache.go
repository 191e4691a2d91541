package routingclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// cache stores a fetched matrix payload keyed by profile+coordinate set,
// so a repeated solve (or a retried request) against the same locations
// never re-hits the routing backend (spec.md §6.2, supplemented).
type cache interface {
	get(ctx context.Context, key string) ([]byte, bool)
	set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type cachedMatrix struct {
	Durations [][]int64 `json:"durations"`
	Distances [][]int64 `json:"distances"`
}

// cacheKey hashes the profile name and the full coordinate list so two
// requests over the same locations, regardless of caller, share a cache
// entry; sorting isn't needed since row/column order is meaningful for a
// matrix (unlike a plain set membership key).
func cacheKey(profile string, coords [][2]float64) string {
	h := sha256.New()
	h.Write([]byte(profile))
	for _, c := range coords {
		var b [16]byte
		putFloat(b[:8], c[0])
		putFloat(b[8:], c[1])
		h.Write(b[:])
	}
	return "vroom:matrix:" + hex.EncodeToString(h.Sum(nil))
}

func putFloat(b []byte, v float64) {
	bits := int64(v * 1e6)
	for i := 0; i < 8; i++ {
		b[i] = byte(bits >> (8 * i))
	}
}

// memoryCache is the in-process fallback used when no Redis URL is
// configured. Entries never expire within a single solver process's
// lifetime unless ttl is set, since a process only ever solves problems
// it was launched with.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryCacheEntry
}

type memoryCacheEntry struct {
	value   []byte
	expires time.Time
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]memoryCacheEntry)}
}

func (c *memoryCache) get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *memoryCache) set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	c.entries[key] = memoryCacheEntry{value: value, expires: expires}
}

// redisCache shares fetched matrices across every solver process pointed
// at the same Redis instance, so a fleet of vroom workers behind a load
// balancer doesn't each pay for the same OSRM/ORS call.
type redisCache struct {
	rdb *redis.Client
}

func newRedisCache(url string) (*redisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &redisCache{rdb: redis.NewClient(opt)}, nil
}

func (c *redisCache) get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *redisCache) set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	_ = c.rdb.Set(ctx, key, value, ttl).Err()
}

func encodeMatrix(durations, distances [][]int64) ([]byte, error) {
	return json.Marshal(cachedMatrix{Durations: durations, Distances: distances})
}

func decodeMatrix(data []byte) ([][]int64, [][]int64, error) {
	var m cachedMatrix
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil, err
	}
	return m.Durations, m.Distances, nil
}

// sortedProfiles is a small helper so Client.FetchSet's iteration order
// (and therefore any log output) is deterministic across runs.
func sortedProfiles(names map[string]struct{}) []string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
