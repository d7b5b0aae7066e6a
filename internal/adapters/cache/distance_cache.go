package cache

import (
	"fmt"

	"charging-route-service/internal/domain"
	"charging-route-service/internal/platform/obs"

	"github.com/bluele/gcache"
)

// DistanceCache holds the distance results resolved during one planning
// call. Keys are exact (origin, destination) coordinate pairs; nothing is
// evicted, so a key once resolved keeps returning the same result.
type DistanceCache struct {
	store gcache.Cache
}

func NewDistanceCache() *DistanceCache {
	return &DistanceCache{store: gcache.New(0).Simple().Build()}
}

// Get returns the cached result for q and whether it was present.
func (c *DistanceCache) Get(q domain.DistanceQuery) (domain.DistanceResult, bool) {
	v, err := c.store.Get(q)
	if err != nil {
		obs.CacheLookup(false)
		return domain.DistanceResult{}, false
	}

	r, ok := v.(domain.DistanceResult)
	obs.CacheLookup(ok)
	return r, ok
}

// GetMany returns the cached results for origin to each destination that is
// already resolved. Missing destinations are absent from the map.
func (c *DistanceCache) GetMany(origin domain.Point, destinations []domain.Point) map[domain.Point]domain.DistanceResult {
	out := make(map[domain.Point]domain.DistanceResult, len(destinations))
	for _, d := range destinations {
		if r, ok := c.Get(domain.DistanceQuery{Origin: origin, Destination: d}); ok {
			out[d] = r
		}
	}
	return out
}

// Put stores r under q. Existing entries are kept.
func (c *DistanceCache) Put(q domain.DistanceQuery, r domain.DistanceResult) error {
	if r.DistanceKm < 0 || r.DurationMin < 0 {
		return fmt.Errorf("put distance cache: negative result for %v -> %v", q.Origin, q.Destination)
	}
	if c.store.Has(q) {
		return nil
	}
	if err := c.store.Set(q, r); err != nil {
		return fmt.Errorf("put distance cache: %w", err)
	}
	return nil
}

func (c *DistanceCache) Len() int {
	return c.store.Len(false)
}

func (c *DistanceCache) Hits() uint64 { return c.store.HitCount() }

func (c *DistanceCache) Misses() uint64 { return c.store.MissCount() }
