package services

import (
	"cmp"
	"context"
	"slices"

	"charging-route-service/internal/domain"
	"charging-route-service/internal/ports"
	"charging-route-service/internal/spatial"
)

// NearbyFinder lists the stations reachable from a point within a range.
type NearbyFinder struct {
	index          *spatial.Index
	oracle         ports.DistanceOracle
	batchThreshold int
}

func NewNearbyFinder(index *spatial.Index, oracle ports.DistanceOracle, batchThreshold int) *NearbyFinder {
	if batchThreshold <= 0 {
		batchThreshold = 5
	}
	return &NearbyFinder{index: index, oracle: oracle, batchThreshold: batchThreshold}
}

// FindNearby returns the indexed stations whose road distance from p is at
// most maxRangeKm, ascending by that distance. The great-circle radius query
// only narrows the candidates; the road distance decides.
func (f *NearbyFinder) FindNearby(ctx context.Context, p domain.Point, maxRangeKm float64) []domain.Neighbor {
	candidates := f.index.RadiusQuery(p, maxRangeKm)
	if len(candidates) == 0 {
		return []domain.Neighbor{}
	}

	out := make([]domain.Neighbor, 0, len(candidates))

	if len(candidates) <= f.batchThreshold {
		for _, c := range candidates {
			km, r := f.oracle.RoadDistance(ctx, p, c.Station.Point())
			if km <= maxRangeKm {
				out = append(out, domain.Neighbor{Station: c.Station, DistanceKm: km, Result: r})
			}
		}
	} else {
		dests := make([]domain.Point, len(candidates))
		for i, c := range candidates {
			dests[i] = c.Station.Point()
		}

		kms := f.oracle.BatchDistances(ctx, p, dests)
		for i, c := range candidates {
			if i >= len(kms) || kms[i] > maxRangeKm {
				continue
			}
			// Table responses carry no geometry.
			_, r := f.oracle.RoadDistance(ctx, p, dests[i])
			out = append(out, domain.Neighbor{Station: c.Station, DistanceKm: kms[i], Result: r})
		}
	}

	slices.SortStableFunc(out, func(a, b domain.Neighbor) int {
		if c := cmp.Compare(a.DistanceKm, b.DistanceKm); c != 0 {
			return c
		}
		return cmp.Compare(a.Station.ID, b.Station.ID)
	})
	return out
}
