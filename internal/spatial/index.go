// Package spatial indexes station coordinates for great-circle radius and
// nearest-neighbour queries.
//
// Coordinates are converted to radians and projected onto the unit sphere.
// Straight-line (chord) distance between two unit vectors is a monotonic
// function of the central angle, so a Euclidean kd-tree over those vectors
// answers haversine queries exactly.
package spatial

import (
	"cmp"
	"math"
	"slices"

	"charging-route-service/internal/domain"
	"charging-route-service/internal/geo"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// Candidate is a station returned by a spatial query with its great-circle distance.
type Candidate struct {
	Station       domain.Station
	GreatCircleKm float64
}

type Option func(*Index)

// ExcludeMaintenance drops stations flagged for maintenance from the index.
func ExcludeMaintenance() Option {
	return func(ix *Index) { ix.excludeMaintenance = true }
}

// Index is a read-only spatial structure over available stations.
// It is not safe for concurrent Refresh and query calls.
type Index struct {
	excludeMaintenance bool
	stations           []domain.Station
	tree               *kdtree.Tree
}

func New(stations []domain.Station, opts ...Option) *Index {
	ix := &Index{}
	for _, opt := range opts {
		opt(ix)
	}
	ix.Refresh(stations)
	return ix
}

// Refresh rebuilds the index from a new station snapshot.
func (ix *Index) Refresh(stations []domain.Station) {
	filtered := make([]domain.Station, 0, len(stations))
	for _, s := range stations {
		if !s.IsAvailable {
			continue
		}
		if ix.excludeMaintenance && s.IsMaintenance {
			continue
		}
		filtered = append(filtered, s)
	}
	ix.stations = filtered

	if len(ix.stations) == 0 {
		ix.tree = nil
		return
	}

	pts := make(points, len(ix.stations))
	for i, s := range ix.stations {
		pts[i] = point{vec: unitVector(s.Point()), idx: i}
	}
	ix.tree = kdtree.New(pts, false)
}

// Len returns the number of indexed stations.
func (ix *Index) Len() int { return len(ix.stations) }

// RadiusQuery returns every indexed station whose great-circle distance from p
// is at most radiusKm, ascending by distance.
func (ix *Index) RadiusQuery(p domain.Point, radiusKm float64) []Candidate {
	if ix.tree == nil || radiusKm < 0 {
		return []Candidate{}
	}

	keeper := kdtree.NewDistKeeper(chordSquared(radiusKm))
	ix.tree.NearestSet(keeper, point{vec: unitVector(p), idx: -1})

	out := make([]Candidate, 0, keeper.Len())
	for _, c := range keeper.Heap {
		if c.Comparable == nil {
			continue
		}
		s := ix.stations[c.Comparable.(point).idx]
		d := geo.HaversineKm(p, s.Point())
		if d > radiusKm {
			continue
		}
		out = append(out, Candidate{Station: s, GreatCircleKm: d})
	}
	sortCandidates(out)
	return out
}

// KNearest returns up to k indexed stations closest to p by great-circle distance.
func (ix *Index) KNearest(p domain.Point, k int) []Candidate {
	if ix.tree == nil || k <= 0 {
		return []Candidate{}
	}

	keeper := kdtree.NewNKeeper(k)
	ix.tree.NearestSet(keeper, point{vec: unitVector(p), idx: -1})

	out := make([]Candidate, 0, k)
	for _, c := range keeper.Heap {
		if c.Comparable == nil {
			continue
		}
		s := ix.stations[c.Comparable.(point).idx]
		out = append(out, Candidate{Station: s, GreatCircleKm: geo.HaversineKm(p, s.Point())})
	}
	sortCandidates(out)
	return out
}

func sortCandidates(cs []Candidate) {
	slices.SortFunc(cs, func(a, b Candidate) int {
		if c := cmp.Compare(a.GreatCircleKm, b.GreatCircleKm); c != 0 {
			return c
		}
		return cmp.Compare(a.Station.ID, b.Station.ID)
	})
}

// chordSquared converts a surface radius into the squared chord length
// on the unit sphere. A small slack keeps boundary points in the result;
// RadiusQuery re-checks them with the haversine distance.
func chordSquared(radiusKm float64) float64 {
	theta := geo.CentralAngle(radiusKm)
	if theta >= math.Pi {
		return 4 + 1e-9
	}
	chord := 2 * math.Sin(theta/2)
	return chord*chord + 1e-12
}

func unitVector(p domain.Point) [3]float64 {
	lat := geo.Radians(p.Lat)
	lon := geo.Radians(p.Lon)
	return [3]float64{
		math.Cos(lat) * math.Cos(lon),
		math.Cos(lat) * math.Sin(lon),
		math.Sin(lat),
	}
}
