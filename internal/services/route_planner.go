package services

import (
	"container/heap"
	"context"
	"fmt"
	"math"
	"slices"

	"charging-route-service/internal/domain"
	"charging-route-service/internal/platform/logger"
	"charging-route-service/internal/platform/obs"
)

// RoutePlanner finds the shortest chain of charging stations between the
// stations anchoring an origin and a destination, where each hop is at most
// one vehicle range of road distance.
//
// The reachability graph is never built: neighbors of a station come from
// the NearbyFinder when the station is first expanded.
type RoutePlanner struct {
	stations []domain.Station
	selector *NearestSelector
	finder   *NearbyFinder
	log      logger.Logger
}

func NewRoutePlanner(
	stations []domain.Station,
	selector *NearestSelector,
	finder *NearbyFinder,
	log logger.Logger,
) *RoutePlanner {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &RoutePlanner{stations: stations, selector: selector, finder: finder, log: log}
}

type queueItem struct {
	id   int64
	dist float64
}

type frontier []queueItem

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].id < f[j].id
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)   { *f = append(*f, x.(queueItem)) }
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	it := old[n-1]
	*f = old[:n-1]
	return it
}

// PlanRoute returns the stations to visit after leaving origin, in order.
// The start anchor is not part of the result; the destination anchor is its
// last element. Each Hop carries the leg used to reach its station.
func (p *RoutePlanner) PlanRoute(
	ctx context.Context,
	origin, dest domain.Point,
	rangeKm float64,
) (_ []domain.Hop, err error) {
	defer obs.Time(ctx, p.log, "planner.PlanRoute")(&err)

	if rangeKm <= 0 {
		return nil, fmt.Errorf("plan route: range must be positive; got %v", rangeKm)
	}

	available := 0
	for _, s := range p.stations {
		if s.IsAvailable {
			available++
		}
	}
	if available == 0 {
		return nil, fmt.Errorf("plan route: %w", domain.ErrNoAvailableStations)
	}

	start, err := p.selector.SelectNearest(ctx, origin, domain.StationFilter{})
	if err != nil {
		return nil, fmt.Errorf("plan route: anchor origin: %w", err)
	}
	end, err := p.selector.SelectNearest(ctx, dest, domain.StationFilter{})
	if err != nil {
		return nil, fmt.Errorf("plan route: anchor destination: %w", err)
	}

	if start.Station.ID == end.Station.ID {
		return []domain.Hop{{Station: end.Station, Leg: start.Result}}, nil
	}

	dist := map[int64]float64{start.Station.ID: 0}
	prev := make(map[int64]int64)
	legs := make(map[int64]domain.Hop)
	done := make(map[int64]bool)
	expanded := make(map[int64][]domain.Neighbor)

	stationByID := map[int64]domain.Station{start.Station.ID: start.Station}

	q := &frontier{{id: start.Station.ID, dist: 0}}
	heap.Init(q)

	for q.Len() > 0 {
		cur := heap.Pop(q).(queueItem)
		if done[cur.id] {
			continue
		}
		if d, ok := dist[cur.id]; ok && cur.dist > d {
			continue
		}
		done[cur.id] = true

		if cur.id == end.Station.ID {
			break
		}

		neighbors, ok := expanded[cur.id]
		if !ok {
			neighbors = p.finder.FindNearby(ctx, stationByID[cur.id].Point(), rangeKm)
			expanded[cur.id] = neighbors
		}

		for _, n := range neighbors {
			id := n.Station.ID
			if done[id] {
				continue
			}
			alt := cur.dist + n.DistanceKm
			if d, seen := dist[id]; seen && alt >= d {
				continue
			}
			dist[id] = alt
			prev[id] = cur.id
			legs[id] = domain.Hop{Station: n.Station, Leg: n.Result}
			stationByID[id] = n.Station
			heap.Push(q, queueItem{id: id, dist: alt})
		}
	}

	if d, ok := dist[end.Station.ID]; !ok || math.IsInf(d, 1) {
		return nil, fmt.Errorf("plan route: station %d unreachable from station %d within %v km: %w",
			end.Station.ID, start.Station.ID, rangeKm, domain.ErrNoRouteFound)
	}

	path := make([]domain.Hop, 0, 8)
	for id := end.Station.ID; id != start.Station.ID; id = prev[id] {
		path = append(path, legs[id])
	}
	slices.Reverse(path)

	p.log.Debugf("route planned: %d stations, %.2f km between anchors, %d expansions",
		len(path), dist[end.Station.ID], len(expanded))

	return path, nil
}
