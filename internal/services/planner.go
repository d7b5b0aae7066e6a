package services

import (
	"context"
	"errors"
	"fmt"

	"charging-route-service/internal/adapters/cache"
	"charging-route-service/internal/domain"
	"charging-route-service/internal/platform/logger"
	"charging-route-service/internal/platform/obs"
	"charging-route-service/internal/ports"
	"charging-route-service/internal/spatial"
)

// MaintenanceScope selects where stations under maintenance are excluded.
type MaintenanceScope string

const (
	// Maintenance stations cannot anchor a route but may be intermediate hops.
	MaintenanceAnchors MaintenanceScope = "anchors"
	// Maintenance stations are excluded from anchoring and from expansion.
	MaintenanceAll MaintenanceScope = "all"
)

type Options struct {
	DefaultRangeKm     float64
	BatchThreshold     int
	NearestCandidates  int
	ChargingMinPerStop float64
	FallbackMinPerKm   float64
	MaintenanceScope   MaintenanceScope
}

func (o *Options) SetDefaults() {
	if o.DefaultRangeKm <= 0 {
		o.DefaultRangeKm = 20
	}
	if o.BatchThreshold <= 0 {
		o.BatchThreshold = 5
	}
	if o.NearestCandidates <= 0 {
		o.NearestCandidates = 5
	}
	if o.ChargingMinPerStop <= 0 {
		o.ChargingMinPerStop = 30
	}
	if o.FallbackMinPerKm <= 0 {
		o.FallbackMinPerKm = 1.5
	}
	if o.MaintenanceScope == "" {
		o.MaintenanceScope = MaintenanceAnchors
	}
}

type PlanRequest struct {
	Origin      domain.Point
	Destination domain.Point
	// Zero selects Options.DefaultRangeKm.
	RangeKm float64
}

// Planner serves one request against one snapshot of stations. It owns its
// distance cache, spatial index and oracle; build a new Planner per request.
type Planner struct {
	stations []domain.Station
	opts     Options
	oracle   *Oracle
	cache    *cache.DistanceCache
	index    *spatial.Index
	finder   *NearbyFinder
	selector *NearestSelector
	routes   *RoutePlanner
	summary  *SummaryBuilder
	log      logger.Logger
}

// NewPlanner wires a planner over stations. A nil routing client makes every
// distance a great-circle estimate.
func NewPlanner(stations []domain.Station, routing ports.RoutingClient, opts Options, log logger.Logger) *Planner {
	opts.SetDefaults()
	if log == nil {
		log = logger.NopLogger{}
	}

	distances := cache.NewDistanceCache()
	oracle := NewOracle(routing, distances, OracleOptions{
		BatchThreshold:   opts.BatchThreshold,
		FallbackMinPerKm: opts.FallbackMinPerKm,
	}, log)

	var indexOpts []spatial.Option
	if opts.MaintenanceScope == MaintenanceAll {
		indexOpts = append(indexOpts, spatial.ExcludeMaintenance())
	}
	index := spatial.New(stations, indexOpts...)

	finder := NewNearbyFinder(index, oracle, opts.BatchThreshold)
	selector := NewNearestSelector(stations, oracle, opts.NearestCandidates)

	return &Planner{
		stations: stations,
		opts:     opts,
		oracle:   oracle,
		cache:    distances,
		index:    index,
		finder:   finder,
		selector: selector,
		routes:   NewRoutePlanner(stations, selector, finder, log),
		summary:  NewSummaryBuilder(oracle, opts.ChargingMinPerStop),
		log:      log,
	}
}

// Optimize plans a charging itinerary from origin to destination.
func (p *Planner) Optimize(ctx context.Context, req PlanRequest) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, p.log, "planner.Optimize")(&err)
	defer func() {
		obs.PlanOutcome(planOutcome(err))
		p.log.Debugw("plan finished", map[string]any{
			"req_id":        obs.RequestID(ctx),
			"outcome":       planOutcome(err),
			"indexed":       p.index.Len(),
			"cache_entries": p.cache.Len(),
			"cache_hits":    p.cache.Hits(),
			"cache_misses":  p.cache.Misses(),
		})
	}()

	if !req.Origin.Valid() || !req.Destination.Valid() {
		return nil, fmt.Errorf("optimize: coordinates out of range: origin=%v destination=%v", req.Origin, req.Destination)
	}

	rangeKm := req.RangeKm
	if rangeKm == 0 {
		rangeKm = p.opts.DefaultRangeKm
	}

	hops, err := p.routes.PlanRoute(ctx, req.Origin, req.Destination, rangeKm)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	plan, err := p.summary.Summarize(ctx, hops, req.Origin, req.Destination)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	return plan, nil
}

// NearestStation returns the road-nearest station matching filter.
func (p *Planner) NearestStation(ctx context.Context, pt domain.Point, filter domain.StationFilter) (domain.Neighbor, error) {
	n, err := p.selector.SelectNearest(ctx, pt, filter)
	if err != nil {
		return domain.Neighbor{}, fmt.Errorf("nearest station: %w", err)
	}
	return n, nil
}

// NearbyStations lists the stations within radiusKm of road distance.
func (p *Planner) NearbyStations(ctx context.Context, pt domain.Point, radiusKm float64) ([]domain.Neighbor, error) {
	if radiusKm <= 0 {
		return nil, fmt.Errorf("nearby stations: radius must be positive; got %v", radiusKm)
	}
	if !p.hasAvailable() {
		return nil, fmt.Errorf("nearby stations: %w", domain.ErrNoAvailableStations)
	}
	return p.finder.FindNearby(ctx, pt, radiusKm), nil
}

// StationsAlongRoute returns the charging stops between origin and
// destination at the default vehicle range, without a trip summary.
func (p *Planner) StationsAlongRoute(ctx context.Context, origin, dest domain.Point) ([]domain.Hop, error) {
	if !origin.Valid() || !dest.Valid() {
		return nil, fmt.Errorf("stations along route: coordinates out of range: origin=%v destination=%v", origin, dest)
	}
	hops, err := p.routes.PlanRoute(ctx, origin, dest, p.opts.DefaultRangeKm)
	if err != nil {
		return nil, fmt.Errorf("stations along route: %w", err)
	}
	return hops, nil
}

// DirectRoute resolves the single leg between two points.
func (p *Planner) DirectRoute(ctx context.Context, from, to domain.Point) domain.DistanceResult {
	_, r := p.oracle.RoadDistance(ctx, from, to)
	return r
}

func (p *Planner) hasAvailable() bool {
	for _, s := range p.stations {
		if s.IsAvailable {
			return true
		}
	}
	return false
}

func planOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNoAvailableStations):
		return "no_stations"
	case errors.Is(err, domain.ErrNoRouteFound):
		return "no_route"
	default:
		return "error"
	}
}
