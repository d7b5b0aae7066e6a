package services

import (
	"context"
	"fmt"

	"charging-route-service/internal/adapters/cache"
	"charging-route-service/internal/domain"
	"charging-route-service/internal/geo"
	"charging-route-service/internal/platform/logger"
	"charging-route-service/internal/platform/obs"
	"charging-route-service/internal/ports"
)

// OracleOptions tunes an Oracle. Zero values select the defaults.
type OracleOptions struct {
	// Destinations above this count are resolved with one table request.
	BatchThreshold int
	// Minutes per kilometer used for great-circle duration estimates.
	FallbackMinPerKm float64
}

func (o *OracleOptions) SetDefaults() {
	if o.BatchThreshold <= 0 {
		o.BatchThreshold = 5
	}
	if o.FallbackMinPerKm <= 0 {
		o.FallbackMinPerKm = 1.5
	}
}

// Oracle implements ports.DistanceOracle on top of a RoutingClient.
//
// Every lookup is cached for the Oracle's lifetime. Routing failures are
// logged and answered with a great-circle estimate, so callers never see an
// error. A nil RoutingClient puts the Oracle in fallback-only mode.
type Oracle struct {
	routing ports.RoutingClient
	cache   *cache.DistanceCache
	opts    OracleOptions
	log     logger.Logger
}

func NewOracle(routing ports.RoutingClient, c *cache.DistanceCache, opts OracleOptions, log logger.Logger) *Oracle {
	opts.SetDefaults()
	if c == nil {
		c = cache.NewDistanceCache()
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Oracle{routing: routing, cache: c, opts: opts, log: log}
}

// RoadDistance returns the road distance in km from one point to another
// along with the full result.
func (o *Oracle) RoadDistance(ctx context.Context, from, to domain.Point) (float64, domain.DistanceResult) {
	q := domain.DistanceQuery{Origin: from, Destination: to}
	if r, ok := o.cache.Get(q); ok {
		return r.DistanceKm, r
	}

	r := o.resolve(ctx, from, to)
	if err := o.cache.Put(q, r); err != nil {
		o.log.Warnf("road distance: %v", err)
	}
	return r.DistanceKm, r
}

// BatchDistances returns road distances in km from origin to each
// destination, in order. Destinations already in the cache are answered
// from it. When more than the batch threshold remain, they go out in a
// single table request; otherwise, or when the table fails, each is
// resolved on its own.
func (o *Oracle) BatchDistances(ctx context.Context, origin domain.Point, destinations []domain.Point) []float64 {
	if len(destinations) == 0 {
		return []float64{}
	}

	out := make([]float64, len(destinations))
	if o.routing == nil || len(destinations) <= o.opts.BatchThreshold {
		for i, d := range destinations {
			out[i], _ = o.RoadDistance(ctx, origin, d)
		}
		return out
	}

	cached := o.cache.GetMany(origin, destinations)
	misses := make([]domain.Point, 0, len(destinations)-len(cached))
	missIdx := make([]int, 0, cap(misses))
	for i, d := range destinations {
		if r, ok := cached[d]; ok {
			out[i] = r.DistanceKm
			continue
		}
		misses = append(misses, d)
		missIdx = append(missIdx, i)
	}

	if len(misses) > o.opts.BatchThreshold {
		km, err := o.routing.Table(context.WithoutCancel(ctx), origin, misses)
		if err == nil && len(km) == len(misses) {
			for j, i := range missIdx {
				out[i] = km[j]
			}
			return out
		}
		if err == nil {
			err = fmt.Errorf("table returned %d distances for %d destinations", len(km), len(misses))
		}
		o.log.Warnf("batch distances from %v: %v: resolving %d destinations one by one",
			origin, fmt.Errorf("%w: %w", domain.ErrOracleUnavailable, err), len(misses))
		obs.OracleFallback("table_error")
	}

	for _, i := range missIdx {
		out[i], _ = o.RoadDistance(ctx, origin, destinations[i])
	}
	return out
}

// Routing requests ignore caller cancellation and are bounded only by the
// routing client's own timeout.
func (o *Oracle) resolve(ctx context.Context, from, to domain.Point) domain.DistanceResult {
	if o.routing == nil {
		obs.OracleFallback("disabled")
		return o.estimate(from, to)
	}

	r, err := o.routing.Route(context.WithoutCancel(ctx), from, to)
	if err != nil {
		o.log.With("req_id", obs.RequestID(ctx)).Warnf("road distance %v -> %v: %v: using great-circle estimate",
			from, to, fmt.Errorf("%w: %w", domain.ErrOracleUnavailable, err))
		obs.OracleFallback("route_error")
		return o.estimate(from, to)
	}
	return r
}

func (o *Oracle) estimate(from, to domain.Point) domain.DistanceResult {
	km := geo.HaversineKm(from, to)
	return domain.DistanceResult{
		DistanceKm:  km,
		DurationMin: km * o.opts.FallbackMinPerKm,
		Source:      domain.SourceFallback,
	}
}
