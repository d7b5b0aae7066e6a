package ports

import (
	"context"

	"charging-route-service/internal/domain"
)

// Contract for the external road-routing service.
// Implementations return errors; callers decide how to degrade.
type RoutingClient interface {
	// Return road distance, duration and geometry between two points.
	Route(ctx context.Context, from, to domain.Point) (domain.DistanceResult, error)
	// Return road distances in kilometers from one origin to many destinations,
	// in destination order. Unreachable destinations are +Inf.
	Table(ctx context.Context, origin domain.Point, destinations []domain.Point) ([]float64, error)
}

// Contract for distance lookups used by the planner.
// Implementations never fail: routing errors degrade to a great-circle estimate.
type DistanceOracle interface {
	RoadDistance(ctx context.Context, from, to domain.Point) (float64, domain.DistanceResult)
	BatchDistances(ctx context.Context, origin domain.Point, destinations []domain.Point) []float64
}
