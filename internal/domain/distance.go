package domain

import "encoding/json"

// DistanceSource records where a DistanceResult came from.
type DistanceSource string

const (
	SourceOracle   DistanceSource = "oracle"
	SourceFallback DistanceSource = "fallback"
)

// Cache key for a road distance lookup.
// Coordinates are compared exactly; no rounding is applied.
type DistanceQuery struct {
	Origin      Point
	Destination Point
}

// Road distance and travel duration between two points.
// Geometry is the routing service's path, passed through unmodified
// (nil when the result is a great-circle estimate).
type DistanceResult struct {
	DistanceKm  float64
	DurationMin float64
	Geometry    json.RawMessage
	Source      DistanceSource
}

// Neighbor is one reachability edge produced on demand during search.
type Neighbor struct {
	Station    Station
	DistanceKm float64
	Result     DistanceResult
}
