package domain

import "errors"

var (
	// No stations exist, or none of them are available.
	ErrNoAvailableStations = errors.New("no available charging stations")
	// Filter predicates excluded every available station.
	ErrNoMatchingStation = errors.New("no available stations match the criteria")
	// The destination anchor is unreachable under the vehicle range.
	ErrNoRouteFound = errors.New("no valid route found between start and end points")
	// The routing service failed; always absorbed by the great-circle fallback.
	ErrOracleUnavailable = errors.New("routing oracle unavailable")
)
