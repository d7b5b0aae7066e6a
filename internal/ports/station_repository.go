package ports

import (
	"context"

	"charging-route-service/internal/domain"
)

// Port: a boundary for retrieving station snapshots from a data source.
type StationRepository interface {
	// Retrieve available stations with their charging configurations.
	ListAvailableStations(ctx context.Context) ([]domain.Station, error)
}
