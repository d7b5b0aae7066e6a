package repositories

import (
	"context"
	"errors"
	"fmt"

	"charging-route-service/internal/domain"
)

// File-backed implementation of the StationRepository port.
// The file is read on every call so edits are picked up without a restart.
type JSONStationRepository struct{ Path string }

func NewJSONStationRepository(path string) *JSONStationRepository {
	return &JSONStationRepository{Path: path}
}

func (r *JSONStationRepository) ListAvailableStations(ctx context.Context) ([]domain.Station, error) {
	if r.Path == "" {
		return nil, errors.New("json station repository: path is empty")
	}

	all, err := ReadStationFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}

	out := make([]domain.Station, 0, len(all))
	for _, s := range all {
		if s.IsAvailable {
			out = append(out, s)
		}
	}
	return out, nil
}
