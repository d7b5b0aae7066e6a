package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"charging-route-service/internal/domain"
	"charging-route-service/internal/ports"
	"charging-route-service/internal/spatial"
)

// NearestSelector picks the road-nearest station to a point.
//
// Only the candidateCap closest stations by great-circle distance are
// resolved to road distance, so a station that is closer by road but farther
// in a straight line than all of them is never considered.
type NearestSelector struct {
	stations     []domain.Station
	oracle       ports.DistanceOracle
	candidateCap int
}

func NewNearestSelector(stations []domain.Station, oracle ports.DistanceOracle, candidateCap int) *NearestSelector {
	if candidateCap <= 0 {
		candidateCap = 5
	}
	return &NearestSelector{stations: stations, oracle: oracle, candidateCap: candidateCap}
}

// SelectNearest returns the road-nearest available, non-maintenance station
// with at least one charging config accepted by filter.
func (s *NearestSelector) SelectNearest(
	ctx context.Context,
	p domain.Point,
	filter domain.StationFilter,
) (domain.Neighbor, error) {
	usable := make([]domain.Station, 0, len(s.stations))
	for _, st := range s.stations {
		if st.IsAvailable && !st.IsMaintenance {
			usable = append(usable, st)
		}
	}
	if len(usable) == 0 {
		return domain.Neighbor{}, fmt.Errorf("select nearest: %w", domain.ErrNoAvailableStations)
	}

	matching := usable
	if !filter.IsZero() {
		matching = make([]domain.Station, 0, len(usable))
		for _, st := range usable {
			if len(filter.MatchingConfigs(st)) > 0 {
				matching = append(matching, st)
			}
		}
	}
	if len(matching) == 0 {
		return domain.Neighbor{}, fmt.Errorf("select nearest: %w (%s)", domain.ErrNoMatchingStation, describeFilter(filter))
	}

	if len(matching) == 1 {
		km, r := s.oracle.RoadDistance(ctx, p, matching[0].Point())
		return domain.Neighbor{Station: matching[0], DistanceKm: km, Result: r}, nil
	}

	candidates := spatial.New(matching).KNearest(p, s.candidateCap)

	var best domain.Neighbor
	found := false
	for _, c := range candidates {
		km, r := s.oracle.RoadDistance(ctx, p, c.Station.Point())
		if !found || km < best.DistanceKm {
			best = domain.Neighbor{Station: c.Station, DistanceKm: km, Result: r}
			found = true
		}
	}
	if !found {
		return domain.Neighbor{}, fmt.Errorf("select nearest: %w", domain.ErrNoAvailableStations)
	}
	return best, nil
}

func describeFilter(f domain.StationFilter) string {
	parts := make([]string, 0, 3)
	if f.ChargingType != "" {
		parts = append(parts, "charging_type="+f.ChargingType)
	}
	if f.ConnectorType != "" {
		parts = append(parts, "connector_type="+f.ConnectorType)
	}
	if f.MinPowerKW != nil {
		parts = append(parts, "min_power="+strconv.FormatFloat(*f.MinPowerKW, 'f', -1, 64))
	}
	return strings.Join(parts, ", ")
}
