package dto

import (
	"testing"

	"charging-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouteResponseLegDistances(t *testing.T) {
	a := domain.Station{ID: 1, Name: "A"}
	b := domain.Station{ID: 2, Name: "B"}
	c := domain.Station{ID: 3, Name: "C"}
	origin := domain.Point{Lat: 1, Lon: 2}
	dest := domain.Point{Lat: 3, Lon: 4}

	plan := &domain.RoutePlan{
		Stations: []domain.Station{a, b, c},
		Segments: []domain.Segment{
			{Type: domain.SegmentStartToStation, FromPoint: &origin, ToStation: domain.NewStationRef(a), DistanceKm: 10.004},
			{Type: domain.SegmentStationToStation, FromStation: domain.NewStationRef(a), ToStation: domain.NewStationRef(b), DistanceKm: 20},
			{Type: domain.SegmentStationToStation, FromStation: domain.NewStationRef(b), ToStation: domain.NewStationRef(c), DistanceKm: 30},
			{Type: domain.SegmentStationToDestination, FromStation: domain.NewStationRef(c), ToPoint: &dest, DistanceKm: 40.456},
		},
		TotalDistanceKm: 100.46,
		NumberOfStops:   3,
	}

	res := NewRouteResponse(plan)
	require.Len(t, res.ChargingStations, 3)

	first, mid, last := res.ChargingStations[0], res.ChargingStations[1], res.ChargingStations[2]
	assert.Equal(t, 10.0, *first.DistanceFromStart)
	assert.Equal(t, 20.0, *first.DistanceToNext)
	assert.Nil(t, first.DistanceFromPrevious)

	assert.Equal(t, 20.0, *mid.DistanceFromPrevious)
	assert.Equal(t, 30.0, *mid.DistanceToNext)

	assert.Equal(t, 30.0, *last.DistanceFromPrevious)
	assert.Equal(t, 40.46, *last.DistanceToDestination)
	assert.Nil(t, last.DistanceToNext)

	require.Len(t, res.RouteSegments, 4)
	assert.Equal(t, "start_to_station", res.RouteSegments[0].SegmentType)
	assert.NotNil(t, res.RouteSegments[0].FromPoint)
	assert.Equal(t, int64(3), res.RouteSegments[3].FromStation.ID)
	assert.Equal(t, 4.0, res.RouteSegments[3].ToPoint.Longitude)
}

func TestNearestStationResponseFallsBackToAllConfigs(t *testing.T) {
	s := domain.Station{ID: 1, ChargingConfigs: []domain.ChargingConfig{
		{ChargingType: "AC", PowerOutputKW: 7},
		{ChargingType: "DC", PowerOutputKW: 50},
	}}

	res := NewNearestStationResponse(domain.Neighbor{Station: s, DistanceKm: 3.14159}, domain.StationFilter{ChargingType: "DC"})
	require.Len(t, res.ChargingConfigs, 1)
	assert.Equal(t, 3.14, *res.Distance)

	res = NewNearestStationResponse(domain.Neighbor{Station: s}, domain.StationFilter{ChargingType: "HPC"})
	assert.Len(t, res.ChargingConfigs, 2)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.235000001))
	assert.Equal(t, 0.0, Round2(0))
}
