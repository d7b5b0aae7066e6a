package services

import (
	"context"
	"testing"

	"charging-route-service/internal/adapters/distance"
	"charging-route-service/internal/domain"
	"charging-route-service/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func station(id int64, lat, lon float64) domain.Station {
	return domain.Station{
		ID:          id,
		Name:        "station",
		Lat:         lat,
		Lon:         lon,
		IsAvailable: true,
		ChargingConfigs: []domain.ChargingConfig{
			{ChargingType: "DC", ConnectorType: "CCS2", PowerOutputKW: 60, CostPerKWh: 18},
		},
	}
}

func hopIDs(hops []domain.Hop) []int64 {
	ids := make([]int64, len(hops))
	for i, h := range hops {
		ids[i] = h.Station.ID
	}
	return ids
}

func TestOptimizeSingleStation(t *testing.T) {
	st := station(1, 12.93, 77.60)
	p := NewPlanner([]domain.Station{st}, nil, Options{}, nil)

	plan, err := p.Optimize(context.Background(), PlanRequest{Origin: blrOrigin, Destination: blrDest, RangeKm: 50})
	require.NoError(t, err)

	require.Len(t, plan.Stations, 1)
	assert.Equal(t, int64(1), plan.Stations[0].ID)
	assert.Equal(t, 1, plan.NumberOfStops)

	legs := geo.HaversineKm(blrOrigin, st.Point()) + geo.HaversineKm(st.Point(), blrDest)
	assert.InDelta(t, legs, plan.TotalDistanceKm, 1e-9)
	assert.InDelta(t, legs*1.5, plan.TotalDurationMin, 1e-9)
	assert.InDelta(t, 30.0, plan.EstimatedChargingMin, 1e-9)
	assert.InDelta(t, legs*1.5+30, plan.TotalTripMin, 1e-9)

	require.Len(t, plan.Segments, 2)
	assert.Equal(t, domain.SegmentStartToStation, plan.Segments[0].Type)
	assert.Equal(t, domain.SegmentStationToDestination, plan.Segments[1].Type)
}

func TestPlanRouteMinimisesTotalDistance(t *testing.T) {
	a := station(1, 0, 0)
	b := station(2, 0, 0.3)
	c := station(3, 0.1, 0.4)
	z := station(4, 0, 0.6)

	// Every station reaches every other. Going direct costs 100 km, via B 60
	// km, via C 80 km. Unlisted pairs cost ten times the straight line.
	mock := distance.NewMockRoutingClient([]distance.MockPair{
		{From: a.Point(), To: z.Point(), Km: 100, Minutes: 90},
		{From: a.Point(), To: b.Point(), Km: 30, Minutes: 30},
		{From: b.Point(), To: z.Point(), Km: 30, Minutes: 30},
		{From: a.Point(), To: c.Point(), Km: 40, Minutes: 40},
		{From: c.Point(), To: z.Point(), Km: 40, Minutes: 40},
	})
	mock.Detour = 10

	p := NewPlanner([]domain.Station{a, b, c, z}, mock, Options{}, nil)

	hops, err := p.routes.PlanRoute(context.Background(), a.Point(), z.Point(), 1000)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4}, hopIDs(hops))
	assert.InDelta(t, 30.0, hops[0].Leg.DistanceKm, 1e-9)
	assert.InDelta(t, 30.0, hops[1].Leg.DistanceKm, 1e-9)
}

func TestPlanRouteChainsWithinRange(t *testing.T) {
	// 0.3 deg of longitude on the equator is about 33 km.
	stations := []domain.Station{
		station(1, 0, 0),
		station(2, 0, 0.3),
		station(3, 0, 0.6),
		station(4, 0, 0.9),
	}
	p := NewPlanner(stations, nil, Options{}, nil)

	hops, err := p.routes.PlanRoute(context.Background(), domain.Point{Lat: 0, Lon: -0.01}, domain.Point{Lat: 0, Lon: 0.91}, 40)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 4}, hopIDs(hops))
	for _, h := range hops {
		assert.LessOrEqual(t, h.Leg.DistanceKm, 40.0)
	}
}

func TestPlanRouteNoAvailableStations(t *testing.T) {
	off := station(1, 12.93, 77.6)
	off.IsAvailable = false

	for _, stations := range [][]domain.Station{nil, {off}} {
		p := NewPlanner(stations, nil, Options{}, nil)
		_, err := p.Optimize(context.Background(), PlanRequest{Origin: blrOrigin, Destination: blrDest, RangeKm: 50})
		require.ErrorIs(t, err, domain.ErrNoAvailableStations)
	}
}

func TestPlanRouteNoRoute(t *testing.T) {
	stations := []domain.Station{station(1, 0, 0), station(2, 0, 1)}
	p := NewPlanner(stations, nil, Options{}, nil)

	_, err := p.Optimize(context.Background(), PlanRequest{
		Origin:      domain.Point{Lat: 0, Lon: 0},
		Destination: domain.Point{Lat: 0, Lon: 1},
		RangeKm:     50,
	})
	require.ErrorIs(t, err, domain.ErrNoRouteFound)
}

func TestPlanRouteMaintenanceScope(t *testing.T) {
	a := station(1, 0, 0)
	m := station(2, 0, 0.4)
	m.IsMaintenance = true
	z := station(3, 0, 0.8)
	stations := []domain.Station{a, m, z}

	origin := a.Point()
	dest := z.Point()

	anchors := NewPlanner(stations, nil, Options{MaintenanceScope: MaintenanceAnchors}, nil)
	hops, err := anchors.routes.PlanRoute(context.Background(), origin, dest, 50)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, hopIDs(hops))

	all := NewPlanner(stations, nil, Options{MaintenanceScope: MaintenanceAll}, nil)
	_, err = all.routes.PlanRoute(context.Background(), origin, dest, 50)
	require.ErrorIs(t, err, domain.ErrNoRouteFound)
}

func TestPlanRouteExpandsEachStationOnce(t *testing.T) {
	stations := []domain.Station{station(1, 0, 0), station(2, 0, 0.1), station(3, 0, 0.2)}

	mock := distance.NewMockRoutingClient(nil)
	mock.Detour = 1
	p := NewPlanner(stations, mock, Options{}, nil)

	_, err := p.routes.PlanRoute(context.Background(), stations[0].Point(), stations[2].Point(), 100)
	require.NoError(t, err)

	// Each ordered pair is resolved once across anchoring and expansion.
	assert.LessOrEqual(t, mock.RouteCalls(), len(stations)*len(stations))

	before := mock.RouteCalls()
	_, err = p.routes.PlanRoute(context.Background(), stations[0].Point(), stations[2].Point(), 100)
	require.NoError(t, err)
	assert.Equal(t, before, mock.RouteCalls())
}
