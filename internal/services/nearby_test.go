package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"charging-route-service/internal/adapters/distance"
	"charging-route-service/internal/domain"
	"charging-route-service/internal/spatial"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ring places n available stations north of the origin, 0.05 deg apart.
func ring(n int) []domain.Station {
	out := make([]domain.Station, n)
	for i := range out {
		out[i] = domain.Station{
			ID:          int64(i + 1),
			Name:        "S",
			Lat:         12.9 + float64(i+1)*0.05,
			Lon:         77.6,
			IsAvailable: true,
		}
	}
	return out
}

func assertWithinAndSorted(t *testing.T, got []domain.Neighbor, r float64) {
	t.Helper()
	for i, n := range got {
		assert.LessOrEqual(t, n.DistanceKm, r)
		if i > 0 {
			assert.LessOrEqual(t, got[i-1].DistanceKm, n.DistanceKm)
		}
	}
}

func TestFindNearbyDirectMode(t *testing.T) {
	stations := ring(8)
	o := NewOracle(nil, nil, OracleOptions{}, nil)
	f := NewNearbyFinder(spatial.New(stations), o, 5)

	origin := domain.Point{Lat: 12.9, Lon: 77.6}
	got := f.FindNearby(context.Background(), origin, 17)

	// 5.56 km apart: stations 1..3 are within 17 km.
	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{got[0].Station.ID, got[1].Station.ID, got[2].Station.ID})
	assertWithinAndSorted(t, got, 17)
}

func TestFindNearbyRoadDistanceDecides(t *testing.T) {
	stations := ring(3)
	origin := domain.Point{Lat: 12.9, Lon: 77.6}

	mock := distance.NewMockRoutingClient([]distance.MockPair{
		{From: origin, To: stations[0].Point(), Km: 30, Minutes: 30},
	})
	mock.Detour = 1.2
	f := NewNearbyFinder(spatial.New(stations), NewOracle(mock, nil, OracleOptions{}, nil), 5)

	got := f.FindNearby(context.Background(), origin, 21)

	// Station 1 is 5.6 km away in a straight line but 30 km by road.
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].Station.ID)
	assert.Equal(t, int64(3), got[1].Station.ID)
	assertWithinAndSorted(t, got, 21)
}

func TestFindNearbyTableMode(t *testing.T) {
	stations := ring(7)
	origin := domain.Point{Lat: 12.9, Lon: 77.6}

	stub := &tableStub{row: []float64{5, 9, math.Inf(1), 21, 30, 60, 70}}
	f := NewNearbyFinder(spatial.New(stations), NewOracle(stub, nil, OracleOptions{}, nil), 5)

	got := f.FindNearby(context.Background(), origin, 40)

	require.Len(t, got, 4)
	ids := make([]int64, len(got))
	for i, n := range got {
		ids[i] = n.Station.ID
	}
	assert.Equal(t, []int64{1, 2, 4, 5}, ids)
	assert.Equal(t, 1, stub.tableCalls)
	// Full results are fetched only for qualifying stations.
	assert.Equal(t, 4, stub.routeCalls)
	assertWithinAndSorted(t, got, 40)
}

func TestFindNearbyTableModeDegrades(t *testing.T) {
	stations := ring(7)
	origin := domain.Point{Lat: 12.9, Lon: 77.6}

	mock := distance.NewMockRoutingClient(nil)
	mock.Detour = 1
	mock.TableErr = errors.New("table unavailable")
	f := NewNearbyFinder(spatial.New(stations), NewOracle(mock, nil, OracleOptions{}, nil), 5)

	got := f.FindNearby(context.Background(), origin, 50)

	require.Len(t, got, 7)
	assert.Equal(t, 1, mock.TableCalls())
	assert.Equal(t, 7, mock.RouteCalls())
	assertWithinAndSorted(t, got, 50)
}

func TestFindNearbyEmpty(t *testing.T) {
	f := NewNearbyFinder(spatial.New(nil), NewOracle(nil, nil, OracleOptions{}, nil), 5)
	got := f.FindNearby(context.Background(), blrOrigin, 100)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
