package distance

import (
	"context"
	"fmt"
	"sync"

	"charging-route-service/internal/domain"
	"charging-route-service/internal/geo"
)

type MockPair struct {
	From, To domain.Point
	Km       float64
	Minutes  float64
}

// MockRoutingClient is an in-memory RoutingClient for tests.
// Known pairs resolve to their configured values; unknown pairs resolve to
// the great-circle distance scaled by Detour, or fail when Detour is zero.
type MockRoutingClient struct {
	mu         sync.Mutex
	pairs      map[domain.DistanceQuery]domain.DistanceResult
	routeCalls int
	tableCalls int

	Detour   float64
	RouteErr error
	TableErr error
}

func NewMockRoutingClient(pairs []MockPair) *MockRoutingClient {
	m := make(map[domain.DistanceQuery]domain.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[domain.DistanceQuery{Origin: p.From, Destination: p.To}] = domain.DistanceResult{
			DistanceKm:  p.Km,
			DurationMin: p.Minutes,
			Geometry:    []byte(`{"type":"LineString","coordinates":[]}`),
			Source:      domain.SourceOracle,
		}
	}
	return &MockRoutingClient{pairs: m}
}

func (m *MockRoutingClient) Route(ctx context.Context, from, to domain.Point) (domain.DistanceResult, error) {
	m.mu.Lock()
	m.routeCalls++
	m.mu.Unlock()

	if m.RouteErr != nil {
		return domain.DistanceResult{}, m.RouteErr
	}
	return m.resolve(from, to)
}

func (m *MockRoutingClient) Table(ctx context.Context, origin domain.Point, destinations []domain.Point) ([]float64, error) {
	m.mu.Lock()
	m.tableCalls++
	m.mu.Unlock()

	if m.TableErr != nil {
		return nil, m.TableErr
	}

	out := make([]float64, len(destinations))
	for i, d := range destinations {
		r, err := m.resolve(origin, d)
		if err != nil {
			return nil, err
		}
		out[i] = r.DistanceKm
	}
	return out, nil
}

func (m *MockRoutingClient) resolve(from, to domain.Point) (domain.DistanceResult, error) {
	if r, ok := m.pairs[domain.DistanceQuery{Origin: from, Destination: to}]; ok {
		return r, nil
	}
	if m.Detour > 0 {
		km := geo.HaversineKm(from, to) * m.Detour
		return domain.DistanceResult{DistanceKm: km, DurationMin: km, Source: domain.SourceOracle}, nil
	}
	return domain.DistanceResult{}, fmt.Errorf("missing pair %v -> %v", from, to)
}

func (m *MockRoutingClient) RouteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.routeCalls
}

func (m *MockRoutingClient) TableCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tableCalls
}
