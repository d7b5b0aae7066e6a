package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"charging-route-service/internal/api/handlers"
	"charging-route-service/internal/domain"
	"charging-route-service/internal/platform/logger"
	"charging-route-service/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStations struct {
	stations []domain.Station
	err      error
}

func (s stubStations) ListAvailableStations(context.Context) ([]domain.Station, error) {
	return s.stations, s.err
}

func bangaloreStations() []domain.Station {
	return []domain.Station{
		{
			ID: 1, Name: "Jayanagar", Lat: 12.93, Lon: 77.60, IsAvailable: true,
			ChargingConfigs: []domain.ChargingConfig{
				{ChargingType: "AC", ConnectorType: "Type2", PowerOutputKW: 22, CostPerKWh: 12},
				{ChargingType: "DC", ConnectorType: "CCS2", PowerOutputKW: 60, CostPerKWh: 18},
			},
		},
		{
			ID: 2, Name: "Whitefield", Lat: 12.97, Lon: 77.75, IsAvailable: true,
			ChargingConfigs: []domain.ChargingConfig{
				{ChargingType: "DC", ConnectorType: "CCS2", PowerOutputKW: 120, CostPerKWh: 21},
			},
		},
	}
}

func newTestRouter(repo stubStations) http.Handler {
	return NewRouter(handlers.Deps{Stations: repo, Options: services.Options{}}, prometheus.NewRegistry())
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(stubStations{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	newTestRouter(stubStations{}).ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

type downRouting struct{}

func (downRouting) Route(context.Context, domain.Point, domain.Point) (domain.DistanceResult, error) {
	return domain.DistanceResult{}, errors.New("connection refused")
}

func (downRouting) Table(context.Context, domain.Point, []domain.Point) ([]float64, error) {
	return nil, errors.New("connection refused")
}

func TestOracleWarningsCarryRequestIDOnce(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("api", logger.Options{Out: &buf})
	h := NewRouter(handlers.Deps{Stations: stubStations{}, Routing: downRouting{}, Log: log}, prometheus.NewRegistry())

	req := httptest.NewRequest(http.MethodGet, "/routes/direct-route?start_lat=12.90&start_lon=77.58&end_lat=12.97&end_lon=77.75", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var warned bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if !strings.Contains(line, `"level":"warn"`) {
			continue
		}
		warned = true
		assert.Equal(t, 1, strings.Count(line, `"req_id"`), line)
		assert.Contains(t, line, `"req_id":"abc-123"`)
	}
	assert.True(t, warned)
}

func TestOptimize(t *testing.T) {
	h := newTestRouter(stubStations{stations: bangaloreStations()[:1]})
	rec := do(t, h, http.MethodPost, "/routes/optimize",
		`{"start_latitude":12.90,"start_longitude":77.58,"end_latitude":12.97,"end_longitude":77.75,"vehicle_range_km":50}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		ChargingStations []struct {
			ID                    int64    `json:"id"`
			DistanceFromStart     *float64 `json:"distance_from_start"`
			DistanceToDestination *float64 `json:"distance_to_destination"`
		} `json:"charging_stations"`
		NumberOfStops         int     `json:"number_of_stops"`
		EstimatedChargingTime float64 `json:"estimated_charging_time"`
		RouteSegments         []struct {
			SegmentType string `json:"segment_type"`
		} `json:"route_segments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	require.Len(t, res.ChargingStations, 1)
	assert.Equal(t, int64(1), res.ChargingStations[0].ID)
	assert.NotNil(t, res.ChargingStations[0].DistanceFromStart)
	assert.NotNil(t, res.ChargingStations[0].DistanceToDestination)
	assert.Equal(t, 1, res.NumberOfStops)
	assert.Equal(t, 30.0, res.EstimatedChargingTime)
	require.Len(t, res.RouteSegments, 2)
	assert.Equal(t, "start_to_station", res.RouteSegments[0].SegmentType)
	assert.Equal(t, "station_to_destination", res.RouteSegments[1].SegmentType)
}

func TestOptimizeErrors(t *testing.T) {
	valid := `{"start_latitude":0,"start_longitude":0,"end_latitude":0,"end_longitude":1,"vehicle_range_km":50}`
	far := []domain.Station{
		{ID: 1, Lat: 0, Lon: 0, IsAvailable: true},
		{ID: 2, Lat: 0, Lon: 1, IsAvailable: true},
	}

	tests := []struct {
		name   string
		repo   stubStations
		body   string
		status int
	}{
		{"malformed", stubStations{stations: far}, `{"start_latitude":`, http.StatusBadRequest},
		{"unknown field", stubStations{stations: far}, `{"start_lat":1}`, http.StatusBadRequest},
		{"two objects", stubStations{stations: far}, valid + valid, http.StatusBadRequest},
		{"missing coordinate", stubStations{stations: far}, `{"start_latitude":0,"start_longitude":0,"end_latitude":0}`, http.StatusBadRequest},
		{"latitude range", stubStations{stations: far}, `{"start_latitude":95,"start_longitude":0,"end_latitude":0,"end_longitude":1}`, http.StatusBadRequest},
		{"range not positive", stubStations{stations: far}, `{"start_latitude":0,"start_longitude":0,"end_latitude":0,"end_longitude":1,"vehicle_range_km":0}`, http.StatusBadRequest},
		{"no stations", stubStations{}, valid, http.StatusNotFound},
		{"no route", stubStations{stations: far}, valid, http.StatusUnprocessableEntity},
		{"repository failure", stubStations{err: errors.New("db down")}, valid, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, newTestRouter(tc.repo), http.MethodPost, "/routes/optimize", tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	tests := []struct{ method, target string }{
		{http.MethodGet, "/routes/optimize"},
		{http.MethodPost, "/routes/nearest-station"},
		{http.MethodPost, "/stations/nearby"},
		{http.MethodGet, "/stations/search"},
		{http.MethodGet, "/stations/route"},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rec := do(t, newTestRouter(stubStations{}), tc.method, tc.target, "")
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestNearestStationFiltersConfigs(t *testing.T) {
	h := newTestRouter(stubStations{stations: bangaloreStations()})
	rec := do(t, h, http.MethodGet, "/routes/nearest-station?latitude=12.90&longitude=77.58&charging_type=DC", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		ID              int64 `json:"id"`
		ChargingConfigs []struct {
			ChargingType string `json:"charging_type"`
		} `json:"charging_configs"`
		Distance float64 `json:"distance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, int64(1), res.ID)
	require.Len(t, res.ChargingConfigs, 1)
	assert.Equal(t, "DC", res.ChargingConfigs[0].ChargingType)
	assert.Greater(t, res.Distance, 0.0)
}

func TestNearestStationErrors(t *testing.T) {
	tests := []struct {
		name   string
		repo   stubStations
		target string
		status int
	}{
		{"missing longitude", stubStations{stations: bangaloreStations()}, "/routes/nearest-station?latitude=12.9", http.StatusBadRequest},
		{"bad min_power", stubStations{stations: bangaloreStations()}, "/routes/nearest-station?latitude=12.9&longitude=77.5&min_power=lots", http.StatusBadRequest},
		{"no match", stubStations{stations: bangaloreStations()}, "/routes/nearest-station?latitude=12.9&longitude=77.5&min_power=500", http.StatusBadRequest},
		{"no stations", stubStations{}, "/routes/nearest-station?latitude=12.9&longitude=77.5", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, newTestRouter(tc.repo), http.MethodGet, tc.target, "")
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestDirectRoute(t *testing.T) {
	rec := do(t, newTestRouter(stubStations{}), http.MethodGet,
		"/routes/direct-route?start_lat=12.90&start_lon=77.58&end_lat=12.97&end_lon=77.75", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Distance        float64         `json:"distance"`
		DurationMinutes float64         `json:"duration_minutes"`
		Geometry        json.RawMessage `json:"geometry"`
		Source          string          `json:"source"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Greater(t, res.Distance, 15.0)
	assert.InDelta(t, res.Distance*1.5, res.DurationMinutes, 0.02)
	assert.Equal(t, "null", string(res.Geometry))
	assert.Equal(t, "fallback", res.Source)

	rec = do(t, newTestRouter(stubStations{}), http.MethodGet, "/routes/direct-route?start_lat=12.90", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stationResult struct {
	ID                int64           `json:"id"`
	DistanceFromStart float64         `json:"distance_from_start"`
	RouteGeometry     json.RawMessage `json:"route_geometry"`
}

func stationIDs(t *testing.T, rec *httptest.ResponseRecorder) []int64 {
	t.Helper()
	var res []stationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	ids := make([]int64, 0, len(res))
	for _, r := range res {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestNearbyStations(t *testing.T) {
	h := newTestRouter(stubStations{stations: bangaloreStations()})

	rec := do(t, h, http.MethodGet, "/stations/nearby?lat=12.90&lng=77.58&max_range=10", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res []stationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res, 1)
	assert.Equal(t, int64(1), res[0].ID)
	assert.LessOrEqual(t, res[0].DistanceFromStart, 10.0)

	// max_range defaults to 30 km.
	rec = do(t, h, http.MethodGet, "/stations/nearby?lat=12.90&lng=77.58", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{1, 2}, stationIDs(t, rec))

	rec = do(t, h, http.MethodGet, "/stations/nearby?latitude=12.90&longitude=77.58&radius=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{1}, stationIDs(t, rec))

	rec = do(t, h, http.MethodGet, "/stations/nearby?lat=12.90&lng=77.58&max_range=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/stations/nearby?lat=12.90", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, newTestRouter(stubStations{}), http.MethodGet, "/stations/nearby?lat=12.90&lng=77.58", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStationSearch(t *testing.T) {
	h := newTestRouter(stubStations{stations: bangaloreStations()})

	tests := []struct {
		name string
		body string
		want []int64
	}{
		{"default radius", `{"latitude":12.90,"longitude":77.58}`, []int64{1}},
		{"wider radius", `{"latitude":12.90,"longitude":77.58,"radius":30}`, []int64{1, 2}},
		{"charging type", `{"latitude":12.90,"longitude":77.58,"radius":30,"charging_type":"AC"}`, []int64{1}},
		{"power output", `{"latitude":12.90,"longitude":77.58,"radius":30,"power_output":100}`, []int64{2}},
		{"nothing matches", `{"latitude":12.90,"longitude":77.58,"radius":30,"charging_type":"CHAdeMO"}`, []int64{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/stations/search", tc.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tc.want, stationIDs(t, rec))
		})
	}

	rec := do(t, h, http.MethodPost, "/stations/search", `{"latitude":12.90}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/stations/search", `{"latitude":12.90,"longitude":77.58,"radius":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStationsAlongRoute(t *testing.T) {
	body := `{"start_latitude":12.90,"start_longitude":77.58,"end_latitude":12.97,"end_longitude":77.75}`

	rec := do(t, newTestRouter(stubStations{stations: bangaloreStations()[:1]}), http.MethodPost, "/stations/route", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []int64{1}, stationIDs(t, rec))

	far := []domain.Station{
		{ID: 1, Lat: 0, Lon: 0, IsAvailable: true},
		{ID: 2, Lat: 0, Lon: 1, IsAvailable: true},
	}
	rec = do(t, newTestRouter(stubStations{stations: far}), http.MethodPost, "/stations/route",
		`{"start_latitude":0,"start_longitude":0,"end_latitude":0,"end_longitude":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = do(t, newTestRouter(stubStations{}), http.MethodPost, "/stations/route", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, newTestRouter(stubStations{}), http.MethodPost, "/stations/route", `{"start_latitude":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(t, newTestRouter(stubStations{}), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
