package dto

import (
	"encoding/json"
	"math"

	"charging-route-service/internal/domain"
)

type OptimizeRouteRequest struct {
	StartLatitude  *float64 `json:"start_latitude"`
	StartLongitude *float64 `json:"start_longitude"`
	EndLatitude    *float64 `json:"end_latitude"`
	EndLongitude   *float64 `json:"end_longitude"`
	VehicleRangeKm *float64 `json:"vehicle_range_km"`
}

type PointResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type StationRefResponse struct {
	ID              int64                    `json:"id"`
	Name            string                   `json:"name"`
	ChargingConfigs []ChargingConfigResponse `json:"charging_configs"`
}

type SegmentResponse struct {
	SegmentType   string              `json:"segment_type"`
	FromPoint     *PointResponse      `json:"from_point,omitempty"`
	FromStation   *StationRefResponse `json:"from_station,omitempty"`
	ToPoint       *PointResponse      `json:"to_point,omitempty"`
	ToStation     *StationRefResponse `json:"to_station,omitempty"`
	Distance      float64             `json:"distance"`
	Duration      float64             `json:"duration"`
	RouteGeometry json.RawMessage     `json:"route_geometry"`
}

type RouteResponse struct {
	ChargingStations        []StationResponse `json:"charging_stations"`
	TotalDistance           float64           `json:"total_distance"`
	TotalDuration           float64           `json:"total_duration"`
	DirectDistance          float64           `json:"direct_distance"`
	DirectDuration          float64           `json:"direct_duration_minutes"`
	DistanceOverheadPercent float64           `json:"distance_overhead_percent"`
	TimeOverheadPercent     float64           `json:"time_overhead_percent"`
	NumberOfStops           int               `json:"number_of_stops"`
	EstimatedChargingTime   float64           `json:"estimated_charging_time"`
	TotalTripTime           float64           `json:"total_trip_time"`
	RouteSegments           []SegmentResponse `json:"route_segments"`
}

type DirectRouteResponse struct {
	Distance        float64         `json:"distance"`
	DurationMinutes float64         `json:"duration_minutes"`
	Geometry        json.RawMessage `json:"geometry"`
	Source          string          `json:"source"`
}

// Round2 rounds to two decimals for presentation.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

func ptr(v float64) *float64 { return &v }

// NewRouteResponse renders a plan. Each station carries the length of the
// legs around it: from the start for the first, from the previous station
// for the others, to the next station, and to the destination for the last.
func NewRouteResponse(p *domain.RoutePlan) RouteResponse {
	segs := make([]SegmentResponse, 0, len(p.Segments))
	for _, s := range p.Segments {
		segs = append(segs, newSegmentResponse(s))
	}

	n := len(p.Stations)
	stations := make([]StationResponse, 0, n)
	for i, st := range p.Stations {
		sr := NewStationResponse(st, st.ChargingConfigs)
		// Segment i arrives at station i; segment i+1 leaves it.
		if i == 0 {
			sr.DistanceFromStart = ptr(Round2(p.Segments[0].DistanceKm))
		} else {
			sr.DistanceFromPrevious = ptr(Round2(p.Segments[i].DistanceKm))
		}
		if i == n-1 {
			sr.DistanceToDestination = ptr(Round2(p.Segments[i+1].DistanceKm))
		} else {
			sr.DistanceToNext = ptr(Round2(p.Segments[i+1].DistanceKm))
		}
		stations = append(stations, sr)
	}

	return RouteResponse{
		ChargingStations:        stations,
		TotalDistance:           Round2(p.TotalDistanceKm),
		TotalDuration:           Round2(p.TotalDurationMin),
		DirectDistance:          Round2(p.DirectDistanceKm),
		DirectDuration:          Round2(p.DirectDurationMin),
		DistanceOverheadPercent: Round2(p.DistanceOverheadPct),
		TimeOverheadPercent:     Round2(p.TimeOverheadPct),
		NumberOfStops:           p.NumberOfStops,
		EstimatedChargingTime:   Round2(p.EstimatedChargingMin),
		TotalTripTime:           Round2(p.TotalTripMin),
		RouteSegments:           segs,
	}
}

func newSegmentResponse(s domain.Segment) SegmentResponse {
	out := SegmentResponse{
		SegmentType:   string(s.Type),
		Distance:      Round2(s.DistanceKm),
		Duration:      Round2(s.DurationMin),
		RouteGeometry: s.Geometry,
	}
	if s.FromPoint != nil {
		out.FromPoint = &PointResponse{Latitude: s.FromPoint.Lat, Longitude: s.FromPoint.Lon}
	}
	if s.ToPoint != nil {
		out.ToPoint = &PointResponse{Latitude: s.ToPoint.Lat, Longitude: s.ToPoint.Lon}
	}
	if s.FromStation != nil {
		out.FromStation = newStationRefResponse(s.FromStation)
	}
	if s.ToStation != nil {
		out.ToStation = newStationRefResponse(s.ToStation)
	}
	return out
}

func newStationRefResponse(r *domain.StationRef) *StationRefResponse {
	return &StationRefResponse{ID: r.ID, Name: r.Name, ChargingConfigs: newConfigResponses(r.ChargingConfigs)}
}

func NewDirectRouteResponse(r domain.DistanceResult) DirectRouteResponse {
	return DirectRouteResponse{
		Distance:        Round2(r.DistanceKm),
		DurationMinutes: Round2(r.DurationMin),
		Geometry:        r.Geometry,
		Source:          string(r.Source),
	}
}
