package dto

import (
	"encoding/json"

	"charging-route-service/internal/domain"
)

type ChargingConfigResponse struct {
	ChargingType  string  `json:"charging_type"`
	ConnectorType string  `json:"connector_type"`
	PowerOutput   float64 `json:"power_output"`
	CostPerKWh    float64 `json:"cost_per_kwh"`
}

type StationSearchRequest struct {
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Radius       *float64 `json:"radius"`
	ChargingType string   `json:"charging_type"`
	PowerOutput  *float64 `json:"power_output"`
}

type StationRouteRequest struct {
	StartLatitude  *float64 `json:"start_latitude"`
	StartLongitude *float64 `json:"start_longitude"`
	EndLatitude    *float64 `json:"end_latitude"`
	EndLongitude   *float64 `json:"end_longitude"`
}

type StationResponse struct {
	ID              int64                    `json:"id"`
	Name            string                   `json:"name"`
	Location        string                   `json:"location,omitempty"`
	Latitude        float64                  `json:"latitude"`
	Longitude       float64                  `json:"longitude"`
	IsAvailable     bool                     `json:"is_available"`
	ChargingConfigs []ChargingConfigResponse `json:"charging_configs"`

	Distance              *float64        `json:"distance,omitempty"`
	DistanceFromStart     *float64        `json:"distance_from_start,omitempty"`
	DistanceFromPrevious  *float64        `json:"distance_from_previous,omitempty"`
	DistanceToNext        *float64        `json:"distance_to_next,omitempty"`
	DistanceToDestination *float64        `json:"distance_to_destination,omitempty"`
	RouteGeometry         json.RawMessage `json:"route_geometry,omitempty"`
}

// NewStationResponse renders s with the given subset of its configs.
func NewStationResponse(s domain.Station, configs []domain.ChargingConfig) StationResponse {
	return StationResponse{
		ID:              s.ID,
		Name:            s.Name,
		Location:        s.Location,
		Latitude:        s.Lat,
		Longitude:       s.Lon,
		IsAvailable:     s.IsAvailable,
		ChargingConfigs: newConfigResponses(configs),
	}
}

// NewNearestStationResponse lists only the configs accepted by filter, or
// all of them when none is.
func NewNearestStationResponse(n domain.Neighbor, filter domain.StationFilter) StationResponse {
	configs := filter.MatchingConfigs(n.Station)
	if len(configs) == 0 {
		configs = n.Station.ChargingConfigs
	}
	sr := NewStationResponse(n.Station, configs)
	sr.Distance = ptr(Round2(n.DistanceKm))
	sr.RouteGeometry = n.Result.Geometry
	return sr
}

// NewNearbyStationResponse reports the road distance from the query point.
func NewNearbyStationResponse(n domain.Neighbor) StationResponse {
	sr := NewStationResponse(n.Station, n.Station.ChargingConfigs)
	sr.DistanceFromStart = ptr(Round2(n.DistanceKm))
	return sr
}

// NewRouteStationResponse renders a stop on a found path with the geometry
// of the leg that reaches it.
func NewRouteStationResponse(h domain.Hop) StationResponse {
	sr := NewStationResponse(h.Station, h.Station.ChargingConfigs)
	sr.RouteGeometry = h.Leg.Geometry
	return sr
}

func newConfigResponses(cs []domain.ChargingConfig) []ChargingConfigResponse {
	out := make([]ChargingConfigResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, ChargingConfigResponse{
			ChargingType:  c.ChargingType,
			ConnectorType: c.ConnectorType,
			PowerOutput:   c.PowerOutputKW,
			CostPerKWh:    c.CostPerKWh,
		})
	}
	return out
}
