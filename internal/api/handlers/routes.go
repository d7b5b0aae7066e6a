package handlers

import (
	"net/http"
	"strings"

	"charging-route-service/internal/api/dto"
	"charging-route-service/internal/domain"
	"charging-route-service/internal/services"
)

type RouteHandler struct {
	Deps
}

// Optimize plans a charging itinerary between two points.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	log := h.logFor(r.Context())

	var req dto.OptimizeRouteRequest
	if !decodeJSON(w, r, log, &req) {
		return
	}

	if req.StartLatitude == nil || req.StartLongitude == nil || req.EndLatitude == nil || req.EndLongitude == nil {
		writeError(w, r, log, http.StatusBadRequest,
			"start_latitude, start_longitude, end_latitude and end_longitude are required")
		return
	}

	origin := domain.Point{Lat: *req.StartLatitude, Lon: *req.StartLongitude}
	dest := domain.Point{Lat: *req.EndLatitude, Lon: *req.EndLongitude}
	if !origin.Valid() || !dest.Valid() {
		writeError(w, r, log, http.StatusBadRequest, "latitude must be in [-90, 90] and longitude in [-180, 180]")
		return
	}

	var rangeKm float64
	if req.VehicleRangeKm != nil {
		rangeKm = *req.VehicleRangeKm
		if rangeKm <= 0 {
			writeError(w, r, log, http.StatusBadRequest, "vehicle_range_km must be positive")
			return
		}
	}

	planner, err := h.planner(r.Context())
	if err != nil {
		writePlannerError(w, r, log, "optimize route", err)
		return
	}

	plan, err := planner.Optimize(r.Context(), services.PlanRequest{
		Origin:      origin,
		Destination: dest,
		RangeKm:     rangeKm,
	})
	if err != nil {
		writePlannerError(w, r, log, "optimize route", err)
		return
	}

	writeJSON(w, r, log, http.StatusOK, dto.NewRouteResponse(plan))
}

// NearestStation returns the road-nearest station matching optional
// charging_type, connector_type and min_power filters.
func (h *RouteHandler) NearestStation(w http.ResponseWriter, r *http.Request) {
	log := h.logFor(r.Context())

	p, err := queryPoint(r, "latitude", "longitude")
	if err != nil {
		writeError(w, r, log, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	filter := domain.StationFilter{
		ChargingType:  strings.TrimSpace(q.Get("charging_type")),
		ConnectorType: strings.TrimSpace(q.Get("connector_type")),
	}
	minPower, ok, err := queryFloat(r, "min_power")
	if err != nil {
		writeError(w, r, log, http.StatusBadRequest, err.Error())
		return
	}
	if ok {
		filter.MinPowerKW = &minPower
	}

	planner, err := h.planner(r.Context())
	if err != nil {
		writePlannerError(w, r, log, "nearest station", err)
		return
	}

	n, err := planner.NearestStation(r.Context(), p, filter)
	if err != nil {
		writePlannerError(w, r, log, "nearest station", err)
		return
	}

	writeJSON(w, r, log, http.StatusOK, dto.NewNearestStationResponse(n, filter))
}

// DirectRoute resolves the single road leg between two points. It needs no
// stations.
func (h *RouteHandler) DirectRoute(w http.ResponseWriter, r *http.Request) {
	log := h.logFor(r.Context())

	from, err := queryPoint(r, "start_lat", "start_lon")
	if err != nil {
		writeError(w, r, log, http.StatusBadRequest, err.Error())
		return
	}
	to, err := queryPoint(r, "end_lat", "end_lon")
	if err != nil {
		writeError(w, r, log, http.StatusBadRequest, err.Error())
		return
	}

	planner := services.NewPlanner(nil, h.Routing, h.Options, h.Log)
	writeJSON(w, r, log, http.StatusOK, dto.NewDirectRouteResponse(planner.DirectRoute(r.Context(), from, to)))
}
