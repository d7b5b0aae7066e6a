package handlers

import (
	"errors"
	"net/http"
	"strings"

	"charging-route-service/internal/api/dto"
	"charging-route-service/internal/domain"
)

const (
	defaultNearbyRadiusKm = 30.0
	defaultSearchRadiusKm = 10.0
)

type StationHandler struct {
	Deps
}

// Nearby lists stations within max_range km of road distance, nearest
// first. latitude, longitude and radius are accepted as aliases.
func (h *StationHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	log := h.logFor(r.Context())

	q := r.URL.Query()
	latName, lonName := "lat", "lng"
	if !q.Has(latName) && !q.Has(lonName) {
		latName, lonName = "latitude", "longitude"
	}
	p, err := queryPoint(r, latName, lonName)
	if err != nil {
		writeError(w, r, log, http.StatusBadRequest, err.Error())
		return
	}

	radiusName := "max_range"
	if !q.Has(radiusName) {
		radiusName = "radius"
	}
	radius, ok, err := queryFloat(r, radiusName)
	if err != nil {
		writeError(w, r, log, http.StatusBadRequest, err.Error())
		return
	}
	if !ok {
		radius = defaultNearbyRadiusKm
	}

	h.writeNearby(w, r, p, radius, domain.StationFilter{})
}

// Search is the JSON body form of Nearby. charging_type and power_output,
// when given, keep only stations with a config offering them.
func (h *StationHandler) Search(w http.ResponseWriter, r *http.Request) {
	log := h.logFor(r.Context())

	var req dto.StationSearchRequest
	if !decodeJSON(w, r, log, &req) {
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(w, r, log, http.StatusBadRequest, "latitude and longitude are required")
		return
	}
	p := domain.Point{Lat: *req.Latitude, Lon: *req.Longitude}
	if !p.Valid() {
		writeError(w, r, log, http.StatusBadRequest, "latitude must be in [-90, 90] and longitude in [-180, 180]")
		return
	}

	radius := defaultSearchRadiusKm
	if req.Radius != nil {
		radius = *req.Radius
	}

	h.writeNearby(w, r, p, radius, domain.StationFilter{
		ChargingType: strings.TrimSpace(req.ChargingType),
		MinPowerKW:   req.PowerOutput,
	})
}

func (h *StationHandler) writeNearby(w http.ResponseWriter, r *http.Request, p domain.Point, radius float64, filter domain.StationFilter) {
	log := h.logFor(r.Context())

	if radius <= 0 {
		writeError(w, r, log, http.StatusBadRequest, "radius must be positive")
		return
	}

	planner, err := h.planner(r.Context())
	if err != nil {
		writePlannerError(w, r, log, "nearby stations", err)
		return
	}

	neighbors, err := planner.NearbyStations(r.Context(), p, radius)
	if err != nil {
		writePlannerError(w, r, log, "nearby stations", err)
		return
	}

	res := make([]dto.StationResponse, 0, len(neighbors))
	for _, n := range neighbors {
		if !filter.IsZero() && len(filter.MatchingConfigs(n.Station)) == 0 {
			continue
		}
		res = append(res, dto.NewNearbyStationResponse(n))
	}
	writeJSON(w, r, log, http.StatusOK, res)
}

// AlongRoute lists the charging stops between two points at the default
// vehicle range. An unreachable destination yields an empty list.
func (h *StationHandler) AlongRoute(w http.ResponseWriter, r *http.Request) {
	log := h.logFor(r.Context())

	var req dto.StationRouteRequest
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

	planner, err := h.planner(r.Context())
	if err != nil {
		writePlannerError(w, r, log, "stations along route", err)
		return
	}

	hops, err := planner.StationsAlongRoute(r.Context(), origin, dest)
	if err != nil && !errors.Is(err, domain.ErrNoRouteFound) {
		writePlannerError(w, r, log, "stations along route", err)
		return
	}

	res := make([]dto.StationResponse, 0, len(hops))
	for _, hop := range hops {
		res = append(res, dto.NewRouteStationResponse(hop))
	}
	writeJSON(w, r, log, http.StatusOK, res)
}
