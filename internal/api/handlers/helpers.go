package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"charging-route-service/internal/domain"
	"charging-route-service/internal/platform/logger"
	"charging-route-service/internal/platform/obs"
	"charging-route-service/internal/ports"
	"charging-route-service/internal/services"
)

// Deps are shared by the station and route handlers. Every request builds
// its own Planner from a fresh station snapshot.
type Deps struct {
	Stations ports.StationRepository
	// Routing may be nil, in which case distances are great-circle estimates.
	Routing ports.RoutingClient
	Options services.Options
	Log     logger.Logger
}

func (d Deps) planner(ctx context.Context) (*services.Planner, error) {
	stations, err := d.Stations.ListAvailableStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	// Services read the request id from ctx themselves.
	return services.NewPlanner(stations, d.Routing, d.Options, d.Log), nil
}

func (d Deps) logFor(ctx context.Context) logger.Logger {
	if d.Log == nil {
		return logger.NopLogger{}
	}
	if id := obs.RequestID(ctx); id != "" {
		return d.Log.With("req_id", id)
	}
	return d.Log
}

func writeJSON(w http.ResponseWriter, r *http.Request, log logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, status int, msg string) {
	writeJSON(w, r, log, status, map[string]string{"error": msg})
}

// writePlannerError maps planner errors to status codes. Unknown errors are
// logged and reported as 500 without detail.
func writePlannerError(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNoAvailableStations):
		writeError(w, r, log, http.StatusNotFound, domain.ErrNoAvailableStations.Error())
	case errors.Is(err, domain.ErrNoMatchingStation):
		writeError(w, r, log, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoRouteFound):
		writeError(w, r, log, http.StatusUnprocessableEntity,
			domain.ErrNoRouteFound.Error()+"; try a larger vehicle_range_km")
	default:
		log.Errorf("%s failed: %v", op, err)
		writeError(w, r, log, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON strictly decodes a single JSON object from the body into v.
// It writes a 400 and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, log logger.Logger, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, log, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, log, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// queryFloat parses a float query parameter. ok is false when it is absent.
func queryFloat(r *http.Request, name string) (v float64, ok bool, err error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be a number", name)
	}
	return v, true, nil
}

// queryPoint reads a required latitude/longitude pair.
func queryPoint(r *http.Request, latName, lonName string) (domain.Point, error) {
	lat, ok, err := queryFloat(r, latName)
	if err != nil {
		return domain.Point{}, err
	}
	if !ok {
		return domain.Point{}, fmt.Errorf("%s is required", latName)
	}
	lon, ok, err := queryFloat(r, lonName)
	if err != nil {
		return domain.Point{}, err
	}
	if !ok {
		return domain.Point{}, fmt.Errorf("%s is required", lonName)
	}

	p := domain.Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		return domain.Point{}, fmt.Errorf("%s must be in [-90, 90] and %s in [-180, 180]", latName, lonName)
	}
	return p, nil
}
