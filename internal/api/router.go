package api

import (
	"net/http"

	"charging-route-service/internal/api/handlers"
	"charging-route-service/internal/platform/logger"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// A nil gatherer serves the default Prometheus registry.
func NewRouter(deps handlers.Deps, gatherer prometheus.Gatherer) http.Handler {
	if deps.Log == nil {
		deps.Log = logger.NopLogger{}
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	routeHandler := &handlers.RouteHandler{Deps: deps}
	stationHandler := &handlers.StationHandler{Deps: deps}

	router := mux.NewRouter()
	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	router.HandleFunc("/routes/optimize", routeHandler.Optimize).Methods(http.MethodPost)
	router.HandleFunc("/routes/nearest-station", routeHandler.NearestStation).Methods(http.MethodGet)
	router.HandleFunc("/routes/direct-route", routeHandler.DirectRoute).Methods(http.MethodGet)

	router.HandleFunc("/stations/nearby", stationHandler.Nearby).Methods(http.MethodGet)
	router.HandleFunc("/stations/search", stationHandler.Search).Methods(http.MethodPost)
	router.HandleFunc("/stations/route", stationHandler.AlongRoute).Methods(http.MethodPost)

	router.Use(requestIDMiddleware, loggingMiddleware(deps.Log))

	return router
}
