package handlers

import (
	"net/http"

	"charging-route-service/internal/platform/logger"
)

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, logger.NopLogger{}, http.StatusOK, map[string]string{"status": "ok"})
}
