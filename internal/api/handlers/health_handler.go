package handlers

import (
	"net/http"

	"github.com/precisionhealth/skinsight-be/internal/monitoring"
)

// HealthHandler serves the root and health endpoints.
type HealthHandler struct {
	appName string
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(appName, version string) *HealthHandler {
	return &HealthHandler{appName: appName, version: version}
}

// Root handles GET /.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": h.appName,
		"version": h.version,
	})
}

// Health handles GET /health with host stats attached. Stats probes degrade
// to zeros; the endpoint itself always reports healthy while serving.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"host":   monitoring.HostSnapshot(),
	})
}
