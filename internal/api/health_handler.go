package api

import (
	"net/http"

	"github.com/styleshift/styleshift-api/internal/api/shared"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	port int
}

// NewHealthHandler creates a HealthHandler reporting the given port.
func NewHealthHandler(port int) *HealthHandler {
	return &HealthHandler{port: port}
}

// Health handles GET /api/health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{OK: true, Port: h.port})
}
