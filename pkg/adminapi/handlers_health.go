package adminapi

import (
	"context"
	"net/http"
	"time"

	internalserver "github.com/trtpd/trtpd/internal/server"
)

// healthCheckTimeout bounds how long the account store's Healthcheck may
// take before a liveness probe gives up and reports unhealthy.
const healthCheckTimeout = 5 * time.Second

type healthHandler struct {
	state *internalserver.State
}

func newHealthHandler(state *internalserver.State) *healthHandler {
	return &healthHandler{state: state}
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Sessions  int       `json:"sessions,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Liveness handles GET /health. It always succeeds once the HTTP server is
// responding; it does not touch the account store.
func (h *healthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	WriteJSONOK(w, healthResponse{Status: "healthy", Timestamp: time.Now().UTC()})
}

// Readiness handles GET /health/ready, checking that the account store
// backing the TRTP listener is reachable.
func (h *healthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.state.Healthcheck(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:    "unhealthy",
			Timestamp: time.Now().UTC(),
			Error:     err.Error(),
		})
		return
	}

	WriteJSONOK(w, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Sessions:  h.state.Count(),
	})
}
