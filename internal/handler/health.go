package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	credential HealthChecker
	now        func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for credential if readiness should not check it.
func NewHealthHandler(credential HealthChecker) *HealthHandler {
	return &HealthHandler{
		credential: credential,
		now:        time.Now,
	}
}

// HealthResponse is the liveness response.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health is a liveness probe endpoint. The timestamp is taken per call.
//
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "OK",
		Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

// Ready is a readiness probe endpoint.
// It returns 503 while the upstream credential is missing.
//
// GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if h.credential != nil {
		if err := h.credential.Ping(ctx); err != nil {
			checks["credential"] = err.Error()
			healthy = false
		} else {
			checks["credential"] = "ok"
		}
	} else {
		checks["credential"] = "not checked"
	}

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, ReadyResponse{
		Status: status,
		Checks: checks,
	})
}
