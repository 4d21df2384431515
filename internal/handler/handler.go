// Package handler provides HTTP request handlers.
package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Endpoints lists the public routes advertised by the discovery document.
type Endpoints struct {
	AllCities  string `json:"allCities"`
	CityByName string `json:"cityByName"`
	Health     string `json:"health"`
}

// DiscoveryResponse is returned from GET /.
type DiscoveryResponse struct {
	Message   string    `json:"message"`
	Endpoints Endpoints `json:"endpoints"`
}

// DefaultEndpoints are the routes mounted at the root.
var DefaultEndpoints = Endpoints{
	AllCities:  "/weather",
	CityByName: "/weather/city/:locationName",
	Health:     "/health",
}

// Handler serves the discovery document and fallback responses.
type Handler struct {
	endpoints Endpoints
	logger    *slog.Logger
}

// New creates a new Handler instance.
func New(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		endpoints: DefaultEndpoints,
		logger:    logger,
	}
}

// Root lists the available endpoints.
// GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DiscoveryResponse{
		Message:   "Welcome to the CWA weather proxy API",
		Endpoints: h.endpoints,
	})
}

// NotFound handles 404 responses, including unsupported methods on known paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"error": "route not found",
	}
	writeJSON(w, http.StatusNotFound, response)
}

// writeJSON writes a JSON response with the given status code.
// The body is encoded before the header is sent so an encoding failure
// still produces a well-formed 500. HTML characters are not escaped, so
// upstream strings pass through byte for byte.
func writeJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"error":"server error","message":"failed to encode response"}` + "\n")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
