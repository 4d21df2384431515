package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cwaproxy/cwaproxy/internal/model"
	"github.com/cwaproxy/cwaproxy/internal/service"
	"github.com/cwaproxy/cwaproxy/internal/upstream"
)

// Error envelope texts.
const (
	errConfig        = "server configuration error"
	errUpstream      = "upstream API error"
	errServer        = "server error"
	msgTryAgainLater = "unable to retrieve weather data, please try again later"
)

// defaultUpstreamMessage stands in when the provider sent no usable message.
var defaultUpstreamMessage = json.RawMessage(`"unable to retrieve weather data"`)

// Forecaster produces success envelopes for the weather routes.
type Forecaster interface {
	AllLocations(ctx context.Context) (model.Document, error)
	ByLocation(ctx context.Context, locationName string) (model.Document, error)
}

// WeatherHandler serves the forecast routes.
type WeatherHandler struct {
	svc    Forecaster
	logger *slog.Logger
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(svc Forecaster, logger *slog.Logger) *WeatherHandler {
	return &WeatherHandler{
		svc:    svc,
		logger: logger,
	}
}

// All handles GET /weather.
func (h *WeatherHandler) All(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	env, err := h.svc.AllLocations(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "", err)
		return
	}

	h.logger.Info("weather_all_success",
		"fields", env.Len(),
		"duration_ms", float64(time.Since(start).Microseconds())/1000,
	)
	writeJSON(w, http.StatusOK, env)
}

// ByCity handles GET /weather/city/{locationName}.
// The name is forwarded verbatim, non-ASCII included.
func (h *WeatherHandler) ByCity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	locationName := chi.URLParam(r, "locationName")

	// chi matches on RawPath when the request carried a non-canonical escaping.
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(locationName); err == nil {
			locationName = decoded
		}
	}

	env, err := h.svc.ByLocation(r.Context(), locationName)
	if err != nil {
		h.handleServiceError(w, r, locationName, err)
		return
	}

	h.logger.Info("weather_city_success",
		"location_name", locationName,
		"duration_ms", float64(time.Since(start).Microseconds())/1000,
	)
	writeJSON(w, http.StatusOK, env)
}

// handleServiceError maps service errors to HTTP responses.
func (h *WeatherHandler) handleServiceError(w http.ResponseWriter, r *http.Request, locationName string, err error) {
	var apiErr *upstream.APIError

	switch {
	case errors.Is(err, service.ErrCredentialMissing):
		h.logger.Error("weather_config_error",
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   errConfig,
			Message: service.ErrCredentialMissing.Error(),
		})

	case errors.As(err, &apiErr):
		h.logger.Error("weather_upstream_error",
			"path", r.URL.Path,
			"location_name", locationName,
			"upstream_status", apiErr.StatusCode,
			"error", err,
		)
		message := apiErr.Message
		if len(message) == 0 {
			message = defaultUpstreamMessage
		}
		writeJSON(w, apiErr.StatusCode, model.UpstreamErrorResponse{
			Error:   errUpstream,
			Message: message,
			Details: apiErr.Body,
		})

	default:
		h.logger.Error("weather_transport_error",
			"path", r.URL.Path,
			"location_name", locationName,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   errServer,
			Message: msgTryAgainLater,
		})
	}
}
