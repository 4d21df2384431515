// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cwaproxy/cwaproxy/internal/metrics"
	"github.com/cwaproxy/cwaproxy/internal/model"
	"github.com/cwaproxy/cwaproxy/internal/upstream"
)

// ErrCredentialMissing is returned when no upstream credential is configured.
var ErrCredentialMissing = errors.New("credential not configured")

// Fetcher retrieves a forecast document from the upstream provider.
type Fetcher interface {
	Fetch(ctx context.Context, q upstream.Query) (*model.Document, error)
}

// WeatherService wraps upstream forecasts in the caller-facing envelope.
type WeatherService struct {
	fetcher    Fetcher
	credential string
	metrics    metrics.Recorder
}

// NewWeatherService creates a new WeatherService.
// The credential is captured once and never re-read.
func NewWeatherService(fetcher Fetcher, credential string, recorder metrics.Recorder) *WeatherService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &WeatherService{
		fetcher:    fetcher,
		credential: credential,
		metrics:    recorder,
	}
}

// Ping reports whether weather requests can be served. It never touches the network.
func (s *WeatherService) Ping(ctx context.Context) error {
	return s.checkCredential()
}

// AllLocations returns the 36-hour forecast for every administrative division.
func (s *WeatherService) AllLocations(ctx context.Context) (model.Document, error) {
	return s.forecast(ctx, "")
}

// ByLocation returns the forecast filtered by locationName. The name is
// forwarded verbatim; unknown names are left to the provider.
func (s *WeatherService) ByLocation(ctx context.Context, locationName string) (model.Document, error) {
	return s.forecast(ctx, locationName)
}

func (s *WeatherService) forecast(ctx context.Context, locationName string) (model.Document, error) {
	if err := s.checkCredential(); err != nil {
		s.metrics.IncUpstreamRequest(metrics.OutcomeConfigError)
		return model.Document{}, err
	}

	start := time.Now()
	doc, err := s.fetcher.Fetch(ctx, upstream.Query{
		Authorization: s.credential,
		LocationName:  locationName,
	})
	s.metrics.ObserveUpstreamDuration(time.Since(start))

	if err != nil {
		s.metrics.IncUpstreamRequest(outcomeOf(err))
		return model.Document{}, fmt.Errorf("fetch forecast: %w", err)
	}

	s.metrics.IncUpstreamRequest(metrics.OutcomeSuccess)
	return model.SuccessEnvelope(doc), nil
}

func (s *WeatherService) checkCredential() error {
	if s.credential == "" {
		return ErrCredentialMissing
	}
	return nil
}

func outcomeOf(err error) string {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		return metrics.OutcomeAPIError
	}
	return metrics.OutcomeTransport
}
