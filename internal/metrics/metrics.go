// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Upstream outcome labels.
const (
	OutcomeSuccess     = "success"
	OutcomeAPIError    = "api_error"
	OutcomeTransport   = "transport_error"
	OutcomeConfigError = "config_error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// IncUpstreamRequest counts one weather request by outcome label.
	IncUpstreamRequest(outcome string)
	// ObserveUpstreamDuration records the latency of one provider call.
	ObserveUpstreamDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
