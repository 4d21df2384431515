package handler

import (
	"fmt"
	"net/http"

	"github.com/cwaproxy/cwaproxy/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "weatherproxy_requests_total{outcome=\"success\"} %d\n", snap.UpstreamSuccess)
	writeMetric(w, "weatherproxy_requests_total{outcome=\"api_error\"} %d\n", snap.UpstreamAPIErrors)
	writeMetric(w, "weatherproxy_requests_total{outcome=\"transport_error\"} %d\n", snap.UpstreamTransportErrors)
	writeMetric(w, "weatherproxy_requests_total{outcome=\"config_error\"} %d\n", snap.ConfigErrors)

	writeMetric(w, "weatherproxy_upstream_duration_seconds_count %d\n", snap.UpstreamDurationCount)
	writeMetric(w, "weatherproxy_upstream_duration_seconds_sum %.6f\n", float64(snap.UpstreamDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
