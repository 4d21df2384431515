package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UpstreamSuccess         uint64
	UpstreamAPIErrors       uint64
	UpstreamTransportErrors uint64
	ConfigErrors            uint64
	UpstreamDurationCount   uint64
	UpstreamDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	upstreamSuccess         uint64
	upstreamAPIErrors       uint64
	upstreamTransportErrors uint64
	configErrors            uint64
	upstreamDurationCount   uint64
	upstreamDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UpstreamSuccess:         atomic.LoadUint64(&m.upstreamSuccess),
		UpstreamAPIErrors:       atomic.LoadUint64(&m.upstreamAPIErrors),
		UpstreamTransportErrors: atomic.LoadUint64(&m.upstreamTransportErrors),
		ConfigErrors:            atomic.LoadUint64(&m.configErrors),
		UpstreamDurationCount:   atomic.LoadUint64(&m.upstreamDurationCount),
		UpstreamDurationTotalNs: atomic.LoadInt64(&m.upstreamDurationTotalNs),
	}
}

// IncUpstreamRequest increments the counter for outcome. Unknown labels are ignored.
func (m *InMemoryRecorder) IncUpstreamRequest(outcome string) {
	switch outcome {
	case OutcomeSuccess:
		atomic.AddUint64(&m.upstreamSuccess, 1)
	case OutcomeAPIError:
		atomic.AddUint64(&m.upstreamAPIErrors, 1)
	case OutcomeTransport:
		atomic.AddUint64(&m.upstreamTransportErrors, 1)
	case OutcomeConfigError:
		atomic.AddUint64(&m.configErrors, 1)
	}
}

// ObserveUpstreamDuration records provider call latency.
func (m *InMemoryRecorder) ObserveUpstreamDuration(duration time.Duration) {
	atomic.AddUint64(&m.upstreamDurationCount, 1)
	atomic.AddInt64(&m.upstreamDurationTotalNs, duration.Nanoseconds())
}
