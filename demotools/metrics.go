package demotools

import "sync/atomic"

// Metrics counts demo tool activity for the metrics:// resource. The counters
// are atomic because gateway deployments may serve invocations concurrently.
type Metrics struct {
	Requests atomic.Int64
	Errors   atomic.Int64
}

// NewMetrics creates a zeroed metrics set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ErrorRate returns errors per request, or zero before the first request.
func (m *Metrics) ErrorRate() float64 {
	requests := m.Requests.Load()
	if requests == 0 {
		return 0
	}
	return float64(m.Errors.Load()) / float64(requests)
}
