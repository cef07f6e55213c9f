package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics records outcome counters and latency for outbound API calls.
type APIMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewAPIMetrics registers the API call metrics on the provided registerer.
// A nil registerer yields a no-op recorder, which keeps tests quiet.
func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	if reg == nil {
		return &APIMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "Duration of outbound API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_request_success",
		Help: "Successful outbound API requests.",
	}, []string{"resource"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_request_failure",
		Help: "Failed outbound API requests.",
	}, []string{"resource"})
	reg.MustRegister(duration, success, failure)
	return &APIMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the latency for the named resource.
func (a *APIMetrics) ObserveDuration(resource string, duration time.Duration) {
	if a == nil || a.duration == nil {
		return
	}
	a.duration.WithLabelValues(normalizeLabel(resource)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named resource.
func (a *APIMetrics) IncSuccess(resource string) {
	if a == nil || a.success == nil {
		return
	}
	a.success.WithLabelValues(normalizeLabel(resource)).Inc()
}

// IncFailure increments the failure counter for the named resource.
func (a *APIMetrics) IncFailure(resource string) {
	if a == nil || a.failure == nil {
		return
	}
	a.failure.WithLabelValues(normalizeLabel(resource)).Inc()
}

func normalizeLabel(resource string) string {
	if resource == "" {
		return "unknown"
	}
	return resource
}
