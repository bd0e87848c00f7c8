// Package metrics holds the prometheus collectors instrumenting the cloud
// api client. The registry is optional; a nil *Registry is safe to use and
// records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the client.
type Registry struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	RequestsInFlight  prometheus.Gauge
	AuthFailuresTotal prometheus.Counter
}

// NewRegistry creates the collectors and registers them with the given
// registerer (prometheus.DefaultRegisterer is a reasonable choice).
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "swiftcloud_requests_total",
			Help: "Cloud api requests by operation and status code",
		}, []string{"operation", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "swiftcloud_request_duration_seconds",
			Help:    "Cloud api request latency by operation",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"operation"}),
		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "swiftcloud_requests_in_flight",
			Help: "Cloud api requests currently awaiting a response",
		}),
		AuthFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swiftcloud_auth_failures_total",
			Help: "Requests rejected by the cloud api for authentication reasons",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.RequestsTotal, r.RequestDuration, r.RequestsInFlight, r.AuthFailuresTotal)
	}
	return r
}

// RecordRequest records one completed request.
func (r *Registry) RecordRequest(operation, status string, duration time.Duration) {
	if r == nil {
		return
	}
	r.RequestsTotal.WithLabelValues(operation, status).Inc()
	r.RequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordAuthFailure counts an authentication rejection.
func (r *Registry) RecordAuthFailure() {
	if r == nil {
		return
	}
	r.AuthFailuresTotal.Inc()
}

// TrackInFlight increments the in-flight gauge and returns the matching
// decrement.
func (r *Registry) TrackInFlight() func() {
	if r == nil {
		return func() {}
	}
	r.RequestsInFlight.Inc()
	return r.RequestsInFlight.Dec
}
