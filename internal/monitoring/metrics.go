package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the server's prometheus collectors
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DashboardPart       *prometheus.HistogramVec
	DashboardFailures   *prometheus.CounterVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerflow_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerflow_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		DashboardPart: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerflow_dashboard_part_duration_seconds",
				Help:    "Duration of each dashboard sub-computation",
				Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"part"},
		),
		DashboardFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerflow_dashboard_failures_total",
				Help: "Failed dashboard sub-computations",
			},
			[]string{"part"},
		),
	}

	reg.MustRegister(m.HTTPRequests, m.HTTPRequestDuration, m.DashboardPart, m.DashboardFailures)
	return m
}

// ObservePart records one dashboard sub-computation
// It satisfies dashboard.Observer
func (m *Metrics) ObservePart(part string, d time.Duration, err error) {
	m.DashboardPart.WithLabelValues(part).Observe(d.Seconds())
	if err != nil {
		m.DashboardFailures.WithLabelValues(part).Inc()
	}
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
