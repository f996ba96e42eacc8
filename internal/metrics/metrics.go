// README: Prometheus collectors for toll calculations and HTTP traffic on a dedicated registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeCharged = "charged"
	OutcomeFree    = "free"
	OutcomeSkipped = "skipped"
	OutcomeInvalid = "invalid"
)

type Metrics struct {
	registry *prometheus.Registry

	Calculations      *prometheus.CounterVec
	FeeAmount         prometheus.Histogram
	PassagesPerCall   prometheus.Histogram
	HTTPRequests      *prometheus.CounterVec
	HTTPRequestTiming *prometheus.HistogramVec
}

// New registers every collector on reg. A nil reg gets a fresh registry
// carrying the Go and process collectors.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: reg,
		Calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toll_calculations_total",
				Help: "Total number of toll fee calculations",
			},
			[]string{"endpoint", "outcome"},
		),
		FeeAmount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "toll_fee_amount",
				Help:    "Computed toll fee distribution",
				Buckets: []float64{0, 8, 13, 18, 30, 44, 60, 120, 300},
			},
		),
		PassagesPerCall: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "toll_passages_per_request",
				Help:    "Number of passages submitted per calculation",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 500},
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestTiming: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	reg.MustRegister(m.Calculations, m.FeeAmount, m.PassagesPerCall, m.HTTPRequests, m.HTTPRequestTiming)
	return m
}

func (m *Metrics) RecordCalculation(endpoint, outcome string, fee, passages int) {
	m.Calculations.WithLabelValues(endpoint, outcome).Inc()
	if outcome == OutcomeInvalid {
		return
	}
	m.FeeAmount.Observe(float64(fee))
	m.PassagesPerCall.Observe(float64(passages))
}

func (m *Metrics) RecordHTTP(method, path, status string, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestTiming.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
