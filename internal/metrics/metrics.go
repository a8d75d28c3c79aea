// Package metrics defines the Prometheus metrics exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sakif/tdd-playground/internal/model"
)

// ExecutionBuckets covers sandbox runs from a fast failure to well past the default
// 5s deadline, including container start-up.
var ExecutionBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

var (
	// ExecutionsTotal counts finished executions by backend and outcome.
	ExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playground_executions_total",
			Help: "Sandbox executions",
		},
		[]string{"backend", "outcome"},
	)

	// ExecutionDuration records wall-clock execution time in seconds.
	ExecutionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "playground_execution_duration_seconds",
			Help:    "Sandbox execution duration",
			Buckets: ExecutionBuckets,
		},
		[]string{"backend"},
	)

	// ExecutionsInFlight tracks sandboxes currently running.
	ExecutionsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "playground_executions_in_flight",
			Help: "Sandbox executions in flight",
		},
	)

	// RequestsTotal counts HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playground_http_requests_total",
			Help: "HTTP requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "playground_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// ChatStreamsActive tracks open chat SSE streams.
	ChatStreamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "playground_chat_streams_active",
			Help: "Active chat streams",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ExecutionsTotal,
		ExecutionDuration,
		ExecutionsInFlight,
		RequestsTotal,
		RequestDuration,
		ChatStreamsActive,
	)
}

// Outcome returns the label value for a result: "ok" or its error kind.
func Outcome(r model.ExecutionResult) string {
	if r.Error == model.ErrorNone {
		return "ok"
	}
	return string(r.Error)
}

// ObserveExecution records one finished execution.
func ObserveExecution(backend string, r model.ExecutionResult, d time.Duration) {
	ExecutionsTotal.WithLabelValues(backend, Outcome(r)).Inc()
	ExecutionDuration.WithLabelValues(backend).Observe(d.Seconds())
}

// StatusClass collapses an HTTP status code into "2xx", "4xx", ...
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
