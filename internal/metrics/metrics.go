// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Gate outcomes
const (
	GateAccepted  = "accepted"
	GateRejected  = "rejected"
	GateUnhealthy = "storage_error"
)

// Metrics contains the application collectors and the registry they live in
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	GateOutcomes    *prometheus.CounterVec
	ScoresRecorded  *prometheus.CounterVec
}

// New creates collectors in a fresh registry, alongside the Go runtime and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ftd_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ftd_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		GateOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ftd_gate_outcomes_total",
				Help: "Credential checks by outcome and reason",
			},
			[]string{"outcome", "reason"},
		),
		ScoresRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ftd_scores_recorded_total",
				Help: "Game results recorded by difficulty",
			},
			[]string{"difficulty"},
		),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.RequestDuration,
		m.GateOutcomes,
		m.ScoresRecorded,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordRequest counts a finished HTTP request
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordGate counts a credential check. reason is empty for accepted checks.
func (m *Metrics) RecordGate(outcome, reason string) {
	m.GateOutcomes.WithLabelValues(outcome, reason).Inc()
}

// RecordScore counts a recorded game result
func (m *Metrics) RecordScore(difficulty string) {
	m.ScoresRecorded.WithLabelValues(difficulty).Inc()
}
