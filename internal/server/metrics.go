package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nao1215/breachscan/internal/model"
)

// metrics holds the collectors exported on /metrics.
// Each Server owns its registry so that tests can build many servers.
type metrics struct {
	registry *prometheus.Registry

	checks         *prometheus.CounterVec
	checkDuration  prometheus.Histogram
	emailLookups   *prometheus.CounterVec
	passwordLookup *prometheus.CounterVec
	rejected       *prometheus.CounterVec
	inflight       prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),

		// Labels: risk (low, medium, high)
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "breachscan",
			Name:      "checks_total",
			Help:      "Completed credential checks by risk level",
		}, []string{"risk"}),

		checkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "breachscan",
			Name:      "check_duration_seconds",
			Help:      "Wall time of a complete check including the courtesy pause",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 45},
		}),

		// Labels: status (found, not_found, unknown)
		emailLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "breachscan",
			Subsystem: "email",
			Name:      "lookups_total",
			Help:      "Email breach probe results by status",
		}, []string{"status"}),

		// Labels: status (seen, clean, unknown)
		passwordLookup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "breachscan",
			Subsystem: "password",
			Name:      "lookups_total",
			Help:      "Password range lookups by result",
		}, []string{"status"}),

		// Labels: reason (invalid_body, invalid_email, empty_password, busy)
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "breachscan",
			Name:      "rejected_requests_total",
			Help:      "Check requests rejected before any lookup",
		}, []string{"reason"}),

		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "breachscan",
			Name:      "checks_inflight",
			Help:      "Checks currently running",
		}),
	}

	m.registry.MustRegister(
		m.checks,
		m.checkDuration,
		m.emailLookups,
		m.passwordLookup,
		m.rejected,
		m.inflight,
		collectors.NewGoCollector(),
	)
	return m
}

// observe records a finished check.
func (m *metrics) observe(report *model.CheckReport) {
	m.checks.WithLabelValues(report.Risk.Level.String()).Inc()
	m.checkDuration.Observe(report.Duration().Seconds())
	m.emailLookups.WithLabelValues(report.Email.Status.String()).Inc()

	status := "unknown"
	if count, ok := report.Password.Value(); ok {
		status = "clean"
		if count > 0 {
			status = "seen"
		}
	}
	m.passwordLookup.WithLabelValues(status).Inc()
}
