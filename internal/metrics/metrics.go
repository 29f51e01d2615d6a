package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"SheetSentinel/internal/model"
)

// Run outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeFetchError = "fetch_error"
	OutcomeError      = "analysis_error"
)

// Metrics holds the Prometheus metrics for analysis runs.
type Metrics struct {
	Runs          *prometheus.CounterVec // labels: outcome
	Signals       *prometheus.CounterVec // labels: kind
	RunDuration   prometheus.Histogram
	LastStrength  prometheus.Gauge
	LastRun       prometheus.Gauge
	FetchFailures prometheus.Counter
	Notifications *prometheus.CounterVec // labels: result
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sheetsentinel_runs_total",
			Help: "Analysis runs by outcome",
		}, []string{"outcome"}),
		Signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sheetsentinel_signals_total",
			Help: "Signals emitted by kind",
		}, []string{"kind"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sheetsentinel_run_duration_seconds",
			Help:    "Fetch and analysis latency",
			Buckets: prometheus.DefBuckets,
		}),
		LastStrength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sheetsentinel_last_signal_strength",
			Help: "Strength of the most recent signal",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sheetsentinel_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sheetsentinel_fetch_failures_total",
			Help: "Data source fetch failures",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sheetsentinel_notifications_total",
			Help: "Notifications sent by result",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.Runs,
		m.Signals,
		m.RunDuration,
		m.LastStrength,
		m.LastRun,
		m.FetchFailures,
		m.Notifications,
	)
	return m
}

// ObserveSuccess records a completed run.
func (m *Metrics) ObserveSuccess(sig model.Signal, took time.Duration) {
	m.Runs.WithLabelValues(OutcomeOK).Inc()
	m.Signals.WithLabelValues(string(sig.Kind)).Inc()
	m.RunDuration.Observe(took.Seconds())
	m.LastStrength.Set(sig.Strength)
	m.LastRun.SetToCurrentTime()
}

// ObserveFailure records a failed run. fetch distinguishes source failures.
func (m *Metrics) ObserveFailure(fetch bool, took time.Duration) {
	m.RunDuration.Observe(took.Seconds())
	if fetch {
		m.FetchFailures.Inc()
		m.Runs.WithLabelValues(OutcomeFetchError).Inc()
		return
	}
	m.Runs.WithLabelValues(OutcomeError).Inc()
}

// ObserveNotification records a notification attempt.
func (m *Metrics) ObserveNotification(err error) {
	if err != nil {
		m.Notifications.WithLabelValues("error").Inc()
		return
	}
	m.Notifications.WithLabelValues("sent").Inc()
}
