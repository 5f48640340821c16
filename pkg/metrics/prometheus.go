package metrics

import (
	"SentiPull/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	messagesSent *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastScore    *prometheus.GaugeVec
	signals      *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
}

// New creates a recorder registered with the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		messagesSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentipull_messages_sent_total",
				Help: "Total number of observations sent to a backend",
			},
			[]string{"backend", "provider"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentipull_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastScore: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sentipull_last_score",
				Help: "Most recent fear and greed score per provider",
			},
			[]string{"provider"},
		),
		signals: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentipull_signals_total",
				Help: "Signals produced by action and trend",
			},
			[]string{"action", "trend"},
		),
		fetchLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentipull_fetch_duration_seconds",
				Help:    "Duration of upstream fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}
}

// RecordFetch records how long a provider fetch took.
func (r *Recorder) RecordFetch(provider string, seconds float64) {
	r.fetchLatency.WithLabelValues(provider).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordScore records the latest score for a provider.
func (r *Recorder) RecordScore(provider string, score float64) {
	r.lastScore.WithLabelValues(provider).Set(score)
}

// RecordSignal counts a produced signal.
func (r *Recorder) RecordSignal(action models.Action, trend models.Trend) {
	r.signals.WithLabelValues(string(action), string(trend)).Inc()
}

// RecordMessageSent records n observations sent to a backend.
func (r *Recorder) RecordMessageSent(backend, provider string, n int) {
	r.messagesSent.WithLabelValues(backend, provider).Add(float64(n))
}
