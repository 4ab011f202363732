package metrics

import (
	"net/http"
	"time"

	"talkie-assistant/conversation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultNamespace = "talkie"

// Metrics counts detections and conversation sessions. It satisfies the
// observer interfaces of the session manager and both poll loops.
type Metrics struct {
	registry *prometheus.Registry

	DetectionsTotal  *prometheus.CounterVec
	PollErrorsTotal  *prometheus.CounterVec
	SessionsStarted  *prometheus.CounterVec
	SessionsRejected *prometheus.CounterVec
	SessionsFailed   *prometheus.CounterVec
	SessionActive    prometheus.Gauge
	SessionDuration  *prometheus.HistogramVec
}

func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		DetectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detections_total",
				Help:      "Positive readings from a detection source",
			},
			[]string{"source"},
		),
		PollErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "poll_errors_total",
				Help:      "Failed sensor or detector calls",
			},
			[]string{"source"},
		),
		SessionsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_started_total",
				Help:      "Conversation sessions started",
			},
			[]string{"trigger"},
		),
		SessionsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_rejected_total",
				Help:      "Triggers ignored because a session was already active",
			},
			[]string{"trigger"},
		),
		SessionsFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_failed_total",
				Help:      "Conversation sessions that ended with an error",
			},
			[]string{"trigger"},
		),
		SessionActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "session_active",
				Help:      "1 while a conversation session is running",
			},
		),
		SessionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "session_duration_seconds",
				Help:      "Conversation session duration in seconds",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"trigger"},
		),
	}

	registry.MustRegister(
		m.DetectionsTotal,
		m.PollErrorsTotal,
		m.SessionsStarted,
		m.SessionsRejected,
		m.SessionsFailed,
		m.SessionActive,
		m.SessionDuration,
	)

	return m
}

func (m *Metrics) Detection(source string) {
	m.DetectionsTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) PollError(source string) {
	m.PollErrorsTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) SessionStarted(trigger conversation.Trigger) {
	m.SessionsStarted.WithLabelValues(string(trigger)).Inc()
	m.SessionActive.Set(1)
}

func (m *Metrics) SessionRejected(trigger conversation.Trigger) {
	m.SessionsRejected.WithLabelValues(string(trigger)).Inc()
}

func (m *Metrics) SessionFinished(trigger conversation.Trigger, took time.Duration, err error) {
	m.SessionActive.Set(0)
	m.SessionDuration.WithLabelValues(string(trigger)).Observe(took.Seconds())

	if err != nil {
		m.SessionsFailed.WithLabelValues(string(trigger)).Inc()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
