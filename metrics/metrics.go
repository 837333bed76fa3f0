// Package metrics exposes Prometheus instrumentation for Vestige.
//
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vestige"

// Store outcomes.
const (
	OutcomeCreated     = "created"
	OutcomeResubmitted = "resubmitted"
)

// Metrics holds the Vestige collectors.
type Metrics struct {
	documentsStored *prometheus.CounterVec
	searches        *prometheus.CounterVec
	searchDuration  prometheus.Histogram
	feedback        *prometheus.CounterVec
	outputs         *prometheus.CounterVec
	agentRequests   *prometheus.CounterVec
	agentDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is useful in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		documentsStored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_stored_total",
				Help:      "Documents stored, by whether the body was new",
			},
			[]string{"outcome"}, // "created" / "resubmitted"
		),
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Searches run, by ranking mode",
			},
			[]string{"mode"},
		),
		searchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Search duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		feedback: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feedback_total",
				Help:      "Feedback events recorded, by whether the search was known",
			},
			[]string{"search"}, // "known" / "unknown"
		),
		outputs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outputs_total",
				Help:      "Agent outputs stored, by type",
			},
			[]string{"type"},
		),
		agentRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "agent_requests_total",
				Help:      "Agent requests, by agent and status",
			},
			[]string{"agent", "status"},
		),
		agentDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "agent_request_duration_seconds",
				Help:      "Agent request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"agent"},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.documentsStored,
			m.searches,
			m.searchDuration,
			m.feedback,
			m.outputs,
			m.agentRequests,
			m.agentDuration,
		)
	}
	return m
}

// DocumentStored counts a stored document. Version 1 means the body was new.
func (m *Metrics) DocumentStored(version int) {
	if m == nil {
		return
	}
	outcome := OutcomeResubmitted
	if version <= 1 {
		outcome = OutcomeCreated
	}
	m.documentsStored.WithLabelValues(outcome).Inc()
}

// SearchCompleted counts a search and observes its duration.
func (m *Metrics) SearchCompleted(mode string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(mode).Inc()
	m.searchDuration.Observe(elapsed.Seconds())
}

// FeedbackRecorded counts a feedback event.
func (m *Metrics) FeedbackRecorded(known bool) {
	if m == nil {
		return
	}
	label := "unknown"
	if known {
		label = "known"
	}
	m.feedback.WithLabelValues(label).Inc()
}

// OutputStored counts a stored agent output.
func (m *Metrics) OutputStored(outputType string) {
	if m == nil {
		return
	}
	m.outputs.WithLabelValues(outputType).Inc()
}

// AgentRequest counts an agent call and observes its duration.
// status is the response status, or "error" when the call failed.
func (m *Metrics) AgentRequest(agent, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.agentRequests.WithLabelValues(agent, status).Inc()
	m.agentDuration.WithLabelValues(agent).Observe(elapsed.Seconds())
}
