package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(nil)

	m.DocumentStored(1)
	m.DocumentStored(2)
	m.DocumentStored(3)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documentsStored.WithLabelValues(OutcomeCreated)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.documentsStored.WithLabelValues(OutcomeResubmitted)))

	m.SearchCompleted("reranked", 10*time.Millisecond)
	m.SearchCompleted("similarity", time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searches.WithLabelValues("reranked")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.searchDuration))

	m.FeedbackRecorded(true)
	m.FeedbackRecorded(false)
	m.FeedbackRecorded(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedback.WithLabelValues("known")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.feedback.WithLabelValues("unknown")))

	m.OutputStored("writer")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outputs.WithLabelValues("writer")))

	m.AgentRequest("reviewer", "success", time.Second)
	m.AgentRequest("reviewer", "error", time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.agentRequests.WithLabelValues("reviewer", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.agentDuration))
}

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.DocumentStored(1)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "vestige_documents_stored_total")

	assert.Panics(t, func() { New(reg) }, "duplicate registration")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.DocumentStored(1)
		m.SearchCompleted("similarity", time.Second)
		m.FeedbackRecorded(true)
		m.OutputStored("writer")
		m.AgentRequest("writer", "success", time.Second)
	})
}
