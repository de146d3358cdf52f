package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics()

	m.RecordSuggestion(OutcomeMatched)
	m.RecordSuggestion(OutcomeMatched)
	m.RecordSuggestion(OutcomeEmpty)
	m.RecordLookup(OutcomeNotFound)
	m.RecordAssistant(OutcomeUnavailable)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.suggestions.WithLabelValues(OutcomeMatched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.suggestions.WithLabelValues(OutcomeEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues(OutcomeNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assistant.WithLabelValues(OutcomeUnavailable)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordSuggestion(OutcomeMatched)
		m.RecordLookup(OutcomeFound)
		m.RecordAssistant(OutcomeFailed)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RecordSuggestion(OutcomeMatched)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `recipehelper_suggestions_total{outcome="matched"} 1`)
}
