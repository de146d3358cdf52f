// Package observability exposes Prometheus counters for the recipe engine.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the counters
const (
	OutcomeMatched     = "matched"
	OutcomeEmpty       = "empty"
	OutcomeNoInput     = "no_input"
	OutcomeFound       = "found"
	OutcomeNotFound    = "not_found"
	OutcomeAnswered    = "answered"
	OutcomeUnavailable = "unavailable"
	OutcomeFailed      = "failed"
	OutcomeCacheHit    = "cache_hit"
)

// Metrics holds the counters on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	suggestions *prometheus.CounterVec
	lookups     *prometheus.CounterVec
	assistant   *prometheus.CounterVec
}

// NewMetrics creates and registers the counters
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: reg,
		suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recipehelper",
			Name:      "suggestions_total",
			Help:      "Ingredient queries by outcome.",
		}, []string{"outcome"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recipehelper",
			Name:      "lookups_total",
			Help:      "Recipe selections by outcome.",
		}, []string{"outcome"}),
		assistant: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recipehelper",
			Name:      "assistant_requests_total",
			Help:      "Assistant questions by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.suggestions, m.lookups, m.assistant)

	return m
}

// RecordSuggestion counts one ingredient query
func (m *Metrics) RecordSuggestion(outcome string) {
	if m == nil {
		return
	}
	m.suggestions.WithLabelValues(outcome).Inc()
}

// RecordLookup counts one recipe selection
func (m *Metrics) RecordLookup(outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
}

// RecordAssistant counts one assistant question
func (m *Metrics) RecordAssistant(outcome string) {
	if m == nil {
		return
	}
	m.assistant.WithLabelValues(outcome).Inc()
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
