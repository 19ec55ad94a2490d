// Package metrics exposes HeartLink's Prometheus counters. All methods are
// safe to call on a nil *Metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "heartlink"

// LLM call kinds and outcomes.
const (
	KindLetter     = "letter"
	KindPersuasion = "persuasion"

	OutcomeOK    = "ok"
	OutcomeError = "error"
)

type Metrics struct {
	registry            *prometheus.Registry
	proposalsCreated    prometheus.Counter
	proposalsAnswered   *prometheus.CounterVec
	llmRequests         *prometheus.CounterVec
	persuasionFallbacks prometheus.Counter
}

// New registers the counters, plus Go runtime and process collectors, on a
// private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		proposalsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_created_total",
			Help:      "Proposals created.",
		}),
		proposalsAnswered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_answered_total",
			Help:      "Proposals answered, by answer.",
		}, []string{"status"}),
		llmRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Language model calls, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		persuasionFallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persuasion_fallbacks_total",
			Help:      "No-button texts served from the fallback list.",
		}),
	}
}

func (m *Metrics) ProposalCreated() {
	if m != nil {
		m.proposalsCreated.Inc()
	}
}

func (m *Metrics) ProposalAnswered(status string) {
	if m != nil {
		m.proposalsAnswered.WithLabelValues(status).Inc()
	}
}

// LLMRequest counts one call of kind; err decides the outcome label.
func (m *Metrics) LLMRequest(kind string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.llmRequests.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) PersuasionFallback() {
	if m != nil {
		m.persuasionFallbacks.Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
