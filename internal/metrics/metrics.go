// Package metrics exposes Prometheus instrumentation for the engine's
// LLM calls and orchestration outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LLMRequestsTotal counts completion calls by operation and status.
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_llm_requests_total",
			Help: "Total number of LLM completion requests.",
		},
		[]string{"operation", "status"},
	)

	// LLMRequestDuration observes completion call latency.
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bazaar_llm_request_duration_seconds",
			Help:    "Histogram of LLM request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// LLMPromptTokens observes prompt token counts reported by the API.
	LLMPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bazaar_llm_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20),
		},
		[]string{"operation"},
	)

	// LLMCompletionTokens observes completion token counts.
	LLMCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bazaar_llm_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(100, 100, 20),
		},
		[]string{"operation"},
	)

	// RouteDecisionsTotal counts router outcomes by decision kind.
	RouteDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_route_decisions_total",
			Help: "Total router decisions by kind.",
		},
		[]string{"kind"},
	)

	// PipelineOutcomesTotal counts pipeline terminal states.
	PipelineOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bazaar_pipeline_outcomes_total",
			Help: "Total generation pipeline runs by terminal state.",
		},
		[]string{"state"},
	)
)
