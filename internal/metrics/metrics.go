// Package metrics exposes Prometheus counters and histograms for tool invocations.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cchalm/groq-multitool/internal/ai"
)

// Tool names used as label values
const (
	ToolChat      = "chat"
	ToolSummarize = "summarize"
	ToolExtract   = "extract"
)

// Outcome label values
const (
	OutcomeOK             = "ok"
	OutcomeEmptyInput     = "empty_input"
	OutcomeInvalidRequest = "invalid_request"
	OutcomeRemoteError    = "remote_error"
	OutcomeInvalidJSON    = "invalid_json"
)

// CompletionOutcome classifies a failed completion call. Only errors from the provider or the transport count as
// remote errors; requests rejected before any network call are invalid_request.
func CompletionOutcome(err error) string {
	if errors.Is(err, ai.ErrRemote) {
		return OutcomeRemoteError
	}
	return OutcomeInvalidRequest
}

// ToolMetrics counts tool invocations by outcome and observes completion latency. A nil *ToolMetrics is valid and
// records nothing.
type ToolMetrics struct {
	invocations       *prometheus.CounterVec
	completionLatency *prometheus.HistogramVec
	truncations       prometheus.Counter
}

func NewToolMetrics(reg prometheus.Registerer) *ToolMetrics {
	m := &ToolMetrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "multitool",
			Subsystem: "tools",
			Name:      "invocations_total",
			Help:      "Total tool invocations by outcome",
		}, []string{"tool", "outcome"}),
		completionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "multitool",
			Subsystem: "tools",
			Name:      "completion_latency_seconds",
			Help:      "Latency of the remote completion call made by each tool",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		truncations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "multitool",
			Subsystem: "summarize",
			Name:      "truncations_total",
			Help:      "Summarizer inputs truncated to the character limit",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.invocations, m.completionLatency, m.truncations)
	return m
}

func (m *ToolMetrics) ObserveInvocation(tool, outcome string) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(tool, outcome).Inc()
}

func (m *ToolMetrics) ObserveCompletionLatency(tool string, seconds float64) {
	if m == nil {
		return
	}
	m.completionLatency.WithLabelValues(tool).Observe(seconds)
}

func (m *ToolMetrics) ObserveTruncation() {
	if m == nil {
		return
	}
	m.truncations.Inc()
}
