package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/cchalm/groq-multitool/internal/ai"
)

func TestToolMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewToolMetrics(reg)

	m.ObserveInvocation(ToolChat, OutcomeOK)
	m.ObserveInvocation(ToolChat, OutcomeOK)
	m.ObserveInvocation(ToolExtract, OutcomeInvalidJSON)
	m.ObserveTruncation()
	m.ObserveCompletionLatency(ToolSummarize, 0.25)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.invocations.WithLabelValues(ToolChat, OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invocations.WithLabelValues(ToolExtract, OutcomeInvalidJSON)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.truncations))
	assert.Equal(t, 1, testutil.CollectAndCount(m.completionLatency))
}

func TestToolMetrics_NilIsSafe(t *testing.T) {
	var m *ToolMetrics
	assert.NotPanics(t, func() {
		m.ObserveInvocation(ToolChat, OutcomeOK)
		m.ObserveCompletionLatency(ToolChat, 1)
		m.ObserveTruncation()
	})
}

func TestCompletionOutcome(t *testing.T) {
	local := fmt.Errorf("%w: model id is required", ai.ErrInvalidRequest)
	assert.Equal(t, OutcomeInvalidRequest, CompletionOutcome(local))

	remote := ai.NewRemoteError("groq", ai.ErrCodeTimeout, "completion request failed", errors.New("deadline"))
	assert.Equal(t, OutcomeRemoteError, CompletionOutcome(remote))
	assert.Equal(t, OutcomeRemoteError, CompletionOutcome(fmt.Errorf("failed to get chat reply: %w", remote)))
}
