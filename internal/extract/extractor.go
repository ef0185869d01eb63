package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cchalm/groq-multitool/internal/ai"
	"github.com/cchalm/groq-multitool/internal/metrics"
)

// Request holds the fields to extract and the source text for one click of "Extract JSON"
type Request struct {
	Text   string
	Fields Schema
}

type Extractor struct {
	completer ai.Completer
	model     string
	logger    *zap.Logger
	metrics   *metrics.ToolMetrics
}

// NewExtractor creates the extractor tool. logger and m may be nil.
func NewExtractor(completer ai.Completer, model string, logger *zap.Logger, m *metrics.ToolMetrics) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{completer: completer, model: model, logger: logger, metrics: m}
}

// Extract makes one completion call and parses the reply. If the reply is not valid JSON the returned error is an
// *InvalidJSONError holding the cleaned text, which hosts show instead of the structure.
func (e *Extractor) Extract(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		e.metrics.ObserveInvocation(metrics.ToolExtract, metrics.OutcomeEmptyInput)
		return Result{}, fmt.Errorf("%w: please provide text for extraction", ai.ErrEmptyInput)
	}
	if len(req.Fields) == 0 {
		e.metrics.ObserveInvocation(metrics.ToolExtract, metrics.OutcomeEmptyInput)
		return Result{}, fmt.Errorf("%w: please choose at least one field", ai.ErrEmptyInput)
	}

	prompt := BuildPrompt(req.Fields, req.Text)

	start := time.Now()
	output, err := e.completer.Complete(ctx, prompt.Messages(), e.model, Temperature)
	e.metrics.ObserveCompletionLatency(metrics.ToolExtract, time.Since(start).Seconds())
	if err != nil {
		e.metrics.ObserveInvocation(metrics.ToolExtract, metrics.CompletionOutcome(err))
		return Result{}, fmt.Errorf("failed to extract fields: %w", err)
	}

	result, err := Parse(output)
	if err != nil {
		var invalid *InvalidJSONError
		if errors.As(err, &invalid) {
			e.logger.Warn("Model returned invalid JSON", zap.Int("length", len(invalid.Text)), zap.Error(invalid.Err))
		}
		e.metrics.ObserveInvocation(metrics.ToolExtract, metrics.OutcomeInvalidJSON)
		return Result{}, err
	}

	if c := result.Conformance(req.Fields); !c.OK() {
		e.logger.Warn("Extracted JSON does not match the requested fields",
			zap.Strings("missing", c.Missing),
			zap.Strings("extra", c.Extra),
		)
	}
	e.metrics.ObserveInvocation(metrics.ToolExtract, metrics.OutcomeOK)
	return result, nil
}
