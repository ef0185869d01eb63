package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cchalm/groq-multitool/internal/ai"
	"github.com/cchalm/groq-multitool/internal/export"
	"github.com/cchalm/groq-multitool/internal/metrics"
)

// Request holds the summarizer settings and input for one click of "Summarize"
type Request struct {
	Text        string
	Length      Length
	Tone        Tone
	Format      Format
	Temperature float64
}

// Result is the summary shown to the user. Truncated is set when the input exceeded MaxInputChars; hosts must tell
// the user.
type Result struct {
	Summary   string
	Truncated bool
}

// Artifact returns the summary as a downloadable file
func (r Result) Artifact() export.Artifact {
	return export.Artifact{Filename: "summary.txt", MIMEType: export.MIMEText, Data: []byte(r.Summary)}
}

type Summarizer struct {
	completer ai.Completer
	model     string
	logger    *zap.Logger
	metrics   *metrics.ToolMetrics
}

// NewSummarizer creates the summarizer tool. logger and m may be nil.
func NewSummarizer(completer ai.Completer, model string, logger *zap.Logger, m *metrics.ToolMetrics) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{completer: completer, model: model, logger: logger, metrics: m}
}

// Summarize makes one completion call for the request. Blank text is rejected without calling the model.
func (s *Summarizer) Summarize(ctx context.Context, req Request) (Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		s.metrics.ObserveInvocation(metrics.ToolSummarize, metrics.OutcomeEmptyInput)
		return Result{}, fmt.Errorf("%w: please paste some text or upload a file", ai.ErrEmptyInput)
	}

	prompt := BuildPrompt(req.Length, req.Tone, req.Format, text)
	if prompt.Truncated {
		s.metrics.ObserveTruncation()
		s.logger.Info("Input truncated", zap.Int("max_chars", MaxInputChars))
	}

	start := time.Now()
	summary, err := s.completer.Complete(ctx, prompt.Messages(), s.model, req.Temperature)
	s.metrics.ObserveCompletionLatency(metrics.ToolSummarize, time.Since(start).Seconds())
	if err != nil {
		s.metrics.ObserveInvocation(metrics.ToolSummarize, metrics.CompletionOutcome(err))
		return Result{}, fmt.Errorf("failed to summarize: %w", err)
	}

	s.metrics.ObserveInvocation(metrics.ToolSummarize, metrics.OutcomeOK)
	return Result{Summary: Finalize(summary), Truncated: prompt.Truncated}, nil
}
