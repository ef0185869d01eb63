package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cchalm/groq-multitool/internal/ai"
	"github.com/cchalm/groq-multitool/internal/metrics"
)

// Session is one user's chat: the conversation log plus what is needed to extend it. A Session must not be used by
// more than one caller at a time.
type Session struct {
	ID string

	completer    ai.Completer
	model        string
	conversation Conversation

	logger  *zap.Logger
	metrics *metrics.ToolMetrics
}

// NewSession starts an empty session. logger and m may be nil.
func NewSession(completer ai.Completer, model string, logger *zap.Logger, m *metrics.ToolMetrics) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New().String()
	return &Session{
		ID:        id,
		completer: completer,
		model:     model,
		logger:    logger.With(zap.String("session_id", id)),
		metrics:   m,
	}
}

// Send handles one chat message: it builds the context from the current settings, makes one completion call and,
// on success only, records the user message and the decorated reply. On failure the log is left untouched.
func (s *Session) Send(ctx context.Context, settings Settings, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		s.metrics.ObserveInvocation(metrics.ToolChat, metrics.OutcomeEmptyInput)
		return "", fmt.Errorf("%w: message is blank", ai.ErrEmptyInput)
	}

	pending := ai.NewUserMessage(input)
	msgs := BuildContext(settings, s.conversation.Messages(), pending)

	start := time.Now()
	answer, err := s.completer.Complete(ctx, msgs, s.model, settings.Temperature)
	s.metrics.ObserveCompletionLatency(metrics.ToolChat, time.Since(start).Seconds())
	if err != nil {
		s.metrics.ObserveInvocation(metrics.ToolChat, metrics.CompletionOutcome(err))
		return "", fmt.Errorf("failed to get chat reply: %w", err)
	}
	if answer == "" {
		s.logger.Warn("Model returned an empty reply")
	}

	reply := Decorate(answer)
	// Both appends are of valid roles and cannot fail
	_ = s.conversation.Append(pending)
	_ = s.conversation.Append(ai.NewAssistantMessage(reply))

	s.metrics.ObserveInvocation(metrics.ToolChat, metrics.OutcomeOK)
	s.logger.Debug("Chat turn completed",
		zap.Int("context_messages", len(msgs)),
		zap.Int("log_length", s.conversation.Len()),
	)
	return reply, nil
}

// Conversation returns the session's log for rendering and export
func (s *Session) Conversation() *Conversation {
	return &s.conversation
}

// Clear empties the conversation at the user's request
func (s *Session) Clear() {
	s.conversation.Clear()
	s.logger.Debug("Conversation cleared")
}
