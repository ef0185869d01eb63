package ai

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Completer is the capability the tools depend on: send messages, get back the text of the first choice
type Completer interface {
	Complete(ctx context.Context, messages []Message, modelID string, temperature float64) (string, error)
}

// Backend performs exactly one provider call for a validated request. Implementations must not retry.
type Backend interface {
	// Name identifies the provider in errors, logs and spans
	Name() string
	// Send returns the text of the first choice, or "" if the provider returned empty content
	Send(ctx context.Context, req GenerationRequest) (string, error)
}

// Client validates generation requests, hands them to a Backend and normalizes failures into RemoteError
type Client struct {
	backend Backend
	tracer  trace.Tracer
	logger  *zap.Logger
}

type ClientOption func(*Client)

func WithTracer(tracer trace.Tracer) ClientOption {
	return func(c *Client) { c.tracer = tracer }
}

func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

func NewClient(backend Backend, opts ...ClientOption) *Client {
	c := &Client{
		backend: backend,
		tracer:  noop.NewTracerProvider().Tracer(""),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends messages to the remote model and returns the text of the first choice. An empty completion is
// returned as "" with a nil error; callers must handle it.
func (c *Client) Complete(ctx context.Context, messages []Message, modelID string, temperature float64) (string, error) {
	req, err := NewGenerationRequest(modelID, temperature, messages)
	if err != nil {
		return "", err
	}

	ctx, span := c.tracer.Start(ctx, "ai.complete", trace.WithAttributes(
		attribute.String("ai.provider", c.backend.Name()),
		attribute.String("ai.model", req.Model),
		attribute.Float64("ai.temperature", req.Temperature),
		attribute.Int("ai.messages", len(req.Messages)),
	))
	defer span.End()

	start := time.Now()
	text, err := c.backend.Send(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		var remoteErr *RemoteError
		if !errors.As(err, &remoteErr) {
			remoteErr = NewRemoteError(c.backend.Name(), codeForTransportError(err), "completion request failed", err)
		}
		span.RecordError(remoteErr)
		span.SetStatus(codes.Error, remoteErr.Code)
		span.SetAttributes(attribute.String("ai.outcome", remoteErr.Code))
		c.logger.Warn("Completion failed",
			zap.String("provider", c.backend.Name()),
			zap.String("model", req.Model),
			zap.String("code", remoteErr.Code),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return "", remoteErr
	}

	span.SetAttributes(
		attribute.String("ai.outcome", "ok"),
		attribute.Int("ai.response.length", len(text)),
	)
	if text == "" {
		c.logger.Warn("Completion returned empty content", zap.String("model", req.Model))
	}
	c.logger.Debug("Completion finished",
		zap.String("provider", c.backend.Name()),
		zap.String("model", req.Model),
		zap.Int("messages", len(req.Messages)),
		zap.Int("response_length", len(text)),
		zap.Duration("elapsed", elapsed),
	)
	return text, nil
}
