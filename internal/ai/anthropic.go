package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const anthropicMaxOutputTokens = 2048

// AnthropicBackend sends generation requests to the Anthropic Messages API
type AnthropicBackend struct {
	client anthropic.Client
	logger *zap.Logger
}

// NewAnthropicBackend creates a backend with the SDK's own retries disabled. httpClient may be nil.
func NewAnthropicBackend(apiKey string, httpClient *http.Client, logger *zap.Logger) *AnthropicBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnthropicBackend{
		client: anthropic.NewClient(opts...),
		logger: logger,
	}
}

func (b *AnthropicBackend) Name() string {
	return "anthropic"
}

func (b *AnthropicBackend) Send(ctx context.Context, req GenerationRequest) (string, error) {
	params := toAnthropicParams(req)

	response, err := b.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", NewRemoteError(b.Name(), codeForStatus(apiErr.StatusCode),
				fmt.Sprintf("provider returned status %d", apiErr.StatusCode), err)
		}
		return "", NewRemoteError(b.Name(), codeForTransportError(err), "completion request failed", err)
	}
	if response.StopReason == "" {
		raw, err := json.Marshal(response)
		if err != nil {
			b.logger.Warn("Failed to marshal corrupt message for inspection", zap.Error(err))
		}
		return "", NewRemoteError(b.Name(), ErrCodeMalformedResponse, "malformed message: "+string(raw), nil)
	}

	var text strings.Builder
	for _, block := range response.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}
	return text.String(), nil
}

// toAnthropicParams moves system messages into the dedicated system field, since the Messages API only accepts
// user and assistant turns in its message list
func toAnthropicParams(req GenerationRequest) anthropic.MessageNewParams {
	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	return anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   anthropicMaxOutputTokens,
		System:      system,
		Messages:    messages,
		Temperature: anthropic.Float(req.Temperature),
	}
}
