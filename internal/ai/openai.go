package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// DefaultGroqBaseURL is Groq's OpenAI-compatible endpoint
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAIBackend talks to any OpenAI-compatible chat completion endpoint, Groq by default
type OpenAIBackend struct {
	name   string
	client *openai.Client
}

// NewOpenAIBackend creates a backend for the endpoint at baseURL. httpClient may be nil.
func NewOpenAIBackend(name, apiKey, baseURL string, httpClient *http.Client) *OpenAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIBackend{
		name:   name,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (b *OpenAIBackend) Name() string {
	return b.name
}

func (b *OpenAIBackend) Send(ctx context.Context, req GenerationRequest) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	temperature := float32(req.Temperature)
	if temperature == 0 {
		// The request struct drops a zero temperature as omitempty, which leaves the provider default in effect
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: temperature,
		Messages:    msgs,
	})
	if err != nil {
		return "", b.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", NewRemoteError(b.name, ErrCodeMalformedResponse, "response contained no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

func (b *OpenAIBackend) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewRemoteError(b.name, codeForStatus(apiErr.HTTPStatusCode),
			fmt.Sprintf("provider returned status %d", apiErr.HTTPStatusCode), err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewRemoteError(b.name, codeForStatus(reqErr.HTTPStatusCode),
			fmt.Sprintf("request failed with status %d", reqErr.HTTPStatusCode), err)
	}
	return NewRemoteError(b.name, codeForTransportError(err), "completion request failed", err)
}
