// Package ai provides the completion client shared by the chat, summarizer and extractor tools.
package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Role identifies the author of a message in the completion protocol
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Title returns the role name with its first letter capitalized, e.g. "User"
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// Valid reports whether r is one of the three protocol roles
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message is a single role-tagged turn. Messages are passed by value and never mutated after creation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

var (
	// ErrInvalidRequest is returned when a generation request violates its input constraints. No network call is made.
	ErrInvalidRequest = errors.New("invalid generation request")
	// ErrEmptyInput is returned by the tools when the user submitted no text where text is required
	ErrEmptyInput = errors.New("empty input")
)

// GenerationRequest is the full input of a single completion call
type GenerationRequest struct {
	Model       string
	Temperature float64
	Messages    []Message
}

// NewGenerationRequest validates its arguments and returns a request that owns a private copy of messages
func NewGenerationRequest(model string, temperature float64, messages []Message) (GenerationRequest, error) {
	if strings.TrimSpace(model) == "" {
		return GenerationRequest{}, fmt.Errorf("%w: model id is required", ErrInvalidRequest)
	}
	if temperature < 0 || temperature > 1 {
		return GenerationRequest{}, fmt.Errorf("%w: temperature %v is outside [0, 1]", ErrInvalidRequest, temperature)
	}
	if len(messages) == 0 {
		return GenerationRequest{}, fmt.Errorf("%w: at least one message is required", ErrInvalidRequest)
	}
	for i, m := range messages {
		if !m.Role.Valid() {
			return GenerationRequest{}, fmt.Errorf("%w: message %d has unknown role %q", ErrInvalidRequest, i, m.Role)
		}
	}

	msgs := make([]Message, len(messages))
	copy(msgs, messages)
	return GenerationRequest{
		Model:       model,
		Temperature: temperature,
		Messages:    msgs,
	}, nil
}
