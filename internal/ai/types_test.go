package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleTitle(t *testing.T) {
	assert.Equal(t, "User", RoleUser.Title())
	assert.Equal(t, "Assistant", RoleAssistant.Title())
	assert.Equal(t, "System", RoleSystem.Title())
	assert.Equal(t, "", Role("").Title())
}

func TestNewGenerationRequest(t *testing.T) {
	msgs := []Message{NewSystemMessage("sys"), NewUserMessage("hi")}

	req, err := NewGenerationRequest("llama-3.3-70b-versatile", 0.7, msgs)
	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, msgs, req.Messages)

	// The request owns its messages
	msgs[1].Content = "changed"
	assert.Equal(t, "hi", req.Messages[1].Content)
}

func TestNewGenerationRequest_TemperatureBounds(t *testing.T) {
	msgs := []Message{NewUserMessage("hi")}

	for _, temp := range []float64{0, 0.4, 1} {
		_, err := NewGenerationRequest("m", temp, msgs)
		assert.NoError(t, err, "temperature %v", temp)
	}
	for _, temp := range []float64{-0.1, 1.01, 2} {
		_, err := NewGenerationRequest("m", temp, msgs)
		assert.ErrorIs(t, err, ErrInvalidRequest, "temperature %v", temp)
	}
}

func TestNewGenerationRequest_Invalid(t *testing.T) {
	_, err := NewGenerationRequest("m", 0.5, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = NewGenerationRequest(" ", 0.5, []Message{NewUserMessage("hi")})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = NewGenerationRequest("m", 0.5, []Message{{Role: "tool", Content: "x"}})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
