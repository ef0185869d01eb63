package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cchalm/groq-multitool/internal/ai"
	"github.com/cchalm/groq-multitool/internal/export"
)

func newTestConversation(t *testing.T) *Conversation {
	t.Helper()
	var c Conversation
	require.NoError(t, c.Append(ai.NewUserMessage("Hi <there> & café")))
	require.NoError(t, c.Append(ai.NewAssistantMessage("✨ Hello!")))
	require.NoError(t, c.Append(ai.NewUserMessage("Bye")))
	return &c
}

func TestConversation_AppendRejectsSystem(t *testing.T) {
	var c Conversation
	assert.Error(t, c.Append(ai.NewSystemMessage("nope")))
	assert.Equal(t, 0, c.Len())
}

func TestConversation_AllowsConsecutiveUserTurns(t *testing.T) {
	var c Conversation
	require.NoError(t, c.Append(ai.NewUserMessage("one")))
	require.NoError(t, c.Append(ai.NewUserMessage("two")))
	assert.Equal(t, 2, c.Len())
}

func TestConversation_ExportText(t *testing.T) {
	c := newTestConversation(t)

	s, err := c.Export(ExportText)
	require.NoError(t, err)
	assert.Equal(t, "User: Hi <there> & café\nAssistant: ✨ Hello!\nUser: Bye", s)
}

func TestConversation_ExportJSONRoundTrip(t *testing.T) {
	c := newTestConversation(t)

	s, err := c.Export(ExportJSON)
	require.NoError(t, err)
	assert.Contains(t, s, "café")
	assert.Contains(t, s, "<there> &")

	var decoded []ai.Message
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, c.Messages(), decoded)
}

func TestConversation_ExportEmpty(t *testing.T) {
	var c Conversation

	s, err := c.Export(ExportJSON)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)

	s, err = c.Export(ExportText)
	require.NoError(t, err)
	assert.Equal(t, "", s)

	_, err = c.Export("xml")
	assert.Error(t, err)
}

func TestConversation_ClearAndMessagesCopy(t *testing.T) {
	c := newTestConversation(t)

	msgs := c.Messages()
	msgs[0].Content = "mutated"
	assert.Equal(t, "Hi <there> & café", c.Messages()[0].Content)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestConversation_Artifact(t *testing.T) {
	c := newTestConversation(t)

	a, err := c.Artifact(ExportText)
	require.NoError(t, err)
	assert.Equal(t, "chat_history.txt", a.Filename)
	assert.Equal(t, export.MIMEText, a.MIMEType)

	a, err = c.Artifact(ExportJSON)
	require.NoError(t, err)
	assert.Equal(t, "chat_history.json", a.Filename)
	assert.Equal(t, export.MIMEJSON, a.MIMEType)
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("TXT")
	require.NoError(t, err)
	assert.Equal(t, ExportText, f)

	f, err = ParseExportFormat("json")
	require.NoError(t, err)
	assert.Equal(t, ExportJSON, f)

	_, err = ParseExportFormat("csv")
	assert.Error(t, err)
}
