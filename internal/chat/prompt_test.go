package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cchalm/groq-multitool/internal/ai"
)

func TestBuildSystemPrompt_Plain(t *testing.T) {
	msg := BuildSystemPrompt(Settings{SystemRole: "  You are a pirate.  ", Mood: MoodNeutral})

	assert.Equal(t, ai.RoleSystem, msg.Role)
	assert.Equal(t, "You are a pirate.", msg.Content)
}

func TestBuildSystemPrompt_BlankRoleUsesDefault(t *testing.T) {
	msg := BuildSystemPrompt(Settings{})
	assert.Equal(t, DefaultSystemRole, msg.Content)
}

func TestBuildSystemPrompt_UserName(t *testing.T) {
	for _, mood := range Moods {
		msg := BuildSystemPrompt(Settings{SystemRole: DefaultSystemRole, UserName: "Ada", Mood: mood})
		assert.True(t, strings.HasSuffix(msg.Content, " Always call the user 'Ada'."),
			"mood %s: %q", mood, msg.Content)
	}

	msg := BuildSystemPrompt(Settings{SystemRole: DefaultSystemRole, UserName: ""})
	assert.NotContains(t, msg.Content, "Always call the user")

	msg = BuildSystemPrompt(Settings{SystemRole: DefaultSystemRole, UserName: "   "})
	assert.NotContains(t, msg.Content, "Always call the user")
}

func TestBuildSystemPrompt_Mood(t *testing.T) {
	const clause = "Respond in an empathetic, encouraging way."

	for _, mood := range []Mood{MoodHappy, MoodSad, MoodStressed} {
		msg := BuildSystemPrompt(Settings{SystemRole: DefaultSystemRole, Mood: mood})
		assert.Contains(t, msg.Content, "The user feels "+string(mood)+". "+clause)
	}

	msg := BuildSystemPrompt(Settings{SystemRole: DefaultSystemRole, Mood: MoodNeutral})
	assert.NotContains(t, msg.Content, clause)
}

func TestBuildSystemPrompt_Full(t *testing.T) {
	msg := BuildSystemPrompt(Settings{SystemRole: "You are a helpful assistant.", UserName: "Sam", Mood: MoodSad})
	assert.Equal(t,
		"You are a helpful assistant. The user feels Sad. Respond in an empathetic, encouraging way. Always call the user 'Sam'.",
		msg.Content)
}

func TestParseMood(t *testing.T) {
	assert.Equal(t, MoodHappy, ParseMood("happy"))
	assert.Equal(t, MoodStressed, ParseMood(" Stressed "))
	assert.Equal(t, MoodNeutral, ParseMood(""))
	assert.Equal(t, MoodNeutral, ParseMood("hangry"))
}

func TestBuildContext_FewShot(t *testing.T) {
	history := []ai.Message{ai.NewUserMessage("hi"), ai.NewAssistantMessage("✨ hello")}
	pending := ai.NewUserMessage("how are you?")

	without := BuildContext(Settings{FewShot: false}, history, pending)
	with := BuildContext(Settings{FewShot: true}, history, pending)

	require.Len(t, without, 1+len(history)+1)
	require.Len(t, with, len(without)+2)

	assert.Equal(t, ai.RoleSystem, with[0].Role)
	assert.Equal(t, ai.RoleUser, with[1].Role)
	assert.Equal(t, ai.RoleAssistant, with[2].Role)
	assert.Equal(t, history, with[3:5])
	assert.Equal(t, pending, with[5])

	assert.Equal(t, history, without[1:3])
	assert.Equal(t, pending, without[3])
}

func TestDecorate(t *testing.T) {
	assert.Equal(t, "✨ Hello", Decorate("Hello"))
	assert.Equal(t, "✨Hello", Decorate("✨Hello"))
	assert.Equal(t, "✨ ", Decorate(""))

	for _, s := range []string{"", "Hello", "✨ already", "  spaced"} {
		once := Decorate(s)
		assert.Equal(t, once, Decorate(once), "input %q", s)
	}
}
