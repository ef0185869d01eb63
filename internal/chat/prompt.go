// Package chat implements the chatbot tool: personalized system prompts, the conversation log and the per-message
// handler.
package chat

import (
	"fmt"
	"strings"

	"github.com/cchalm/groq-multitool/internal/ai"
)

// DefaultSystemRole is used when the user leaves the system role blank
const DefaultSystemRole = "You are a helpful assistant."

// DefaultTemperature is the chat tool's default creativity setting
const DefaultTemperature = 0.7

// Mood is how the user says they feel. Anything other than MoodNeutral asks the assistant for empathy.
type Mood string

const (
	MoodNeutral  Mood = "Neutral"
	MoodHappy    Mood = "Happy"
	MoodSad      Mood = "Sad"
	MoodStressed Mood = "Stressed"
)

// Moods lists the selectable moods in display order
var Moods = []Mood{MoodNeutral, MoodHappy, MoodSad, MoodStressed}

// ParseMood maps a case-insensitive mood name to a Mood. Unrecognized names are Neutral.
func ParseMood(s string) Mood {
	for _, m := range Moods {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m
		}
	}
	return MoodNeutral
}

// Settings are the chat options in effect for a single message. The system prompt is rebuilt from them on every
// turn and never stored in the conversation.
type Settings struct {
	SystemRole  string
	UserName    string
	Mood        Mood
	FewShot     bool
	Temperature float64
}

// DefaultSettings returns the settings a new session starts with
func DefaultSettings() Settings {
	return Settings{
		SystemRole:  DefaultSystemRole,
		Mood:        MoodNeutral,
		Temperature: DefaultTemperature,
	}
}

// fewShotExamples is a fixed exchange demonstrating the assistant's style
var fewShotExamples = []ai.Message{
	ai.NewUserMessage("What is AI?"),
	ai.NewAssistantMessage("AI stands for Artificial Intelligence. It lets computers perform tasks that seem smart, like answering questions or recognizing images."),
}

// BuildSystemPrompt returns the system message for the given settings. The mood clause, if any, comes before the
// name clause so that a named user is always addressed by the final sentence.
func BuildSystemPrompt(s Settings) ai.Message {
	role := strings.TrimSpace(s.SystemRole)
	if role == "" {
		role = DefaultSystemRole
	}

	var b strings.Builder
	b.WriteString(role)
	if s.Mood != "" && s.Mood != MoodNeutral {
		fmt.Fprintf(&b, " The user feels %s. Respond in an empathetic, encouraging way.", s.Mood)
	}
	if name := strings.TrimSpace(s.UserName); name != "" {
		fmt.Fprintf(&b, " Always call the user '%s'.", name)
	}
	return ai.NewSystemMessage(b.String())
}

// BuildContext assembles the full message list for one turn: the system message, the few-shot exchange if enabled,
// the conversation so far, and finally the pending user message
func BuildContext(s Settings, history []ai.Message, pending ai.Message) []ai.Message {
	msgs := make([]ai.Message, 0, 1+len(fewShotExamples)+len(history)+1)
	msgs = append(msgs, BuildSystemPrompt(s))
	if s.FewShot {
		msgs = append(msgs, fewShotExamples...)
	}
	msgs = append(msgs, history...)
	msgs = append(msgs, pending)
	return msgs
}

// Marker is prepended to every assistant reply
const Marker = "✨"

// Decorate prefixes reply with the marker unless it already starts with it. Decorate is idempotent.
func Decorate(reply string) string {
	if strings.HasPrefix(reply, Marker) {
		return reply
	}
	return Marker + " " + reply
}
