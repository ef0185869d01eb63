// Package extract implements the structured-field extractor tool.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/cchalm/groq-multitool/internal/ai"
)

// SystemPrompt is sent with every extraction request
const SystemPrompt = "You extract structured data and output ONLY valid JSON."

// Temperature is fixed at zero so extraction is as deterministic as the model allows
const Temperature = 0.0

// DefaultFields is offered when the user has not chosen any fields
var DefaultFields = Schema{"Name", "Email", "Phone"}

// Schema is the ordered list of fields the user wants extracted, as typed
type Schema []string

// ParseFields splits a comma-separated field list, trimming whitespace and dropping empty entries
func ParseFields(input string) Schema {
	var fields Schema
	for _, f := range strings.Split(input, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Keys returns the output keys: the field names in lower case
func (s Schema) Keys() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = strings.ToLower(f)
	}
	return keys
}

// String returns the human-readable field list
func (s Schema) String() string {
	return strings.Join(s, ", ")
}

// Template returns the JSON shape the model is asked to fill in, e.g. {"name": "...", "email": "..."}
func (s Schema) Template() string {
	var b strings.Builder
	b.WriteString("{")
	for i, k := range s.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		// Marshalling a string cannot fail
		quoted, _ := json.Marshal(k)
		b.Write(quoted)
		b.WriteString(`: "..."`)
	}
	b.WriteString("}")
	return b.String()
}

// Prompt is the built extraction instruction
type Prompt struct {
	Text string
}

// BuildPrompt embeds the field list, the JSON template and the text verbatim into one instruction
func BuildPrompt(schema Schema, text string) Prompt {
	var b strings.Builder
	b.WriteString("Extract the following details from the text:\n")
	b.WriteString(schema.String())
	b.WriteString("\n\nReturn ONLY valid JSON in this format:\n")
	b.WriteString(schema.Template())
	b.WriteString("\n\nText:\n")
	b.WriteString(text)
	return Prompt{Text: b.String()}
}

// Messages returns the message list sent to the model
func (p Prompt) Messages() []ai.Message {
	return []ai.Message{
		ai.NewSystemMessage(SystemPrompt),
		ai.NewUserMessage(p.Text),
	}
}
