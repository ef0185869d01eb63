package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cchalm/groq-multitool/internal/ai"
	"github.com/cchalm/groq-multitool/internal/export"
)

// ExportFormat selects the rendering produced by Conversation.Export
type ExportFormat string

const (
	ExportText ExportFormat = "text"
	ExportJSON ExportFormat = "json"
)

// ParseExportFormat accepts "text"/"txt" and "json"
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return ExportText, nil
	case "json":
		return ExportJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q: must be \"text\" or \"json\"", s)
	}
}

// Conversation is the ordered log of user and assistant turns. It never contains the system message.
type Conversation struct {
	messages []ai.Message
}

// Append adds a turn to the end of the log. System messages are rejected.
func (c *Conversation) Append(m ai.Message) error {
	if m.Role != ai.RoleUser && m.Role != ai.RoleAssistant {
		return fmt.Errorf("conversation only holds user and assistant turns, got %q", m.Role)
	}
	c.messages = append(c.messages, m)
	return nil
}

// Clear empties the log
func (c *Conversation) Clear() {
	c.messages = nil
}

func (c *Conversation) Len() int {
	return len(c.messages)
}

// Messages returns a copy of the log in insertion order
func (c *Conversation) Messages() []ai.Message {
	msgs := make([]ai.Message, len(c.messages))
	copy(msgs, c.messages)
	return msgs
}

// Export renders the log as "Role: content" lines or as a JSON array of {role, content} objects
func (c *Conversation) Export(format ExportFormat) (string, error) {
	switch format {
	case ExportText:
		lines := make([]string, 0, len(c.messages))
		for _, m := range c.messages {
			lines = append(lines, m.Role.Title()+": "+m.Content)
		}
		return strings.Join(lines, "\n"), nil

	case ExportJSON:
		msgs := c.messages
		if msgs == nil {
			msgs = []ai.Message{}
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(msgs); err != nil {
			return "", fmt.Errorf("failed to marshal conversation: %w", err)
		}
		return strings.TrimSuffix(buf.String(), "\n"), nil

	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

// Artifact returns the export as a downloadable file
func (c *Conversation) Artifact(format ExportFormat) (export.Artifact, error) {
	s, err := c.Export(format)
	if err != nil {
		return export.Artifact{}, err
	}
	if format == ExportJSON {
		return export.Artifact{Filename: "chat_history.json", MIMEType: export.MIMEJSON, Data: []byte(s)}, nil
	}
	return export.Artifact{Filename: "chat_history.txt", MIMEType: export.MIMEText, Data: []byte(s)}, nil
}
