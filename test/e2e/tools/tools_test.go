//go:build e2e

package tools

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cchalm/groq-multitool/internal/chat"
	"github.com/cchalm/groq-multitool/internal/extract"
	"github.com/cchalm/groq-multitool/internal/summarize"
	"github.com/cchalm/groq-multitool/test/e2e/testutil"
)

// TestChatUsesName checks that the model follows the name clause of the system prompt
func TestChatUsesName(t *testing.T) {
	harness := testutil.NewTestHarness(t)

	harness.RunIterations("chat_uses_name", func(iteration int) error {
		return harness.WithTimeout(func(ctx context.Context) error {
			session := chat.NewSession(harness.Completer(), harness.Config().Model, nil, nil)
			settings := chat.DefaultSettings()
			settings.UserName = "Sam"

			reply, err := session.Send(ctx, settings, "Hi there, say hello to me.")
			if err != nil {
				return fmt.Errorf("failed to send message: %w", err)
			}
			if !strings.HasPrefix(reply, chat.Marker) {
				return fmt.Errorf("reply %q is not decorated", reply)
			}
			if !strings.Contains(reply, "Sam") {
				return fmt.Errorf("reply %q does not address the user by name", reply)
			}
			if session.Conversation().Len() != 2 {
				return fmt.Errorf("expected 2 logged messages, got %d", session.Conversation().Len())
			}
			return nil
		})
	})
}

// TestSummarizeTLDR checks that the TL;DR format yields a single line
func TestSummarizeTLDR(t *testing.T) {
	harness := testutil.NewTestHarness(t)

	text := `The city council met on Tuesday to discuss the new bike lane proposal. After two hours of debate,
members voted 7 to 2 to approve a pilot program on Main Street. The pilot will run for six months,
after which the council will review traffic data and resident feedback before deciding on a permanent plan.`

	harness.RunIterations("summarize_tldr", func(iteration int) error {
		return harness.WithTimeout(func(ctx context.Context) error {
			s := summarize.NewSummarizer(harness.Completer(), harness.Config().Model, nil, nil)
			res, err := s.Summarize(ctx, summarize.Request{
				Text:        text,
				Length:      summarize.LengthShort,
				Tone:        summarize.ToneNeutral,
				Format:      summarize.FormatTLDR,
				Temperature: summarize.DefaultTemperature,
			})
			if err != nil {
				return fmt.Errorf("failed to summarize: %w", err)
			}
			if lines := strings.Split(strings.TrimSpace(res.Summary), "\n"); len(lines) != 1 {
				return fmt.Errorf("expected a single line, got %d: %q", len(lines), res.Summary)
			}
			return nil
		})
	})
}

// TestExtractContact checks that the extractor returns parseable JSON with the requested keys
func TestExtractContact(t *testing.T) {
	harness := testutil.NewTestHarness(t)

	harness.RunIterations("extract_contact", func(iteration int) error {
		return harness.WithTimeout(func(ctx context.Context) error {
			e := extract.NewExtractor(harness.Completer(), harness.Config().Model, nil, nil)
			res, err := e.Extract(ctx, extract.Request{
				Text:   "Contact Jane at jane@x.io",
				Fields: extract.Schema{"Name", "Email"},
			})
			if err != nil {
				return fmt.Errorf("failed to extract: %w", err)
			}
			obj, ok := res.Value.(map[string]any)
			if !ok {
				return fmt.Errorf("expected a JSON object, got %T", res.Value)
			}
			if obj["email"] != "jane@x.io" {
				return fmt.Errorf("unexpected email %v", obj["email"])
			}
			if c := res.Conformance(extract.Schema{"Name", "Email"}); len(c.Missing) > 0 {
				return fmt.Errorf("missing keys %v", c.Missing)
			}
			return nil
		})
	})
}
