// Package summarize implements the summarizer tool.
package summarize

import (
	"strings"
	"unicode/utf8"

	"github.com/cchalm/groq-multitool/internal/ai"
)

// MaxInputChars is the number of characters of source text sent to the model
const MaxInputChars = 8000

// DefaultTemperature is the summarizer's default creativity setting
const DefaultTemperature = 0.4

// SystemPrompt is sent with every summarization request
const SystemPrompt = "You summarize text accurately and follow formatting instructions exactly."

type Length string

const (
	LengthShort    Length = "Short"
	LengthMedium   Length = "Medium"
	LengthDetailed Length = "Detailed"
)

var Lengths = []Length{LengthShort, LengthMedium, LengthDetailed}

// Instruction returns the sentence describing the summary length. Unknown lengths are treated as Detailed.
func (l Length) Instruction() string {
	switch l {
	case LengthShort:
		return "Give a very short summary in 3 bullet points. Max ~40 words total."
	case LengthMedium:
		return "Give 5 concise bullet points followed by a short paragraph (~100 words)."
	default:
		return "Give a detailed summary: key bullet points, a short paragraph (~150 words), and a 1-line takeaway."
	}
}

type Tone string

const (
	ToneNeutral      Tone = "Neutral"
	ToneSimple       Tone = "Simple"
	ToneProfessional Tone = "Professional"
	ToneCasual       Tone = "Casual"
	ToneKidFriendly  Tone = "Kid-friendly"
)

var Tones = []Tone{ToneNeutral, ToneSimple, ToneProfessional, ToneCasual, ToneKidFriendly}

// Instruction returns the sentence describing the tone. Unknown tones get the Neutral sentence.
func (t Tone) Instruction() string {
	switch t {
	case ToneSimple:
		return "Use plain language, easy to understand."
	case ToneProfessional:
		return "Use clear, professional language suitable for a report."
	case ToneCasual:
		return "Use a friendly, conversational tone."
	case ToneKidFriendly:
		return "Explain in very simple words, like to a 10-year-old."
	default:
		return "Use a neutral, informative tone."
	}
}

type Format string

const (
	FormatBullets          Format = "Bullets"
	FormatParagraph        Format = "Paragraph"
	FormatBulletsParagraph Format = "Bullets + Paragraph"
	FormatTLDR             Format = "TL;DR"
)

var Formats = []Format{FormatBullets, FormatParagraph, FormatBulletsParagraph, FormatTLDR}

// Instruction returns the sentence describing the output format. Unknown formats get the Bullets sentence.
func (f Format) Instruction() string {
	switch f {
	case FormatParagraph:
		return "Output one short paragraph only."
	case FormatBulletsParagraph:
		return "Start with bullet points, then a short paragraph."
	case FormatTLDR:
		return "Output a single TL;DR line."
	default:
		return "Output bullet points only."
	}
}

// Prompt is the built user prompt and whether the source text had to be truncated to fit
type Prompt struct {
	Text      string
	Truncated bool
}

// Messages returns the message list sent to the model
func (p Prompt) Messages() []ai.Message {
	return []ai.Message{
		ai.NewSystemMessage(SystemPrompt),
		ai.NewUserMessage(p.Text),
	}
}

// BuildPrompt concatenates the length, tone and format instructions followed by the (possibly truncated) text. text
// must already be trimmed and non-empty.
func BuildPrompt(length Length, tone Tone, format Format, text string) Prompt {
	body, truncated := Truncate(text, MaxInputChars)

	var b strings.Builder
	b.WriteString("You are a helpful summarization assistant.\n")
	b.WriteString(length.Instruction() + "\n")
	b.WriteString(tone.Instruction() + "\n")
	b.WriteString(format.Instruction() + "\n")
	b.WriteString("\nText to summarize:\n")
	b.WriteString(body)

	return Prompt{Text: b.String(), Truncated: truncated}
}

// Truncate cuts s to at most max characters and reports whether it did
func Truncate(s string, max int) (string, bool) {
	if utf8.RuneCountInString(s) <= max {
		return s, false
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i], true
		}
		n++
	}
	return s, false
}

// NoResponse replaces an empty model reply
const NoResponse = "[No response]"

// Finalize returns the model's summary unchanged, or NoResponse if it is empty
func Finalize(summary string) string {
	if strings.TrimSpace(summary) == "" {
		return NoResponse
	}
	return summary
}

// parseChoice matches s case-insensitively against choices. An unmatched value is returned as is, which the
// Instruction methods map to their default sentence.
func parseChoice[T ~string](s string, choices []T) T {
	s = strings.TrimSpace(s)
	for _, c := range choices {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return T(s)
}

func ParseLength(s string) Length { return parseChoice(s, Lengths) }

func ParseTone(s string) Tone { return parseChoice(s, Tones) }

func ParseFormat(s string) Format { return parseChoice(s, Formats) }
