package summarize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cchalm/groq-multitool/internal/ai"
)

func TestBuildPrompt_Order(t *testing.T) {
	p := BuildPrompt(LengthShort, ToneCasual, FormatTLDR, "Hello world")

	assert.False(t, p.Truncated)
	positions := []int{
		strings.Index(p.Text, LengthShort.Instruction()),
		strings.Index(p.Text, ToneCasual.Instruction()),
		strings.Index(p.Text, FormatTLDR.Instruction()),
		strings.Index(p.Text, "Hello world"),
	}
	for i, pos := range positions {
		require.GreaterOrEqual(t, pos, 0, "part %d missing from %q", i, p.Text)
		if i > 0 {
			assert.Greater(t, pos, positions[i-1], "part %d out of order", i)
		}
	}
	assert.True(t, strings.HasSuffix(p.Text, "Text to summarize:\nHello world"))
}

func TestBuildPrompt_Messages(t *testing.T) {
	msgs := BuildPrompt(LengthMedium, ToneNeutral, FormatBullets, "x").Messages()

	require.Len(t, msgs, 2)
	assert.Equal(t, ai.NewSystemMessage(SystemPrompt), msgs[0])
	assert.Equal(t, ai.RoleUser, msgs[1].Role)
}

func TestInstructions_Defaults(t *testing.T) {
	assert.Equal(t, ToneNeutral.Instruction(), Tone("Sarcastic").Instruction())
	assert.Equal(t, ToneNeutral.Instruction(), Tone("").Instruction())
	assert.Equal(t, FormatBullets.Instruction(), Format("Haiku").Instruction())
	assert.Equal(t, LengthDetailed.Instruction(), Length("Epic").Instruction())
}

func TestInstructions_Distinct(t *testing.T) {
	seen := map[string]bool{}
	for _, tone := range Tones {
		seen[tone.Instruction()] = true
	}
	assert.Len(t, seen, len(Tones))

	seen = map[string]bool{}
	for _, f := range Formats {
		seen[f.Instruction()] = true
	}
	assert.Len(t, seen, len(Formats))
}

func TestParseChoices(t *testing.T) {
	assert.Equal(t, LengthShort, ParseLength("short"))
	assert.Equal(t, ToneKidFriendly, ParseTone("kid-friendly"))
	assert.Equal(t, FormatTLDR, ParseFormat("tl;dr"))
	assert.Equal(t, FormatBulletsParagraph, ParseFormat("Bullets + Paragraph"))
	assert.Equal(t, ToneNeutral.Instruction(), ParseTone("grumpy").Instruction())
}

func TestTruncation(t *testing.T) {
	exact := strings.Repeat("a", MaxInputChars)
	p := BuildPrompt(LengthShort, ToneNeutral, FormatBullets, exact)
	assert.False(t, p.Truncated)
	assert.True(t, strings.HasSuffix(p.Text, exact))

	long := strings.Repeat("a", MaxInputChars) + "TAIL"
	p = BuildPrompt(LengthShort, ToneNeutral, FormatBullets, long)
	assert.True(t, p.Truncated)
	assert.NotContains(t, p.Text, "TAIL")
	assert.True(t, strings.HasSuffix(p.Text, exact))
}

func TestTruncate_CountsCharacters(t *testing.T) {
	s := strings.Repeat("é", 10)

	out, truncated := Truncate(s, 4)
	assert.True(t, truncated)
	assert.Equal(t, 4, utf8.RuneCountInString(out))
	assert.True(t, utf8.ValidString(out))

	out, truncated = Truncate(s, 10)
	assert.False(t, truncated)
	assert.Equal(t, s, out)
}

func TestFinalize(t *testing.T) {
	assert.Equal(t, "- point", Finalize("- point"))
	assert.Equal(t, NoResponse, Finalize(""))
	assert.Equal(t, NoResponse, Finalize("  \n"))
}
