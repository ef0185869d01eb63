package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// markdownRenderer is nil when glamour could not be initialized; output is then printed as is
var markdownRenderer *glamour.TermRenderer

func init() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		markdownRenderer = r
	}
}

func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// renderMarkdown renders model output for the terminal, returning it unchanged if rendering fails
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// display prints model output, rendering markdown only when stdout is a terminal so piped output stays verbatim
func display(w io.Writer, content string) {
	if w == os.Stdout && isStdoutTTY() {
		fmt.Fprint(w, renderMarkdown(content))
		return
	}
	fmt.Fprintln(w, content)
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render("[Error]"), describeError(err))
}

func printWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(msg))
}
