package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/cchalm/groq-multitool/internal/chat"
	"github.com/cchalm/groq-multitool/internal/export"
)

var chatOpts struct {
	systemRole  string
	userName    string
	mood        string
	fewShot     bool
	temperature float64
	outDir      string
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat interactively with the assistant",
	Long: `Starts an interactive chat session. The conversation is kept in memory
for the life of the session only. Type /help for the available commands.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	defaults := chat.DefaultSettings()
	chatCmd.Flags().StringVar(&chatOpts.systemRole, "system-role", defaults.SystemRole, "Instruction describing the assistant's role")
	chatCmd.Flags().StringVar(&chatOpts.userName, "name", "", "Name the assistant should call you")
	chatCmd.Flags().StringVar(&chatOpts.mood, "mood", string(defaults.Mood), "Your mood: Neutral, Happy, Sad or Stressed")
	chatCmd.Flags().BoolVar(&chatOpts.fewShot, "few-shot", defaults.FewShot, "Prepend a fixed example exchange to every request")
	chatCmd.Flags().Float64Var(&chatOpts.temperature, "temperature", defaults.Temperature, "Sampling temperature between 0 and 1")
	chatCmd.Flags().StringVar(&chatOpts.outDir, "out", ".", "Directory /export writes chat history to")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := setupContext(rt.logger)

	r := &repl{
		session: chat.NewSession(rt.completer, cfg.Model, rt.logger, rt.metrics),
		settings: chat.Settings{
			SystemRole:  chatOpts.systemRole,
			UserName:    strings.TrimSpace(chatOpts.userName),
			Mood:        chat.ParseMood(chatOpts.mood),
			FewShot:     chatOpts.fewShot,
			Temperature: chatOpts.temperature,
		},
		store: export.NewFileStore(chatOpts.outDir),
		out:   cmd.OutOrStdout(),
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Fprintln(r.out, titleStyle.Render("💬 Chatbot")+dimStyle.Render("  model "+cfg.Model+", /help for commands"))
	for {
		input, err := line.Prompt("you> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			quit, err := r.handleCommand(input)
			if err != nil {
				printError(os.Stderr, err)
			}
			if quit {
				return nil
			}
			continue
		}

		if ctx.Err() != nil {
			return nil
		}
		r.send(ctx, input)
	}
}

// repl holds the state of one interactive chat
type repl struct {
	session  *chat.Session
	settings chat.Settings
	store    export.FileStore
	out      io.Writer
}

// send forwards one message. Failures are reported and the session continues.
func (r *repl) send(ctx context.Context, input string) {
	reply, err := r.session.Send(ctx, r.settings, input)
	if err != nil {
		printError(os.Stderr, err)
		return
	}
	display(r.out, reply)
}

const chatHelp = `Commands:
  /clear               start over with an empty conversation
  /export [text|json]  save the conversation (default text)
  /history             print the conversation so far
  /mood <mood>         set your mood: Neutral, Happy, Sad or Stressed
  /name <name>         set the name the assistant calls you (empty to unset)
  /temperature <t>     set the sampling temperature
  /fewshot on|off      toggle the example exchange
  /quit                leave the chat`

// handleCommand runs a slash command and reports whether the chat should end
func (r *repl) handleCommand(input string) (bool, error) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(r.out, chatHelp)
	case "/clear":
		r.session.Clear()
		fmt.Fprintln(r.out, dimStyle.Render("Chat cleared."))
	case "/history":
		text, err := r.session.Conversation().Export(chat.ExportText)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, text)
	case "/export":
		format := chat.ExportText
		if arg != "" {
			var err error
			if format, err = chat.ParseExportFormat(arg); err != nil {
				return false, err
			}
		}
		a, err := r.session.Conversation().Artifact(format)
		if err != nil {
			return false, err
		}
		return false, saveArtifact(r.out, r.store, a)
	case "/mood":
		r.settings.Mood = chat.ParseMood(arg)
		fmt.Fprintln(r.out, dimStyle.Render("Mood: "+string(r.settings.Mood)))
	case "/name":
		r.settings.UserName = arg
	case "/temperature":
		t, err := strconv.ParseFloat(arg, 64)
		if err != nil || t < 0 || t > 1 {
			return false, fmt.Errorf("temperature must be a number between 0 and 1, got %q", arg)
		}
		r.settings.Temperature = t
	case "/fewshot":
		switch strings.ToLower(arg) {
		case "on":
			r.settings.FewShot = true
		case "off":
			r.settings.FewShot = false
		default:
			return false, fmt.Errorf("usage: /fewshot on|off")
		}
	default:
		return false, fmt.Errorf("unknown command %s, type /help for the list", name)
	}
	return false, nil
}
