package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cchalm/groq-multitool/internal/export"
	"github.com/cchalm/groq-multitool/internal/summarize"
)

var summarizeOpts struct {
	text        string
	length      string
	tone        string
	format      string
	temperature float64
	outDir      string
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize text from a .txt or .pdf file, --text, or standard input",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeOpts.text, "text", "", "Text to summarize")
	summarizeCmd.Flags().StringVar(&summarizeOpts.length, "length", string(summarize.LengthShort), "Summary length: Short, Medium or Detailed")
	summarizeCmd.Flags().StringVar(&summarizeOpts.tone, "tone", string(summarize.ToneNeutral), "Tone: Neutral, Simple, Professional, Casual or Kid-friendly")
	summarizeCmd.Flags().StringVar(&summarizeOpts.format, "format", string(summarize.FormatBullets), "Output format: Bullets, Paragraph, \"Bullets + Paragraph\" or TL;DR")
	summarizeCmd.Flags().Float64Var(&summarizeOpts.temperature, "temperature", summarize.DefaultTemperature, "Sampling temperature between 0 and 1")
	summarizeCmd.Flags().StringVar(&summarizeOpts.outDir, "out", "", "Also save the summary as summary.txt in this directory")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := setupContext(rt.logger)

	text, err := readInputText(args, summarizeOpts.text, cmd.InOrStdin())
	if err != nil {
		return err
	}

	s := summarize.NewSummarizer(rt.completer, cfg.Model, rt.logger, rt.metrics)
	res, err := s.Summarize(ctx, summarize.Request{
		Text:        text,
		Length:      summarize.ParseLength(summarizeOpts.length),
		Tone:        summarize.ParseTone(summarizeOpts.tone),
		Format:      summarize.ParseFormat(summarizeOpts.format),
		Temperature: summarizeOpts.temperature,
	})
	if err != nil {
		printError(os.Stderr, err)
		return fmt.Errorf("summarization failed")
	}

	if res.Truncated {
		printWarning(os.Stderr, fmt.Sprintf("Input was longer than %d characters and has been truncated.", summarize.MaxInputChars))
	}
	out := cmd.OutOrStdout()
	display(out, res.Summary)

	if summarizeOpts.outDir != "" {
		return saveArtifact(os.Stderr, export.NewFileStore(summarizeOpts.outDir), res.Artifact())
	}
	return nil
}
