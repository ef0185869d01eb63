package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cchalm/groq-multitool/internal/export"
	"github.com/cchalm/groq-multitool/internal/extract"
)

var extractOpts struct {
	text   string
	fields string
	outDir string
}

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract named fields as JSON from a .txt or .pdf file, --text, or standard input",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractOpts.text, "text", "", "Text to extract from")
	extractCmd.Flags().StringVar(&extractOpts.fields, "fields", extract.DefaultFields.String(), "Comma-separated fields to extract")
	extractCmd.Flags().StringVar(&extractOpts.outDir, "out", "", "Also save the result as extracted_data.json in this directory")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := setupContext(rt.logger)

	text, err := readInputText(args, extractOpts.text, cmd.InOrStdin())
	if err != nil {
		return err
	}

	fields := extract.ParseFields(extractOpts.fields)
	e := extract.NewExtractor(rt.completer, cfg.Model, rt.logger, rt.metrics)
	res, err := e.Extract(ctx, extract.Request{Text: text, Fields: fields})

	var invalid *extract.InvalidJSONError
	if errors.As(err, &invalid) {
		// Show what the model said instead of a structure
		printWarning(os.Stderr, "Model returned invalid JSON. Showing raw output:")
		fmt.Fprintln(cmd.OutOrStdout(), invalid.Text)
		return nil
	}
	if err != nil {
		printError(os.Stderr, err)
		return fmt.Errorf("extraction failed")
	}

	pretty, err := res.Pretty()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), pretty)

	if c := res.Conformance(fields); !c.OK() {
		printWarning(os.Stderr, fmt.Sprintf("Result does not match the requested fields (missing %v, extra %v)", c.Missing, c.Extra))
	}

	if extractOpts.outDir != "" {
		a, err := res.Artifact()
		if err != nil {
			return err
		}
		return saveArtifact(os.Stderr, export.NewFileStore(extractOpts.outDir), a)
	}
	return nil
}
