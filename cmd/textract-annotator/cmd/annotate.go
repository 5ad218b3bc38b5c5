package cmd

import (
	"github.com/spf13/cobra"
)

// annotateCmd annotates a single document.
var annotateCmd = &cobra.Command{
	Use:   "annotate <file>",
	Short: "Annotate the words of one PDF or image",
	Long: `Send one document to Amazon Textract and write a copy with a rectangle
around every detected word.

Supported formats: PDF (first page), PNG, JPEG, TIFF

The output defaults to <name>.annotated<ext> next to the input.

Examples:
  textract-annotator annotate invoice.pdf
  textract-annotator annotate s3://scans/receipt.jpg --output-path receipt-boxes.jpg
  textract-annotator annotate page.png --color "#0000FF" --width 3 --report words.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotateCommand,
}

func runAnnotateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := validatedConfig()
	if err != nil {
		return err
	}
	defer flushMetrics(cfg)

	ctx := commandContext(cmd)
	svc, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output-path")
	res, err := svc.processor.Process(ctx, args[0], outputPath)
	if err != nil {
		return err
	}
	printSaved(cmd.OutOrStdout(), res)

	return svc.writeReport(ctx, cfg, res)
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	annotateCmd.Flags().StringP("output-path", "o", "", "where to write the annotated copy (default: <name>.annotated<ext>)")
}
