package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/textract-annotator/internal/batch"
	"github.com/spf13/cobra"
)

// batchCmd represents the batch command for annotating many documents.
var batchCmd = &cobra.Command{
	Use:   "batch [files or directories...]",
	Short: "Annotate many PDFs and images",
	Long: `Discover supported documents among the given files and directories and
annotate each of them. Previous outputs (*.annotated.*) are skipped.

Textract enforces a per-account request rate, so the default is a single
worker. Raise --workers only when the account limit allows it.

Supported formats: PDF (first page), PNG, JPEG, TIFF

Examples:
  textract-annotator batch scans/
  textract-annotator batch scans/ --recursive --workers 2 --continue-on-error
  textract-annotator batch a.pdf b.png --output-dir annotated/ --report words.json
  textract-annotator batch s3://bucket/in/a.pdf s3://bucket/in/b.png --output-dir s3://bucket/out`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatchCommand,
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := validatedConfig()
	if err != nil {
		return err
	}
	defer flushMetrics(cfg)

	batchConfig := cfg.ToBatchConfig()
	batchConfig.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	batchConfig.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")

	ctx := commandContext(cmd)
	svc, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}

	result, batchErr := batch.ProcessBatch(ctx, svc.processor, args, batchConfig)
	if result == nil {
		return batchErr
	}

	out := cmd.OutOrStdout()
	summary, err := result.FormatResults(cfg.Batch.SummaryFormat)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(out, summary)

	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		result.PrintStats(out)
	}

	if err := svc.writeReport(ctx, cfg, result.Results()...); err != nil {
		return err
	}

	if batchErr != nil {
		return batchErr
	}
	if failed := result.Failed(); failed > 0 {
		_, _ = errorColor.Fprintf(cmd.ErrOrStderr(), "%d of %d files failed\n", failed, len(result.Items))
		return fmt.Errorf("%d files failed", failed)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("workers", "w", 1, "number of files annotated concurrently")
	batchCmd.Flags().BoolP("recursive", "r", false, "recursively scan directories")
	batchCmd.Flags().Bool("continue-on-error", false, "keep going after a file fails")
	batchCmd.Flags().String("output-dir", "", "directory (or s3:// prefix) for annotated files (default: next to each input)")
	batchCmd.Flags().StringP("summary-format", "f", "text", "summary format: text, json, csv")
	batchCmd.Flags().StringSlice("include", []string{}, "file name patterns to include")
	batchCmd.Flags().StringSlice("exclude", []string{}, "file name patterns to exclude")
	batchCmd.Flags().Bool("stats", false, "show processing statistics")

	bindFlags(map[string]string{
		"batch.workers":           "workers",
		"batch.recursive":         "recursive",
		"batch.continue_on_error": "continue-on-error",
		"batch.output_dir":        "output-dir",
		"batch.summary_format":    "summary-format",
	}, batchCmd)
}
