package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MeKo-Tech/textract-annotator/internal/annotate"
	"github.com/MeKo-Tech/textract-annotator/internal/config"
	"github.com/MeKo-Tech/textract-annotator/internal/metrics"
	"github.com/MeKo-Tech/textract-annotator/internal/ocr"
	"github.com/MeKo-Tech/textract-annotator/internal/report"
	"github.com/MeKo-Tech/textract-annotator/internal/source"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/fatih/color"
)

// Constructors for the AWS-backed collaborators. Tests swap them for fakes.
var (
	loadAWSConfig = func(ctx context.Context, cfg *config.Config) (aws.Config, error) {
		return cfg.LoadAWSConfig(ctx)
	}
	newDetector = func(awsCfg aws.Config, cfg *config.Config) annotate.Detector {
		return ocr.NewFromConfig(awsCfg, cfg.AWS.Endpoint,
			ocr.WithRetryPolicy(cfg.ToRetryPolicy()),
			ocr.WithLogger(slog.Default()),
		)
	}
	newStore = func(awsCfg aws.Config, cfg *config.Config) annotate.Store {
		return source.NewFromConfig(awsCfg, cfg.AWS.S3Endpoint, cfg.AWS.S3PathStyle)
	}
)

// services bundles what a command needs to annotate files.
type services struct {
	processor *annotate.Processor
	store     annotate.Store
}

// buildServices wires the Textract client, the store and the processor from cfg.
func buildServices(ctx context.Context, cfg *config.Config) (*services, error) {
	style, err := cfg.ToStyle()
	if err != nil {
		return nil, err
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := newStore(awsCfg, cfg)
	return &services{
		processor: annotate.NewProcessor(newDetector(awsCfg, cfg), store, style, slog.Default()),
		store:     store,
	}, nil
}

// writeReport stores the word report for results at cfg.Output.Report, if set.
func (s *services) writeReport(ctx context.Context, cfg *config.Config, results ...*annotate.Result) error {
	loc := cfg.Output.Report
	if loc == "" {
		return nil
	}

	rep := report.New(results...)
	data, err := rep.Encode(report.EncodingFor(loc))
	if err != nil {
		return err
	}
	if err := s.store.Write(ctx, loc, data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	slog.Info("Report written", "path", loc, "files", len(rep.Files), "words", rep.TotalWords())
	return nil
}

// flushMetrics writes the metrics textfile when configured.
func flushMetrics(cfg *config.Config) {
	if err := metrics.WriteTextfile(cfg.Output.MetricsTextfile); err != nil {
		slog.Warn("failed to write metrics textfile", "path", cfg.Output.MetricsTextfile, "error", err)
	}
}

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
)

// printSaved prints the user-facing result line for one annotated file.
func printSaved(w io.Writer, res *annotate.Result) {
	_, _ = successColor.Fprintf(w, "Annotated %s saved to: %s", res.Format, res.Output)
	_, _ = fmt.Fprintf(w, " (%d words)\n", len(res.Summary.Words))
}
