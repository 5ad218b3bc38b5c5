package batch

import (
	"context"
	"log/slog"

	"github.com/MeKo-Tech/textract-annotator/internal/annotate"
	"golang.org/x/sync/errgroup"
)

// job is a single file queued for annotation.
type job struct {
	index int
	input string
}

// processFiles annotates files with at most cfg.Workers concurrent calls.
// Items keep the order of files. Unless ContinueOnError is set, the first
// failure stops the remaining work and is returned; files that never ran
// are left without a result or error.
func processFiles(ctx context.Context, proc Processor, files []string, cfg *Config) ([]Item, error) {
	items := make([]Item, len(files))
	for i, f := range files {
		items[i].Input = f
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, f := range files {
		if gctx.Err() != nil {
			break
		}
		j := job{index: i, input: f}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, err := processSingleFile(gctx, proc, j, cfg.OutputDir)
			items[j.index].Result = res
			items[j.index].Err = err
			if err != nil && !cfg.ContinueOnError {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, ctx.Err()
}

// processSingleFile runs one job through the processor.
func processSingleFile(ctx context.Context, proc Processor, j job, outputDir string) (*annotate.Result, error) {
	res, err := proc.Process(ctx, j.input, outputFor(j.input, outputDir))
	if err != nil {
		slog.Warn("failed to annotate file", "file", j.input, "error", err)
		return nil, err
	}
	return res, nil
}
