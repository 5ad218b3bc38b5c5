// Package batch annotates many documents in one run: it discovers supported
// files, fans them out over a bounded worker pool and collects per-file results.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNoFiles is returned when discovery finds nothing to process.
var ErrNoFiles = errors.New("no supported files found")

// ProcessBatch discovers the documents named by args and annotates them with proc.
// The returned Result is non-nil whenever discovery succeeded, even if
// processing stopped on an error.
func ProcessBatch(ctx context.Context, proc Processor, args []string, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}

	files, err := discoverFiles(args, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	slog.Info("starting batch", "files", len(files), "workers", config.Workers)

	startTime := time.Now()
	items, err := processFiles(ctx, proc, files, config)
	result := &Result{
		Items:       items,
		Duration:    time.Since(startTime),
		WorkerCount: config.Workers,
	}

	if err != nil {
		return result, fmt.Errorf("batch processing failed: %w", err)
	}
	return result, nil
}
