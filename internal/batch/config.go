package batch

import (
	"context"
	"time"

	"github.com/MeKo-Tech/textract-annotator/internal/annotate"
)

// Config holds all configuration for batch processing.
type Config struct {
	// Parallel processing settings
	Workers         int
	ContinueOnError bool

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// OutputDir receives the annotated files. Empty writes each output
	// next to its input.
	OutputDir string
}

// DefaultConfig returns a single-worker, stop-on-first-error configuration.
func DefaultConfig() *Config {
	return &Config{Workers: 1}
}

// Processor annotates one file. *annotate.Processor satisfies it.
type Processor interface {
	Process(ctx context.Context, input, output string) (*annotate.Result, error)
}

// Item is the outcome for one discovered file.
type Item struct {
	Input  string
	Result *annotate.Result
	Err    error
}

// Result holds the result of batch processing, in discovery order.
type Result struct {
	Items       []Item
	Duration    time.Duration
	WorkerCount int
}

// Succeeded returns the number of files annotated without error.
func (r *Result) Succeeded() int {
	n := 0
	for _, it := range r.Items {
		if it.Err == nil && it.Result != nil {
			n++
		}
	}
	return n
}

// Failed returns the number of files that ended with an error.
func (r *Result) Failed() int {
	n := 0
	for _, it := range r.Items {
		if it.Err != nil {
			n++
		}
	}
	return n
}

// Skipped returns the number of files that were never processed because an
// earlier failure stopped the batch.
func (r *Result) Skipped() int {
	return len(r.Items) - r.Succeeded() - r.Failed()
}

// Results returns the successful per-file results.
func (r *Result) Results() []*annotate.Result {
	out := make([]*annotate.Result, 0, len(r.Items))
	for _, it := range r.Items {
		if it.Err == nil && it.Result != nil {
			out = append(out, it.Result)
		}
	}
	return out
}
