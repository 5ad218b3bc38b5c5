// Package metrics holds the Prometheus collectors for Textract calls and
// annotation runs. The CLI has no HTTP listener, so the registry is exported
// through the node-exporter textfile format instead of a scrape endpoint.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for Textract calls.
const (
	OutcomeSuccess   = "success"
	OutcomeThrottled = "throttled"
	OutcomeError     = "error"
)

// Registry collects every metric defined by this package.
var Registry = prometheus.NewRegistry()

var (
	textractCalls = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "textract_annotator_textract_calls_total",
			Help: "Total number of DetectDocumentText calls by outcome",
		},
		[]string{"outcome"}, // outcome: success, throttled, error
	)

	textractRetries = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "textract_annotator_textract_retries_total",
			Help: "Total number of retries after a throttled call",
		},
	)

	filesProcessed = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "textract_annotator_files_total",
			Help: "Total number of processed files",
		},
		[]string{"format", "status"},
	)

	wordsAnnotated = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "textract_annotator_words_annotated_total",
			Help: "Total number of word rectangles drawn",
		},
		[]string{"format"},
	)

	processingDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "textract_annotator_processing_duration_seconds",
			Help:    "End-to-end processing duration per file in seconds",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 25, 50, 100},
		},
		[]string{"format"},
	)
)

// ObserveTextractCall counts one backend call with the given outcome.
func ObserveTextractCall(outcome string) {
	textractCalls.WithLabelValues(outcome).Inc()
}

// ObserveRetry counts one backoff-and-retry.
func ObserveRetry() {
	textractRetries.Inc()
}

// ObserveFile records a finished file. status is "ok" or "error".
func ObserveFile(format, status string, words int, d time.Duration) {
	filesProcessed.WithLabelValues(format, status).Inc()
	if words > 0 {
		wordsAnnotated.WithLabelValues(format).Add(float64(words))
	}
	processingDuration.WithLabelValues(format).Observe(d.Seconds())
}

// WriteTextfile writes the registry to path in the text exposition format.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
