package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTextractCall(t *testing.T) {
	before := testutil.ToFloat64(textractCalls.WithLabelValues(OutcomeThrottled))
	ObserveTextractCall(OutcomeThrottled)
	ObserveTextractCall(OutcomeThrottled)
	after := testutil.ToFloat64(textractCalls.WithLabelValues(OutcomeThrottled))
	assert.InDelta(t, 2.0, after-before, 0.001)
}

func TestObserveRetry(t *testing.T) {
	before := testutil.ToFloat64(textractRetries)
	ObserveRetry()
	assert.InDelta(t, 1.0, testutil.ToFloat64(textractRetries)-before, 0.001)
}

func TestObserveFile(t *testing.T) {
	beforeWords := testutil.ToFloat64(wordsAnnotated.WithLabelValues("PNG"))
	beforeFiles := testutil.ToFloat64(filesProcessed.WithLabelValues("PNG", "ok"))

	ObserveFile("PNG", "ok", 12, 150*time.Millisecond)
	ObserveFile("PNG", "ok", 0, 10*time.Millisecond)

	assert.InDelta(t, 12.0, testutil.ToFloat64(wordsAnnotated.WithLabelValues("PNG"))-beforeWords, 0.001)
	assert.InDelta(t, 2.0, testutil.ToFloat64(filesProcessed.WithLabelValues("PNG", "ok"))-beforeFiles, 0.001)
}

func TestWriteTextfile(t *testing.T) {
	ObserveTextractCall(OutcomeSuccess)

	path := filepath.Join(t.TempDir(), "annotator.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "textract_annotator_textract_calls_total")
}

func TestWriteTextfile_EmptyPath(t *testing.T) {
	assert.NoError(t, WriteTextfile(""))
}
