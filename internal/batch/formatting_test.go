package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MeKo-Tech/textract-annotator/internal/annotate"
	"github.com/MeKo-Tech/textract-annotator/internal/ocr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	return &Result{
		Items: []Item{
			{
				Input: "/in/a.png",
				Result: &annotate.Result{
					Input:    "/in/a.png",
					Output:   "/in/a.annotated.png",
					Format:   annotate.FormatPNG,
					Summary:  annotate.Summary{Blocks: 5, Words: []ocr.WordDetection{{Text: "Hello"}, {Text: "World"}}},
					Duration: 1500 * time.Millisecond,
				},
			},
			{Input: "/in/b.pdf", Err: errors.New("ThrottlingException: slow down")},
			{Input: "/in/c.jpg"},
		},
		Duration:    3 * time.Second,
		WorkerCount: 2,
	}
}

func TestFormatResults_Text(t *testing.T) {
	out, err := sampleResult().FormatResults("text")
	require.NoError(t, err)

	assert.Contains(t, out, "/in/a.png -> /in/a.annotated.png (2 words)")
	assert.Contains(t, out, "/in/b.pdf: error: ThrottlingException: slow down")
	assert.Contains(t, out, "/in/c.jpg: skipped")
}

func TestFormatResults_JSON(t *testing.T) {
	out, err := sampleResult().FormatResults("json")
	require.NoError(t, err)

	var decoded struct {
		Files []struct {
			File   string `json:"file"`
			Status string `json:"status"`
			Words  int    `json:"words"`
			Error  string `json:"error"`
		} `json:"files"`
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
		Skipped   int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Files, 3)
	assert.Equal(t, "ok", decoded.Files[0].Status)
	assert.Equal(t, 2, decoded.Files[0].Words)
	assert.Equal(t, "error", decoded.Files[1].Status)
	assert.Equal(t, "skipped", decoded.Files[2].Status)
	assert.Equal(t, 1, decoded.Succeeded)
	assert.Equal(t, 1, decoded.Failed)
	assert.Equal(t, 1, decoded.Skipped)
}

func TestFormatResults_CSV(t *testing.T) {
	out, err := sampleResult().FormatResults("csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "file,status,output,format,blocks,words,duration_ms,error", lines[0])
	assert.Equal(t, "/in/a.png,ok,/in/a.annotated.png,PNG,5,2,1500,", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "/in/b.pdf,error,"))
}

func TestFormatResults_Unknown(t *testing.T) {
	_, err := sampleResult().FormatResults("xml")
	assert.Error(t, err)
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	sampleResult().PrintStats(&buf)

	out := buf.String()
	assert.Contains(t, out, "Total files: 3")
	assert.Contains(t, out, "Annotated: 1")
	assert.Contains(t, out, "Failed: 1")
	assert.Contains(t, out, "Skipped: 1")
	assert.Contains(t, out, "Words: 2")
	assert.Contains(t, out, "Workers: 2")
	assert.Contains(t, out, "Duration: 3s")
}
