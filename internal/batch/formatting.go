package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// fileSummary is one row of the batch summary.
type fileSummary struct {
	File       string `json:"file"`
	Output     string `json:"output,omitempty"`
	Format     string `json:"format,omitempty"`
	Blocks     int    `json:"blocks"`
	Words      int    `json:"words"`
	DurationMS int64  `json:"duration_ms"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

func (r *Result) summaries() []fileSummary {
	rows := make([]fileSummary, len(r.Items))
	for i, it := range r.Items {
		row := fileSummary{File: it.Input, Status: "skipped"}
		switch {
		case it.Err != nil:
			row.Status = "error"
			row.Error = it.Err.Error()
		case it.Result != nil:
			row.Status = "ok"
			row.Output = it.Result.Output
			row.Format = string(it.Result.Format)
			row.Blocks = it.Result.Summary.Blocks
			row.Words = len(it.Result.Summary.Words)
			row.DurationMS = it.Result.Duration.Milliseconds()
		}
		rows[i] = row
	}
	return rows
}

// FormatResults formats the batch summary as "text", "json" or "csv".
func (r *Result) FormatResults(format string) (string, error) {
	switch format {
	case "json":
		return r.formatJSON()
	case "csv":
		return r.formatCSV()
	case "", "text":
		return r.formatText(), nil
	default:
		return "", fmt.Errorf("unsupported summary format: %s", format)
	}
}

func (r *Result) formatJSON() (string, error) {
	out := struct {
		Files      []fileSummary `json:"files"`
		Succeeded  int           `json:"succeeded"`
		Failed     int           `json:"failed"`
		Skipped    int           `json:"skipped"`
		DurationMS int64         `json:"duration_ms"`
	}{
		Files:      r.summaries(),
		Succeeded:  r.Succeeded(),
		Failed:     r.Failed(),
		Skipped:    r.Skipped(),
		DurationMS: r.Duration.Milliseconds(),
	}

	bts, err := json.MarshalIndent(out, "", "  ")
	return string(bts), err
}

func (r *Result) formatCSV() (string, error) {
	var output strings.Builder
	writer := csv.NewWriter(&output)

	if err := writer.Write([]string{"file", "status", "output", "format", "blocks", "words", "duration_ms", "error"}); err != nil {
		return "", err
	}
	for _, s := range r.summaries() {
		row := []string{
			s.File,
			s.Status,
			s.Output,
			s.Format,
			strconv.Itoa(s.Blocks),
			strconv.Itoa(s.Words),
			strconv.FormatInt(s.DurationMS, 10),
			s.Error,
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return output.String(), writer.Error()
}

func (r *Result) formatText() string {
	var output strings.Builder
	for _, s := range r.summaries() {
		switch s.Status {
		case "ok":
			fmt.Fprintf(&output, "%s -> %s (%d words)\n", s.File, s.Output, s.Words)
		case "error":
			fmt.Fprintf(&output, "%s: error: %s\n", s.File, s.Error)
		default:
			fmt.Fprintf(&output, "%s: skipped\n", s.File)
		}
	}
	return output.String()
}

// PrintStats writes processing statistics to w.
func (r *Result) PrintStats(w io.Writer) {
	words := 0
	for _, res := range r.Results() {
		words += len(res.Summary.Words)
	}

	_, _ = fmt.Fprintf(w, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(w, "  Total files: %d\n", len(r.Items))
	_, _ = fmt.Fprintf(w, "  Annotated: %d\n", r.Succeeded())
	_, _ = fmt.Fprintf(w, "  Failed: %d\n", r.Failed())
	if skipped := r.Skipped(); skipped > 0 {
		_, _ = fmt.Fprintf(w, "  Skipped: %d\n", skipped)
	}
	_, _ = fmt.Fprintf(w, "  Words: %d\n", words)
	_, _ = fmt.Fprintf(w, "  Workers: %d\n", r.WorkerCount)
	_, _ = fmt.Fprintf(w, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
}
