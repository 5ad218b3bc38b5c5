// Package report writes the words found in annotated documents as JSON or YAML.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/MeKo-Tech/textract-annotator/internal/annotate"
	"github.com/MeKo-Tech/textract-annotator/internal/geometry"
	"github.com/MeKo-Tech/textract-annotator/internal/version"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Encoding selects the report serialization.
type Encoding string

// Supported encodings.
const (
	JSON Encoding = "json"
	YAML Encoding = "yaml"
)

// EncodingFor picks YAML for .yaml/.yml locations and JSON otherwise.
func EncodingFor(loc string) Encoding {
	switch strings.ToLower(path.Ext(loc)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Word is a detected word with its box in both coordinate spaces.
type Word struct {
	Text       string                 `json:"text" yaml:"text"`
	Confidence float64                `json:"confidence" yaml:"confidence"`
	Normalized geometry.NormalizedBox `json:"normalized" yaml:"normalized"`
	Absolute   geometry.AbsoluteBox   `json:"absolute" yaml:"absolute"`
}

// File is the report entry for one annotated document.
type File struct {
	Input         string  `json:"input" yaml:"input"`
	Output        string  `json:"output" yaml:"output"`
	Format        string  `json:"format" yaml:"format"`
	Blocks        int     `json:"blocks" yaml:"blocks"`
	SurfaceWidth  float64 `json:"surface_width" yaml:"surface_width"`
	SurfaceHeight float64 `json:"surface_height" yaml:"surface_height"`
	DurationMS    int64   `json:"duration_ms" yaml:"duration_ms"`
	Words         []Word  `json:"words" yaml:"words"`
}

// Report collects the entries of one run.
type Report struct {
	Tool        string    `json:"tool" yaml:"tool"`
	Version     string    `json:"version" yaml:"version"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Files       []File    `json:"files" yaml:"files"`
}

// New builds a report from processed results. Word text is normalized to NFC.
func New(results ...*annotate.Result) *Report {
	r := &Report{
		Tool:        version.Name,
		Version:     version.Short(),
		GeneratedAt: time.Now().UTC(),
		Files:       make([]File, 0, len(results)),
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		r.Files = append(r.Files, fileFrom(res))
	}
	return r
}

func fileFrom(res *annotate.Result) File {
	s := res.Summary
	f := File{
		Input:         res.Input,
		Output:        res.Output,
		Format:        string(res.Format),
		Blocks:        s.Blocks,
		SurfaceWidth:  s.SurfaceWidth,
		SurfaceHeight: s.SurfaceHeight,
		DurationMS:    res.Duration.Milliseconds(),
		Words:         make([]Word, len(s.Words)),
	}
	for i, w := range s.Words {
		abs := geometry.ToAbsolute(w.BoundingBox, s.SurfaceWidth, s.SurfaceHeight)
		if i < len(s.Boxes) {
			abs = s.Boxes[i]
		}
		f.Words[i] = Word{
			Text:       norm.NFC.String(w.Text),
			Confidence: w.Confidence,
			Normalized: w.BoundingBox,
			Absolute:   abs,
		}
	}
	return f
}

// TotalWords returns the number of words across all files.
func (r *Report) TotalWords() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Words)
	}
	return n
}

// Encode serializes the report.
func (r *Report) Encode(enc Encoding) ([]byte, error) {
	switch enc {
	case YAML:
		var buf bytes.Buffer
		e := yaml.NewEncoder(&buf)
		e.SetIndent(2)
		if err := e.Encode(r); err != nil {
			return nil, fmt.Errorf("failed to encode YAML report: %w", err)
		}
		if err := e.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML report: %w", err)
		}
		return buf.Bytes(), nil
	case JSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON report: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported report encoding: %s", enc)
	}
}
