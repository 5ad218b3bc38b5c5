package annotate

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/MeKo-Tech/textract-annotator/internal/metrics"
	"github.com/disintegration/imaging"
)

// Format names a supported input type.
type Format string

// Supported input formats.
const (
	FormatPDF  Format = "PDF"
	FormatPNG  Format = "PNG"
	FormatJPEG Format = "JPEG"
	FormatTIFF Format = "TIFF"
)

// supportedExtensions maps lowercase file suffixes to formats, in display order.
var supportedExtensions = []struct {
	ext    string
	format Format
}{
	{".pdf", FormatPDF},
	{".png", FormatPNG},
	{".jpg", FormatJPEG},
	{".jpeg", FormatJPEG},
	{".tif", FormatTIFF},
	{".tiff", FormatTIFF},
}

// AnnotatedSuffix is inserted before the extension of derived output names.
const AnnotatedSuffix = ".annotated"

// UnsupportedFormatError is returned for inputs with an unknown suffix.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s. Supported formats: %s",
		e.Ext, strings.Join(SupportedExtensions(), ", "))
}

// SupportedExtensions lists the accepted file suffixes.
func SupportedExtensions() []string {
	exts := make([]string, len(supportedExtensions))
	for i, s := range supportedExtensions {
		exts[i] = s.ext
	}
	return exts
}

// FormatFor returns the format for loc based on its suffix, case-insensitively.
func FormatFor(loc string) (Format, error) {
	ext := strings.ToLower(path.Ext(loc))
	for _, s := range supportedExtensions {
		if s.ext == ext {
			return s.format, nil
		}
	}
	return "", &UnsupportedFormatError{Ext: ext}
}

// OutputPath returns output when set, otherwise <stem>.annotated<ext> next to input.
func OutputPath(input, output string) string {
	if output != "" {
		return output
	}
	ext := path.Ext(input)
	return strings.TrimSuffix(input, ext) + AnnotatedSuffix + ext
}

// IsAnnotatedOutput reports whether loc looks like a file this tool produced.
func IsAnnotatedOutput(loc string) bool {
	base := path.Base(strings.ReplaceAll(loc, "\\", "/"))
	return strings.HasSuffix(strings.TrimSuffix(base, path.Ext(base)), AnnotatedSuffix)
}

// Store reads inputs and writes outputs.
type Store interface {
	Read(ctx context.Context, loc string) ([]byte, error)
	Write(ctx context.Context, loc string, data []byte) error
}

// Result describes one processed file.
type Result struct {
	Input    string
	Output   string
	Format   Format
	Summary  Summary
	Duration time.Duration
}

// Processor picks the annotator for a file and runs it end to end.
type Processor struct {
	detector Detector
	store    Store
	style    Style
	logger   *slog.Logger
}

// NewProcessor creates a Processor. A nil logger uses slog.Default().
func NewProcessor(det Detector, store Store, style Style, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{detector: det, store: store, style: style, logger: logger}
}

// AnnotatorFor returns the annotator handling format.
func (p *Processor) AnnotatorFor(format Format) (Annotator, error) {
	switch format {
	case FormatPDF:
		return NewPDFAnnotator(p.detector, p.style, p.logger), nil
	case FormatPNG:
		return NewImageAnnotator(p.detector, p.style, imaging.PNG), nil
	case FormatJPEG:
		return NewImageAnnotator(p.detector, p.style, imaging.JPEG), nil
	case FormatTIFF:
		return NewImageAnnotator(p.detector, p.style, imaging.TIFF), nil
	default:
		return nil, &UnsupportedFormatError{Ext: string(format)}
	}
}

// Process annotates input and writes the result to output, or to the
// derived <stem>.annotated<ext> location when output is empty.
func (p *Processor) Process(ctx context.Context, input, output string) (*Result, error) {
	start := time.Now()

	format, err := FormatFor(input)
	if err != nil {
		return nil, err
	}
	annotator, err := p.AnnotatorFor(format)
	if err != nil {
		return nil, err
	}
	output = OutputPath(input, output)

	p.logger.Info(fmt.Sprintf("Processing %s: %s", format, input), "format", string(format), "input", input)

	data, err := p.store.Read(ctx, input)
	if err != nil {
		metrics.ObserveFile(string(format), "error", 0, time.Since(start))
		return nil, err
	}
	annotated, summary, err := annotator.Annotate(ctx, data)
	if err != nil {
		metrics.ObserveFile(string(format), "error", 0, time.Since(start))
		return nil, fmt.Errorf("failed to annotate %s: %w", input, err)
	}
	p.logger.Debug("surface dimensions", "width", summary.SurfaceWidth, "height", summary.SurfaceHeight)
	p.logger.Info(fmt.Sprintf("Textract detected %d blocks", summary.Blocks), "blocks", summary.Blocks)
	p.logger.Info(fmt.Sprintf("Annotated %d words", len(summary.Words)), "words", len(summary.Words))

	if err := p.store.Write(ctx, output, annotated); err != nil {
		metrics.ObserveFile(string(format), "error", 0, time.Since(start))
		return nil, err
	}

	res := &Result{
		Input:    input,
		Output:   output,
		Format:   format,
		Summary:  summary,
		Duration: time.Since(start),
	}
	metrics.ObserveFile(string(format), "ok", len(summary.Words), res.Duration)
	p.logger.Info(fmt.Sprintf("Annotated %s saved to: %s", strings.ToLower(string(format)), output),
		"output", output, "duration", res.Duration.String())
	return res, nil
}
