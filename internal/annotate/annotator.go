// Package annotate draws Textract word boxes onto a copy of a PDF page or a
// raster image, and dispatches input files to the matching annotator.
package annotate

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/MeKo-Tech/textract-annotator/internal/geometry"
	"github.com/MeKo-Tech/textract-annotator/internal/ocr"
	"github.com/aws/aws-sdk-go-v2/service/textract"
)

// ErrEmptyDocument is returned when a PDF has no pages.
var ErrEmptyDocument = errors.New("PDF file is empty or corrupted")

// Detector runs text detection on raw document bytes.
type Detector interface {
	DetectText(ctx context.Context, fileBytes []byte) (*textract.DetectDocumentTextOutput, error)
}

// Annotator draws one rectangle per detected word on a copy of input.
type Annotator interface {
	Annotate(ctx context.Context, input []byte) ([]byte, Summary, error)
}

// Style is the rectangle stroke applied to every word.
type Style struct {
	Color color.RGBA
	Width int
}

// DefaultStyle returns the red, 2 unit wide outline.
func DefaultStyle() Style {
	return Style{Color: color.RGBA{R: 255, A: 255}, Width: 2}
}

// Summary describes what an annotator found and drew.
type Summary struct {
	Blocks        int
	Words         []ocr.WordDetection
	Boxes         []geometry.AbsoluteBox
	SurfaceWidth  float64
	SurfaceHeight float64
}

// detectWords calls the detector and keeps only word blocks with geometry.
func detectWords(ctx context.Context, det Detector, input []byte) ([]ocr.WordDetection, int, error) {
	out, err := det.DetectText(ctx, input)
	if err != nil {
		return nil, 0, err
	}
	if out == nil {
		return nil, 0, nil
	}
	return ocr.ExtractWords(out), len(out.Blocks), nil
}

// ParseHexColor parses colors like "#RRGGBB" or "RRGGBB".
func ParseHexColor(s string) (color.RGBA, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: expected #RRGGBB", s)
	}
	var rv, gv, bv int
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &rv, &gv, &bv); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{uint8(rv), uint8(gv), uint8(bv), 255}, nil //nolint:gosec // G115: two hex digits fit uint8
}
