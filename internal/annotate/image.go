package annotate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	_ "image/jpeg"
	_ "image/png"

	"github.com/MeKo-Tech/textract-annotator/internal/geometry"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/tiff"
)

// ImageProcessingError reports a failure while decoding or encoding an image.
type ImageProcessingError struct {
	Operation string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *ImageProcessingError) Unwrap() error {
	return e.Err
}

// ImageAnnotator strokes a rectangle around every word on a copy of a raster image.
type ImageAnnotator struct {
	detector Detector
	style    Style
	format   imaging.Format
}

// NewImageAnnotator creates an image annotator that encodes its output in format.
func NewImageAnnotator(det Detector, style Style, format imaging.Format) *ImageAnnotator {
	return &ImageAnnotator{detector: det, style: style, format: format}
}

// Annotate decodes input, detects words and returns the re-encoded image
// with the word rectangles drawn in pixel space.
func (a *ImageAnnotator) Annotate(ctx context.Context, input []byte) ([]byte, Summary, error) {
	img, err := imaging.Decode(bytes.NewReader(input))
	if err != nil {
		return nil, Summary{}, &ImageProcessingError{Operation: "decode", Err: err}
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, Summary{}, &ImageProcessingError{Operation: "decode", Err: errors.New("image has no pixels")}
	}

	words, blocks, err := detectWords(ctx, a.detector, input)
	if err != nil {
		return nil, Summary{}, err
	}

	width, height := float64(b.Dx()), float64(b.Dy())
	summary := Summary{
		Blocks:        blocks,
		Words:         words,
		Boxes:         make([]geometry.AbsoluteBox, 0, len(words)),
		SurfaceWidth:  width,
		SurfaceHeight: height,
	}

	// Clone re-bases the copy at (0,0) and leaves img untouched.
	dst := imaging.Clone(img)
	for _, w := range words {
		abs := geometry.ToAbsolute(w.BoundingBox, width, height)
		summary.Boxes = append(summary.Boxes, abs)
		drawRect(dst, abs.Rect(), a.style.Color, a.style.Width)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, a.format); err != nil {
		return nil, Summary{}, &ImageProcessingError{Operation: "encode", Err: err}
	}
	return buf.Bytes(), summary, nil
}
