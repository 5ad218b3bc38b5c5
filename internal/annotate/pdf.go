package annotate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/MeKo-Tech/textract-annotator/internal/geometry"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcolor "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/color"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

// PDFAnnotator adds a square annotation around every word on page 1.
type PDFAnnotator struct {
	detector Detector
	style    Style
	logger   *slog.Logger
}

// NewPDFAnnotator creates a PDF annotator backed by det.
func NewPDFAnnotator(det Detector, style Style, logger *slog.Logger) *PDFAnnotator {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFAnnotator{detector: det, style: style, logger: logger}
}

// Annotate detects words in input and returns the PDF with one rectangle
// annotation per word. Textract sees page 1 as displayed, so each box is
// mapped back through the page rotation and crop box offset into user space.
func (a *PDFAnnotator) Annotate(ctx context.Context, input []byte) ([]byte, Summary, error) {
	conf := model.NewDefaultConfiguration()

	page, err := a.firstPage(input, conf)
	if err != nil {
		return nil, Summary{}, err
	}
	width, height := page.Surface()

	words, blocks, err := detectWords(ctx, a.detector, input)
	if err != nil {
		return nil, Summary{}, err
	}

	summary := Summary{
		Blocks:        blocks,
		Words:         words,
		Boxes:         make([]geometry.AbsoluteBox, 0, len(words)),
		SurfaceWidth:  width,
		SurfaceHeight: height,
	}

	renderers := make([]model.AnnotationRenderer, 0, len(words))
	for i, w := range words {
		abs := geometry.ToAbsolute(w.BoundingBox, width, height)
		summary.Boxes = append(summary.Boxes, abs)

		rect := types.NewRectangle(page.UserRect(abs))
		renderers = append(renderers, a.square(*rect, fmt.Sprintf("word-%d", i+1), w.Text))
	}

	if len(renderers) == 0 {
		out := make([]byte, len(input))
		copy(out, input)
		return out, summary, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, Summary{}, err
	}

	var buf bytes.Buffer
	m := map[int][]model.AnnotationRenderer{1: renderers}
	if err := api.AddAnnotationsMap(bytes.NewReader(input), &buf, m, conf); err != nil {
		return nil, Summary{}, fmt.Errorf("failed to add PDF annotations: %w", err)
	}
	return buf.Bytes(), summary, nil
}

// firstPage reads the crop box and rotation of page 1.
func (a *PDFAnnotator) firstPage(input []byte, conf *model.Configuration) (geometry.Page, error) {
	pdfCtx, err := api.ReadAndValidate(bytes.NewReader(input), conf)
	if err != nil {
		return geometry.Page{}, fmt.Errorf("failed to read PDF: %w", err)
	}
	if pdfCtx.PageCount == 0 {
		return geometry.Page{}, ErrEmptyDocument
	}
	if pdfCtx.PageCount > 1 {
		a.logger.Warn("only the first PDF page is annotated", "pages", pdfCtx.PageCount)
	}

	boundaries, err := pdfCtx.PageBoundaries(nil)
	if err != nil {
		return geometry.Page{}, fmt.Errorf("failed to read PDF page boundaries: %w", err)
	}
	if len(boundaries) == 0 || boundaries[0].MediaBox() == nil {
		return geometry.Page{}, ErrEmptyDocument
	}

	crop := boundaries[0].CropBox()
	if crop == nil || crop.Width() == 0 || crop.Height() == 0 {
		crop = boundaries[0].MediaBox()
	}
	return geometry.Page{
		LLX:      math.Min(crop.LL.X, crop.UR.X),
		LLY:      math.Min(crop.LL.Y, crop.UR.Y),
		Width:    math.Abs(crop.Width()),
		Height:   math.Abs(crop.Height()),
		Rotation: boundaries[0].Rot,
	}, nil
}

// square builds an unfilled square annotation stroked in the annotator's style.
func (a *PDFAnnotator) square(rect types.Rectangle, id, contents string) model.AnnotationRenderer {
	stroke := pdfcolor.SimpleColor{
		R: float32(a.style.Color.R) / 255,
		G: float32(a.style.Color.G) / 255,
		B: float32(a.style.Color.B) / 255,
	}
	return model.NewSquareAnnotation(
		rect,                   // rect
		0,                      // apObjNr
		contents,               // contents
		id,                     // id
		"",                     // modDate
		0,                      // f
		&stroke,                // col
		"",                     // title
		nil,                    // popupIndRef
		nil,                    // ca
		"",                     // rc
		"",                     // subject
		nil,                    // fillCol
		0,                      // MLeft
		0,                      // MTop
		0,                      // MRight
		0,                      // MBot
		float64(a.style.Width), // borderWidth
		model.BSSolid,          // borderStyle
		false,                  // cloudyBorder
		0,                      // cloudyBorderIntensity
	)
}
