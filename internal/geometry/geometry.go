// Package geometry converts Textract's normalized bounding boxes into the
// native coordinate space of a rendering surface.
package geometry

import (
	"image"
	"math"
)

// NormalizedBox is a rectangle expressed as fractions of the surface size,
// with the origin in the top-left corner. Textract may report values that
// overshoot 1.0 slightly; they are carried through unchanged.
type NormalizedBox struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// AbsoluteBox is a rectangle in surface units (points for a PDF page,
// pixels for a raster image), top-left origin.
type AbsoluteBox struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// ToAbsolute scales box to a surface of the given width and height.
// No clamping, rounding or range validation is applied.
func ToAbsolute(box NormalizedBox, surfaceWidth, surfaceHeight float64) AbsoluteBox {
	return AbsoluteBox{
		Left:   box.Left * surfaceWidth,
		Top:    box.Top * surfaceHeight,
		Right:  (box.Left + box.Width) * surfaceWidth,
		Bottom: (box.Top + box.Height) * surfaceHeight,
	}
}

// Width returns the box width.
func (b AbsoluteBox) Width() float64 { return b.Right - b.Left }

// Height returns the box height.
func (b AbsoluteBox) Height() float64 { return b.Bottom - b.Top }

// Page is the visible area of a PDF page in default user space: the lower
// left corner and size of its crop box plus its /Rotate value. Textract sees
// the page as displayed, i.e. after rotation.
type Page struct {
	LLX, LLY      float64
	Width, Height float64
	Rotation      int
}

// rotation returns the page rotation as one of 0, 90, 180 or 270.
func (p Page) rotation() int {
	r := p.Rotation % 360
	if r < 0 {
		r += 360
	}
	return r / 90 * 90
}

// Surface returns the displayed page size.
func (p Page) Surface() (width, height float64) {
	if p.rotation()%180 != 0 {
		return p.Height, p.Width
	}
	return p.Width, p.Height
}

// toUser maps a point of the displayed page (top-left origin, y down) into
// unrotated user space (bottom-left origin, y up).
func (p Page) toUser(x, y float64) (float64, float64) {
	var u, v float64
	switch p.rotation() {
	case 90:
		u, v = y, x
	case 180:
		u, v = p.Width-x, y
	case 270:
		u, v = p.Width-y, p.Height-x
	default:
		u, v = x, p.Height-y
	}
	return p.LLX + u, p.LLY + v
}

// UserRect maps a box on the displayed page into unrotated PDF user space
// and returns its lower-left and upper-right corners.
func (p Page) UserRect(b AbsoluteBox) (llx, lly, urx, ury float64) {
	x0, y0 := p.toUser(b.Left, b.Top)
	x1, y1 := p.toUser(b.Right, b.Bottom)
	return math.Min(x0, x1), math.Min(y0, y1), math.Max(x0, x1), math.Max(y0, y1)
}

// Rect rounds the box to the nearest integer pixel rectangle.
func (b AbsoluteBox) Rect() image.Rectangle {
	return image.Rect(
		int(math.Round(b.Left)),
		int(math.Round(b.Top)),
		int(math.Round(b.Right)),
		int(math.Round(b.Bottom)),
	)
}
