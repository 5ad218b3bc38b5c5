package annotate

import (
	"image"
	"image/color"
	"image/draw"
)

// drawRect strokes an axis-aligned rectangle of the given thickness inward
// from the edges of rect. Both corners are inclusive, so the stroke covers
// column rect.Max.X and row rect.Max.Y. Parts outside dst are clipped.
func drawRect(dst draw.Image, rect image.Rectangle, col color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	outer := rect.Canon()
	outer.Max = outer.Max.Add(image.Pt(1, 1))
	rect = outer.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	// Top and bottom edges
	for t := range thickness {
		yTop := outer.Min.Y + t
		yBot := outer.Max.Y - 1 - t
		for x := rect.Min.X; x < rect.Max.X; x++ {
			setIn(dst, rect, x, yTop, col)
			setIn(dst, rect, x, yBot, col)
		}
	}
	// Left and right edges
	for t := range thickness {
		xLeft := outer.Min.X + t
		xRight := outer.Max.X - 1 - t
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			setIn(dst, rect, xLeft, y, col)
			setIn(dst, rect, xRight, y, col)
		}
	}
}

func setIn(dst draw.Image, clip image.Rectangle, x, y int, col color.Color) {
	if image.Pt(x, y).In(clip) {
		dst.Set(x, y, col)
	}
}
