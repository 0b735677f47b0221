package render

import (
	"math"

	"github.com/fogleman/gg"
)

// Rotate draws the composite into a square buffer of side ceil(sqrt2 * side),
// the worst-case diagonal of a rotated square, so no corner is ever cropped
// regardless of the configured angle. The background is filled before the
// transform for opaque exports so antialiased edges blend into white rather
// than leaving artifacts.
func (r *Renderer) Rotate(c *Canvas, transparent bool) *Canvas {
	side := int(math.Ceil(math.Sqrt2 * float64(c.Side)))

	dc := gg.NewContext(side, side)
	if !transparent {
		dc.SetRGB(1, 1, 1)
		dc.Clear()
	}

	dc.Translate(float64(side)/2, float64(side)/2)
	dc.Rotate(gg.Radians(r.AngleDegrees))
	dc.Translate(-float64(c.Side)/2, -float64(c.Side)/2)
	dc.DrawImage(c.Img, 0, 0)

	return &Canvas{Img: dc.Image(), Side: side}
}
