package render

import (
	"context"
	"fmt"
	"image"

	"github.com/fogleman/gg"
)

// maxCanvasSide caps the derived canvas dimensions. Anything above this is a
// configuration mistake, not a drawable surface.
const maxCanvasSide = 1 << 14

// Canvas is a square raster produced by one pipeline stage. Buffers are
// created fresh per render and never mutated after construction.
type Canvas struct {
	Img  image.Image
	Side int
}

// Renderer runs the composite pipeline: QR raster, two half-disc patterns,
// rotation. It holds no per-render state, so a single Renderer is safe for
// concurrent use.
type Renderer struct {
	// AngleDegrees is the orientation applied by Rotate. The output bounding
	// box covers the worst-case diagonal, so any angle is safe.
	AngleDegrees float64
}

// NewRenderer returns a Renderer with the standard -135 degree orientation.
func NewRenderer() *Renderer {
	return &Renderer{AngleDegrees: -135}
}

// Compose lays out the QR raster at the origin and both pattern regions onto
// one canvas sized so nothing clips:
//
//	side = moduleSize + radius + max(0, scaledDistance)
//
// The context is checked between stages so an abandoned request discards its
// render instead of finishing it.
func (r *Renderer) Compose(ctx context.Context, text string, style Style, transparent bool) (*Canvas, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}

	radius := style.Radius()
	dist := style.ScaledDistance()
	cell := style.ScaledCellSize()

	side := style.ModuleSize + radius
	if dist > 0 {
		side += dist
	}
	if side <= 0 || side > maxCanvasSide {
		return nil, fmt.Errorf("%w: composite side %d", ErrCanvasAllocation, side)
	}

	qrImg, err := qrRaster(text, style.ModuleSize, style.Color, transparent)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dc := gg.NewContext(side, side)
	if !transparent {
		dc.SetRGB(1, 1, 1)
		dc.Clear()
	}
	dc.DrawImage(qrImg, 0, 0)

	dc.SetColor(style.Color)
	right := Pattern(style.ModuleSize+dist, style.ModuleSize/2, radius, cell, SideRight, style.Seed)
	bottom := Pattern(style.ModuleSize/2, style.ModuleSize+dist, radius, cell, SideBottom, style.Seed)
	// Each square is centered on its cell coordinate; the synthesizer's
	// in-region bound of radius - cellSize/2 then keeps every square inside
	// the disc, and with it inside the canvas.
	half := float64(cell) / 2
	for _, c := range right {
		dc.DrawRectangle(float64(c.X)-half, float64(c.Y)-half, float64(cell), float64(cell))
	}
	for _, c := range bottom {
		dc.DrawRectangle(float64(c.X)-half, float64(c.Y)-half, float64(cell), float64(cell))
	}
	dc.Fill()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Canvas{Img: dc.Image(), Side: side}, nil
}

// Render composes and rotates in one call, returning the final canvas.
func (r *Renderer) Render(ctx context.Context, text string, style Style, transparent bool) (*Canvas, error) {
	composite, err := r.Compose(ctx, text, style, transparent)
	if err != nil {
		return nil, err
	}
	// Check before rotating: a request abandoned during composition should
	// not pay for the rotation pass it will discard.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.Rotate(composite, transparent), nil
}
