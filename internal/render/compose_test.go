package render_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunaqr/lunaqr/internal/render"
)

// colorNear reports whether a pixel matches the wanted color within a small
// tolerance, absorbing antialiasing and color-model conversions.
func colorNear(c color.Color, want color.RGBA) bool {
	r, g, b, a := c.RGBA()
	if a < 0x8000 {
		return false
	}
	near := func(got uint32, want uint8) bool {
		d := int(got>>8) - int(want)
		return d > -16 && d < 16
	}
	return near(r, want.R) && near(g, want.G) && near(b, want.B)
}

func countColor(img image.Image, want color.RGBA, in image.Rectangle) int {
	n := 0
	for y := in.Min.Y; y < in.Max.Y; y++ {
		for x := in.Min.X; x < in.Max.X; x++ {
			if colorNear(img.At(x, y), want) {
				n++
			}
		}
	}
	return n
}

func TestComposeDeterminism(t *testing.T) {
	t.Parallel()

	r := render.NewRenderer()
	style := render.DefaultStyle(150)

	a, err := r.Compose(context.Background(), "https://example.com", style, false)
	require.NoError(t, err)
	b, err := r.Compose(context.Background(), "https://example.com", style, false)
	require.NoError(t, err)

	pngA, err := render.EncodePNG(a.Img)
	require.NoError(t, err)
	pngB, err := render.EncodePNG(b.Img)
	require.NoError(t, err)
	assert.Equal(t, pngA, pngB, "same text and style must yield pixel-identical output")
}

func TestComposeNoClip(t *testing.T) {
	t.Parallel()

	style := render.DefaultStyle(200)
	style.PatternSizePercent = 100
	style.DistancePercent = 100

	c, err := render.NewRenderer().Compose(context.Background(), "https://example.com", style, false)
	require.NoError(t, err)

	// 200 (QR) + 200 (radius) + 100 (scaled distance)
	assert.GreaterOrEqual(t, c.Side, 500)
	assert.Equal(t, c.Side, c.Img.Bounds().Dx())
	assert.Equal(t, c.Side, c.Img.Bounds().Dy())
}

func TestComposeEdgeCellsInsideCanvas(t *testing.T) {
	t.Parallel()

	// Radius and cell size chosen so the outermost grid candidates land
	// within half a cell of the disc boundary: radius 33, cell 10.
	style := render.DefaultStyle(100)
	style.CellSizePercent = 10
	style.PatternSizePercent = 33

	radius := style.Radius()
	cell := style.ScaledCellSize()
	dist := style.ScaledDistance()
	side := style.ModuleSize + radius
	if dist > 0 {
		side += dist
	}

	regions := [][]render.Cell{
		render.Pattern(style.ModuleSize+dist, style.ModuleSize/2, radius, cell, render.SideRight, style.Seed),
		render.Pattern(style.ModuleSize/2, style.ModuleSize+dist, radius, cell, render.SideBottom, style.Seed),
	}
	for _, cells := range regions {
		require.NotEmpty(t, cells)
		for _, c := range cells {
			assert.GreaterOrEqual(t, c.X-cell/2, 0)
			assert.GreaterOrEqual(t, c.Y-cell/2, 0)
			assert.LessOrEqual(t, c.X+cell/2, side, "cell at (%d,%d) crosses the right edge", c.X, c.Y)
			assert.LessOrEqual(t, c.Y+cell/2, side, "cell at (%d,%d) crosses the bottom edge", c.X, c.Y)
		}
	}

	comp, err := render.NewRenderer().Compose(context.Background(), "https://example.com", style, false)
	require.NoError(t, err)
	require.Equal(t, side, comp.Side)

	// No cut-off fragments in the outermost column or row.
	lastCol := image.Rect(comp.Side-1, 0, comp.Side, comp.Side)
	lastRow := image.Rect(0, comp.Side-1, comp.Side, comp.Side)
	assert.Zero(t, countColor(comp.Img, style.Color, lastCol))
	assert.Zero(t, countColor(comp.Img, style.Color, lastRow))
}

func TestComposeTransparentBackground(t *testing.T) {
	t.Parallel()

	r := render.NewRenderer()
	style := render.DefaultStyle(150)

	comp, err := r.Compose(context.Background(), "https://example.com", style, true)
	require.NoError(t, err)

	// The far corner sits outside the QR area and both pattern discs.
	_, _, _, a := comp.Img.At(comp.Side-1, comp.Side-1).RGBA()
	assert.Zero(t, a, "composite background must stay fully transparent")

	final := r.Rotate(comp, true)
	raw, err := render.EncodePNG(final.Img)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	_, _, _, a = decoded.At(0, 0).RGBA()
	assert.Zero(t, a, "transparency must survive the export encoding")
}

func TestComposeEncodingError(t *testing.T) {
	t.Parallel()

	// Far beyond QR capacity at the configured error-correction level.
	huge := strings.Repeat("a", 5000)
	_, err := render.NewRenderer().Compose(context.Background(), huge, render.DefaultStyle(150), false)
	assert.ErrorIs(t, err, render.ErrEncoding)
}

func TestComposeCanvasAllocationError(t *testing.T) {
	t.Parallel()

	style := render.DefaultStyle(1 << 14)
	_, err := render.NewRenderer().Compose(context.Background(), "https://example.com", style, false)
	assert.ErrorIs(t, err, render.ErrCanvasAllocation)
}

func TestComposeInvalidStyle(t *testing.T) {
	t.Parallel()

	style := render.DefaultStyle(150)
	style.CellSizePercent = 50
	_, err := render.NewRenderer().Compose(context.Background(), "https://example.com", style, false)
	assert.ErrorIs(t, err, render.ErrInvalidStyle)
}

func TestComposeContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := render.NewRenderer().Compose(ctx, "https://example.com", render.DefaultStyle(150), false)
	assert.ErrorIs(t, err, context.Canceled)
}

// staleCtx reports cancellation only after a fixed number of checks,
// simulating a client that disconnects while the composite is being drawn.
type staleCtx struct {
	context.Context
	checksLeft int
}

func (c *staleCtx) Err() error {
	if c.checksLeft > 0 {
		c.checksLeft--
		return nil
	}
	return context.Canceled
}

func TestRenderDiscardsStaleComposite(t *testing.T) {
	t.Parallel()

	// Composition itself checks the context twice; the next check belongs
	// to Render, which must discard the finished composite unrotated.
	ctx := &staleCtx{Context: context.Background(), checksLeft: 2}
	_, err := render.NewRenderer().Render(ctx, "https://example.com", render.DefaultStyle(150), false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEndToEndScenario(t *testing.T) {
	t.Parallel()

	fg, err := render.ParseHexColor("#2563eb")
	require.NoError(t, err)

	style := render.DefaultStyle(200)
	style.Color = fg
	// distance 50, cell 8, pattern 50 are the defaults.

	r := render.NewRenderer()
	composite, err := r.Compose(context.Background(), "https://example.com", style, false)
	require.NoError(t, err)

	// scaledDistance is 0 at the neutral 50%, so side = 1.5 x moduleSize.
	assert.Equal(t, 300, composite.Side)

	final := r.Rotate(composite, false)
	assert.Equal(t, 425, final.Side, "ceil(sqrt2 * 300)")

	raw, err := render.EncodePNG(final.Img)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	// The composite holds a QR region plus two dot clusters in the
	// foreground color: one right of the QR, one below it.
	bounds := composite.Img.Bounds()
	qrArea := image.Rect(0, 0, 200, 200)
	rightArea := image.Rect(210, 0, bounds.Max.X, 200)
	bottomArea := image.Rect(0, 210, 200, bounds.Max.Y)

	assert.Positive(t, countColor(composite.Img, fg, qrArea), "QR modules missing")
	assert.Positive(t, countColor(composite.Img, fg, rightArea), "right dot cluster missing")
	assert.Positive(t, countColor(composite.Img, fg, bottomArea), "bottom dot cluster missing")
}
