package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Style parameter ranges. Values outside these bounds are rejected by
// Validate; callers keep their previous valid value instead.
const (
	MinDistancePercent = 0
	MaxDistancePercent = 100

	MinCellSizePercent = 2
	MaxCellSizePercent = 15

	MinPatternSizePercent = 25
	MaxPatternSizePercent = 100

	// MinCellPx is the absolute floor for the pattern cell size, so small
	// module sizes never round the cells down to nothing.
	MinCellPx = 2

	// DefaultSeed drives the pattern hash when the caller does not supply one.
	DefaultSeed int64 = 1337
)

// Style is the immutable set of parameters for one render.
type Style struct {
	// Color is the foreground used for both the QR modules and the pattern
	// cells.
	Color color.RGBA

	// ModuleSize is the pixel width of the square QR raster.
	ModuleSize int

	// DistancePercent positions the pattern centers relative to the QR edge;
	// 50 is the neutral anchor, values above/below scale outward/inward.
	DistancePercent int

	// CellSizePercent sizes pattern dots as a percentage of ModuleSize.
	CellSizePercent int

	// PatternSizePercent sizes the half-disc radius as a percentage of
	// ModuleSize.
	PatternSizePercent int

	// Seed selects the pseudo-random cell arrangement without changing
	// geometry.
	Seed int64
}

// DefaultStyle returns the neutral style at the given QR width: black
// foreground, neutral distance, 8% cells, half-size pattern.
func DefaultStyle(moduleSize int) Style {
	return Style{
		Color:              color.RGBA{0, 0, 0, 255},
		ModuleSize:         moduleSize,
		DistancePercent:    50,
		CellSizePercent:    8,
		PatternSizePercent: 50,
		Seed:               DefaultSeed,
	}
}

// Validate reports the first out-of-range parameter.
func (s Style) Validate() error {
	if s.ModuleSize <= 0 {
		return fmt.Errorf("%w: moduleSize %d must be positive", ErrInvalidStyle, s.ModuleSize)
	}
	if s.DistancePercent < MinDistancePercent || s.DistancePercent > MaxDistancePercent {
		return fmt.Errorf("%w: distancePercent %d out of [%d, %d]", ErrInvalidStyle, s.DistancePercent, MinDistancePercent, MaxDistancePercent)
	}
	if s.CellSizePercent < MinCellSizePercent || s.CellSizePercent > MaxCellSizePercent {
		return fmt.Errorf("%w: cellSizePercent %d out of [%d, %d]", ErrInvalidStyle, s.CellSizePercent, MinCellSizePercent, MaxCellSizePercent)
	}
	if s.PatternSizePercent < MinPatternSizePercent || s.PatternSizePercent > MaxPatternSizePercent {
		return fmt.Errorf("%w: patternSizePercent %d out of [%d, %d]", ErrInvalidStyle, s.PatternSizePercent, MinPatternSizePercent, MaxPatternSizePercent)
	}
	return nil
}

// Radius is the half-disc radius in pixels.
func (s Style) Radius() int {
	return s.ModuleSize * s.PatternSizePercent / 100
}

// ScaledDistance is the signed offset of the pattern centers from the QR
// edge; zero at the neutral 50%.
func (s Style) ScaledDistance() int {
	return (s.DistancePercent - 50) * s.ModuleSize / 100
}

// ScaledCellSize is the pattern dot side in pixels, clamped to MinCellPx.
func (s Style) ScaledCellSize() int {
	c := s.ModuleSize * s.CellSizePercent / 100
	if c < MinCellPx {
		c = MinCellPx
	}
	return c
}

// ParseHexColor parses a strict 6-hex-digit RGB value, with or without a
// leading '#'. Anything else is an error so callers can keep their previous
// valid color.
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: color %q is not a 6-digit hex value", ErrInvalidStyle, s)
	}
	r, err1 := strconv.ParseUint(s[0:2], 16, 8)
	g, err2 := strconv.ParseUint(s[2:4], 16, 8)
	b, err3 := strconv.ParseUint(s[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return color.RGBA{}, fmt.Errorf("%w: color %q is not a 6-digit hex value", ErrInvalidStyle, s)
	}
	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}, nil
}
