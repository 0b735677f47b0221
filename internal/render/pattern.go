package render

import "math"

// Side selects which half of the pattern disc is populated.
type Side int

const (
	// SideRight keeps cells with a non-negative x offset from the center.
	SideRight Side = iota
	// SideBottom keeps cells with a non-negative y offset from the center.
	SideBottom
)

// Cell is the center of one kept pattern dot, in absolute pixel coordinates.
type Cell struct {
	X, Y int
}

// Fractional-sine hash constants. The exact values are not load-bearing; what
// matters is that the same coordinate and seed always hash the same, and that
// roughly 55% of candidates survive the threshold.
const (
	hashKX        = 12.9898
	hashKY        = 78.233
	hashKSeed     = 37.719
	hashScale     = 43758.5453
	keepThreshold = 0.45
)

// keep decides whether the candidate at an absolute coordinate survives. Pure
// function of (x, y, seed).
func keep(x, y int, seed int64) bool {
	v := math.Sin(float64(x)*hashKX+float64(y)*hashKY+float64(seed)*hashKSeed) * hashScale
	return v-math.Floor(v) > keepThreshold
}

// Pattern enumerates a square candidate grid at step cellSize over
// [-radius, +radius] around (centerX, centerY) and returns the kept cells of
// the selected half-disc. A candidate is in-region when its distance from the
// center is at most radius - cellSize/2 and it lies on the selected half.
// Degenerate radii produce an empty set.
func Pattern(centerX, centerY, radius, cellSize int, side Side, seed int64) []Cell {
	if radius <= 0 || cellSize <= 0 {
		return nil
	}

	limit := float64(radius) - float64(cellSize)/2
	var cells []Cell
	for dy := -radius; dy <= radius; dy += cellSize {
		for dx := -radius; dx <= radius; dx += cellSize {
			if side == SideRight && dx < 0 {
				continue
			}
			if side == SideBottom && dy < 0 {
				continue
			}
			if math.Hypot(float64(dx), float64(dy)) > limit {
				continue
			}
			x, y := centerX+dx, centerY+dy
			if keep(x, y, seed) {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	}
	return cells
}
