package geom

import "math"

// Circle is a ball collider.
type Circle struct {
	Center Point
	Radius float64
}

// CircleDistance returns the surface-to-surface distance between two circles.
// Negative values are the penetration depth of overlapping circles.
func CircleDistance(a, b Circle) float64 {
	return a.Center.Dist(b.Center) - a.Radius - b.Radius
}

// CirclesContact reports whether two circles are within margin of each other.
// A margin of 0 counts touching circles; a negative margin requires overlap of
// at least -margin.
func CirclesContact(a, b Circle, margin float64) bool {
	return CircleDistance(a, b) <= margin
}

// ShrinkToBounds projects p from the [min, max] world rectangle onto a
// miniW x miniH pixel grid. A degenerate (zero or negative) extent maps that
// axis to 0 instead of producing NaN; results are clamped into the grid.
func ShrinkToBounds(miniW, miniH float64, min, max, p Point) (x, y int) {
	return shrinkAxis(miniW, min.X, max.X, p.X), shrinkAxis(miniH, min.Y, max.Y, p.Y)
}

func shrinkAxis(size, lo, hi, v float64) int {
	extent := hi - lo
	if extent <= 0 || size <= 0 {
		return 0
	}
	pixel := math.Floor((v - lo) / extent * size)
	return int(Clamp(pixel, 0, size-1))
}
