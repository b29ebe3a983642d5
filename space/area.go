package space

import (
	"fmt"
	"math"

	"github.com/pthm-cable/hopper/geom"
)

// Area identifies one square generation chunk of the plane.
type Area struct {
	X, Y int32
}

// AreaOf returns the area containing p for areas of the given side length.
// Each axis is floored independently so negative coordinates land in
// negative areas.
func AreaOf(p geom.Point, side float64) Area {
	return Area{
		X: int32(math.Floor(p.X / side)),
		Y: int32(math.Floor(p.Y / side)),
	}
}

// Origin returns the world position of the area's minimum corner.
func (a Area) Origin(side float64) geom.Point {
	return geom.Pt(float64(a.X)*side, float64(a.Y)*side)
}

// Neighborhood returns the 3x3 block of areas centered on a, ordered by X then Y.
func (a Area) Neighborhood() [9]Area {
	var out [9]Area
	i := 0
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			out[i] = Area{X: a.X + dx, Y: a.Y + dy}
			i++
		}
	}
	return out
}

// Chebyshev returns the chessboard distance between two areas.
func (a Area) Chebyshev(b Area) int {
	dx := int(a.X) - int(b.X)
	if dx < 0 {
		dx = -dx
	}
	dy := int(a.Y) - int(b.Y)
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

// less orders areas by X then Y.
func (a Area) less(b Area) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func (a Area) String() string {
	return fmt.Sprintf("(%d,%d)", a.X, a.Y)
}
