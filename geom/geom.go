// Package geom provides the small amount of 2D math shared by the simulation:
// points, bearings, derived orbital positions and circle contact tests.
package geom

import (
	"fmt"
	"math"
)

// Point is a position (or offset) in world coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Len returns the length of p treated as a vector.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return p.Sub(q).Len()
}

func (p Point) String() string {
	return fmt.Sprintf("%.0f,%.0f", p.X, p.Y)
}

// DirectionFromTo returns the bearing in radians from one point to another.
func DirectionFromTo(from, to Point) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// RotatedPosition returns origin + height*(cos rotation, sin rotation).
// Ship and enemy positions are always derived through this.
func RotatedPosition(origin Point, rotation, height float64) Point {
	return Point{
		X: origin.X + math.Cos(rotation)*height,
		Y: origin.Y + math.Sin(rotation)*height,
	}
}

// NormalizeAngle wraps an angle into (-Pi, Pi].
func NormalizeAngle(a float64) float64 {
	a = math.Remainder(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Lerp linearly interpolates from a to b.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
