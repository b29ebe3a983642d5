package geom

import (
	"math"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"pi stays", math.Pi, math.Pi},
		{"minus pi flips", -math.Pi, math.Pi},
		{"minus five", -5, -5 + 2*math.Pi},
		{"seven", 7, 7 - 2*math.Pi},
		{"many turns", 20*math.Pi + 0.5, 0.5},
		{"many negative turns", -21*math.Pi - 0.25, math.Pi - 0.25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeAngle(tc.in)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("NormalizeAngle(%f) = %f, want %f", tc.in, got, tc.want)
			}
			if got <= -math.Pi || got > math.Pi {
				t.Errorf("NormalizeAngle(%f) = %f outside (-pi, pi]", tc.in, got)
			}
		})
	}
}

func TestRotatedPosition(t *testing.T) {
	p := RotatedPosition(Pt(0, 0), 0, 75)
	if math.Abs(p.X-75) > 1e-9 || math.Abs(p.Y) > 1e-9 {
		t.Errorf("expected (75, 0), got %v", p)
	}

	p = RotatedPosition(Pt(10, 10), math.Pi/2, 5)
	if math.Abs(p.X-10) > 1e-9 || math.Abs(p.Y-15) > 1e-9 {
		t.Errorf("expected (10, 15), got %v", p)
	}
}

func TestDirectionFromTo(t *testing.T) {
	if got := DirectionFromTo(Pt(0, 0), Pt(0, 10)); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("expected pi/2, got %f", got)
	}
	if got := DirectionFromTo(Pt(5, 5), Pt(0, 5)); math.Abs(got-math.Pi) > 1e-9 {
		t.Errorf("expected pi, got %f", got)
	}
}

func TestCirclesContact(t *testing.T) {
	a := Circle{Center: Pt(0, 0), Radius: 50}

	tests := []struct {
		name   string
		b      Circle
		margin float64
		want   bool
	}{
		{"separated", Circle{Pt(100, 0), 25}, 0, false},
		{"touching counts at zero margin", Circle{Pt(75, 0), 25}, 0, true},
		{"touching is not a landing", Circle{Pt(75, 0), 25}, -1, false},
		{"half unit overlap is not a landing", Circle{Pt(74.5, 0), 25}, -1, false},
		{"deep overlap lands", Circle{Pt(60, 0), 25}, -1, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CirclesContact(a, tc.b, tc.margin); got != tc.want {
				t.Errorf("CirclesContact = %v, want %v (distance %f)", got, tc.want, CircleDistance(a, tc.b))
			}
		})
	}
}

func TestShrinkToBounds(t *testing.T) {
	min, max := Pt(-100, -100), Pt(100, 100)

	x, y := ShrinkToBounds(200, 200, min, max, Pt(0, 0))
	if x != 100 || y != 100 {
		t.Errorf("expected center (100, 100), got (%d, %d)", x, y)
	}

	x, y = ShrinkToBounds(200, 200, min, max, Pt(100, 100))
	if x != 199 || y != 199 {
		t.Errorf("expected clamp to (199, 199), got (%d, %d)", x, y)
	}

	// Degenerate bounds must not produce NaN-derived garbage.
	x, y = ShrinkToBounds(200, 200, Pt(5, 5), Pt(5, 5), Pt(5, 5))
	if x != 0 || y != 0 {
		t.Errorf("expected (0, 0) for zero-area bounds, got (%d, %d)", x, y)
	}
}
