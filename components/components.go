// Package components defines ECS components for simulation entities.
package components

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// Motion is straight-line travel: a fixed heading and scalar speed.
type Motion struct {
	Dir   float64 // radians
	Speed float64 // world units per second
}
