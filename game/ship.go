package game

import (
	"math"

	"github.com/pthm-cable/hopper/config"
	"github.com/pthm-cable/hopper/geom"
	"github.com/pthm-cable/hopper/space"
)

// Ship is the player's orbital state. Its position is never stored; it is
// derived from the attached planet, the rotation and the height.
type Ship struct {
	Attached space.PlanetIndex
	Rotation float64 // Angle around the attached planet, in (-pi, pi]
	Height   float64 // Distance from the attached planet's center

	ExitSpeed float64 // Radial speed while flying or jumping
	Flying    bool
	Jumping   bool

	FireCooldown float64

	// Closest planet from the last collision pass
	Closest         space.PlanetIndex
	ClosestPos      geom.Point
	ClosestDistance float64
}

// newShip places a ship on the surface of the world's first planet.
func newShip(w *space.Space, halfWidth float64) Ship {
	h := w.FirstPlanet()
	p := w.Planet(h)
	w.Anchor(h)
	return Ship{
		Attached:        h,
		Height:          p.Radius + halfWidth,
		Closest:         h,
		ClosestPos:      p.Pos,
		ClosestDistance: 0,
	}
}

// Position derives the ship's world position.
func (s *Ship) Position(w *space.Space) geom.Point {
	return geom.RotatedPosition(w.Planet(s.Attached).Pos, s.Rotation, s.Height)
}

// Airborne reports whether either airborne mode is active.
func (s *Ship) Airborne() bool {
	return s.Flying || s.Jumping
}

// fire runs the weapon cooldown and reports whether a projectile should be
// spawned this tick.
func (s *Ship) fire(in InputIntents, dt float64, cfg config.WeaponsConfig) bool {
	if in.FireTarget != nil && s.FireCooldown <= 0 {
		s.FireCooldown = cfg.FireCooldown
		return true
	}
	if s.FireCooldown > 0 {
		s.FireCooldown -= dt
	}
	return false
}

// steer applies vertical then lateral control for one tick. A mode entered
// this tick only sets its exit speed; height starts changing on the next one.
// Flying and jumping can each be entered while the other is active.
func (s *Ship) steer(in InputIntents, dt float64, cfg config.ShipConfig) {
	// Flying: no gravity, thrust changes the climb rate.
	if !s.Flying {
		if in.ThrustUp {
			s.Flying = true
			s.ExitSpeed = cfg.FlySpeed
		}
	} else {
		s.Height += s.ExitSpeed
		if in.ThrustDown {
			s.ExitSpeed -= cfg.Acceleration * dt
		}
		if in.ThrustUp {
			s.ExitSpeed += cfg.Acceleration * dt
		}
	}

	// Jumping: gravity pulls the climb rate down; letting go cuts the jump short.
	if !s.Jumping {
		if in.JumpHeld {
			s.Jumping = true
			s.ExitSpeed = cfg.JumpSpeed
		}
	} else {
		s.ExitSpeed -= cfg.Gravity * dt
		s.Height += s.ExitSpeed
		if !in.JumpHeld {
			s.ExitSpeed = math.Min(s.ExitSpeed, cfg.JumpSpeed/2)
		}
	}

	turn := cfg.Speed * dt
	if s.Airborne() {
		turn *= cfg.AirControl
	}
	if in.Left {
		s.Rotation -= turn
	}
	if in.Right {
		s.Rotation += turn
	}

	s.Rotation = geom.NormalizeAngle(s.Rotation)
}

// land grounds the ship on p. Bouncy planets relaunch it straight into a jump.
func (s *Ship) land(h space.PlanetIndex, p space.Planet, pos geom.Point, halfWidth, bounceSpeed float64) {
	s.Attached = h
	s.Flying = false
	s.Jumping = false
	s.Height = p.Radius + halfWidth
	s.Rotation = geom.DirectionFromTo(p.Pos, pos)
	s.ExitSpeed = 0
	if p.Bouncy {
		s.Jumping = true
		s.ExitSpeed = bounceSpeed
	}
}

// attach re-anchors the ship to p without moving it. Airborne modes are kept.
func (s *Ship) attach(h space.PlanetIndex, p space.Planet, pos geom.Point, halfWidth float64) {
	surface := pos.Dist(p.Pos) - p.Radius - halfWidth
	s.Attached = h
	s.ExitSpeed = 0
	s.Rotation = geom.DirectionFromTo(p.Pos, pos)
	s.Height = surface + p.Radius + halfWidth
}
