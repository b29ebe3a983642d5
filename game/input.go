package game

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/hopper/geom"
)

// InputIntents is the player's input for one tick.
type InputIntents struct {
	Left, Right bool
	ThrustUp    bool
	ThrustDown  bool
	JumpHeld    bool
	Attach      bool
	ToggleDebug bool

	// FireTarget is the world-space point to shoot at; nil holds fire.
	FireTarget *geom.Point
}

// Autopilot produces intents for headless runs. It steers toward the goal,
// hops between planets and shoots the nearest visible enemy in range.
type Autopilot struct {
	rng *rand.Rand

	// Current lateral choice and how many more ticks to hold it
	left, right bool
	hold        int

	jumpTicks int
	fireRange float64
}

// NewAutopilot creates an autopilot driven by its own seeded RNG.
func NewAutopilot(seed int64) *Autopilot {
	return &Autopilot{
		rng:       rand.New(rand.NewSource(seed)),
		fireRange: 600,
	}
}

// Next returns the intents for the next tick of g.
func (a *Autopilot) Next(g *Game) InputIntents {
	var in InputIntents

	if a.hold <= 0 {
		a.pickHeading(g)
	}
	a.hold--
	in.Left, in.Right = a.left, a.right

	// Hold jumps for a while so some of them reach the next planet.
	if a.jumpTicks > 0 {
		a.jumpTicks--
		in.JumpHeld = true
	} else if !g.ship.Airborne() && a.rng.Float64() < 0.02 {
		a.jumpTicks = 10 + a.rng.Intn(30)
		in.JumpHeld = true
	}

	if g.ship.Airborne() && a.rng.Float64() < 0.05 {
		in.Attach = true
	}

	if target, ok := a.nearestEnemy(g); ok {
		in.FireTarget = &target
	}

	return in
}

// pickHeading mostly turns toward the goal, sometimes wanders.
func (a *Autopilot) pickHeading(g *Game) {
	a.hold = 15 + a.rng.Intn(45)
	a.left, a.right = false, false

	bearing := g.GoalBearing()
	switch r := a.rng.Float64(); {
	case r < 0.6 && math.Abs(bearing) > 0.1:
		a.left = bearing < 0
		a.right = bearing > 0
	case r < 0.8:
		a.left = true
	case r < 0.95:
		a.right = true
	}
}

func (a *Autopilot) nearestEnemy(g *Game) (geom.Point, bool) {
	pos := g.ShipPosition()
	best := a.fireRange
	var target geom.Point
	found := false
	for _, e := range g.VisibleEnemies() {
		if d := pos.Dist(e.Pos); d < best {
			best = d
			target = e.Pos
			found = true
		}
	}
	return target, found
}
