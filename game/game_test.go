package game

import (
	"math"
	"testing"

	"github.com/pthm-cable/hopper/config"
	"github.com/pthm-cable/hopper/geom"
	"github.com/pthm-cable/hopper/space"
)

// layout is a hand-placed world: everything lives in the origin area.
type layout struct {
	planets []space.Planet
	enemies []space.EnemySeed
	goal    space.Goal
}

func (l layout) Generate(a space.Area) space.Chunk {
	if a != (space.Area{}) {
		return space.Chunk{}
	}
	return space.Chunk{Planets: l.planets, Enemies: l.enemies}
}

func (l layout) Goal() space.Goal {
	return l.goal
}

var farGoal = space.Goal{Pos: geom.Pt(1e6, 1e6), Radius: 200}

func newTestGame(t *testing.T, l layout) *Game {
	t.Helper()
	return newTestGameWithConfig(t, config.Default(), l)
}

func newTestGameWithConfig(t *testing.T, cfg *config.Config, l layout) *Game {
	t.Helper()
	if l.goal.Radius == 0 {
		l.goal = farGoal
	}
	g, err := NewGame(cfg, Options{
		Seed:         1,
		NewGenerator: func(int64) space.Generator { return l },
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSpawnOnFirstPlanet(t *testing.T) {
	g := newTestGame(t, layout{planets: []space.Planet{{Pos: geom.Pt(0, 0), Radius: 50}}})

	if g.Height() != 75 || g.Rotation() != 0 {
		t.Errorf("height/rotation = %v/%v, want 75/0", g.Height(), g.Rotation())
	}
	if pos := g.ShipPosition(); !approx(pos.X, 75) || !approx(pos.Y, 0) {
		t.Errorf("position = %v, want (75, 0)", pos)
	}
	if g.Attached() != g.World().FirstPlanet() {
		t.Error("ship should start on the first planet")
	}
}

func TestTurnLeftAndFireCooldown(t *testing.T) {
	g := newTestGame(t, layout{planets: []space.Planet{{Pos: geom.Pt(0, 0), Radius: 50}}})

	if out := g.Update(1.0, InputIntents{Left: true}); out != OutcomeNone {
		t.Fatalf("Update = %v", out)
	}

	// -5 rad wrapped into (-pi, pi].
	want := 2*math.Pi - 5
	if math.Abs(g.Rotation()-want) > 1e-3 {
		t.Errorf("rotation = %f, want ~%f", g.Rotation(), want)
	}
	if g.Height() != 75 {
		t.Errorf("height = %v, want 75", g.Height())
	}

	from := g.ShipPosition()
	target := geom.Pt(200, 0)
	g.Update(0.05, InputIntents{FireTarget: &target})

	shots := g.Projectiles()
	if len(shots) != 1 {
		t.Fatalf("got %d projectiles, want 1", len(shots))
	}
	if !approx(shots[0].Dir, geom.DirectionFromTo(from, target)) {
		t.Errorf("projectile heading %f, want %f", shots[0].Dir, geom.DirectionFromTo(from, target))
	}

	// Still inside the 0.1s cooldown.
	g.Update(0.05, InputIntents{FireTarget: &target})
	if n := len(g.Projectiles()); n != 1 {
		t.Errorf("got %d projectiles after second trigger, want 1", n)
	}
}

func TestLandingInvariant(t *testing.T) {
	tests := []struct {
		name        string
		bouncy      bool
		wantJumping bool
		wantExit    float64
	}{
		{"solid", false, false, 0},
		{"bouncy", true, true, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, layout{planets: []space.Planet{
				{Pos: geom.Pt(0, 0), Radius: 50},
				{Pos: geom.Pt(300, 0), Radius: 50, Bouncy: tc.bouncy},
			}})
			target := g.Planets()[1]

			// Flying outward from A into B.
			g.ship.Height = 224
			g.ship.Flying = true
			g.ship.ExitSpeed = 5

			g.Update(1.0/60, InputIntents{})

			s := g.Ship()
			if s.Attached != target.Index {
				t.Fatalf("attached to %v, want %v", s.Attached, target.Index)
			}
			if s.Height != 75 {
				t.Errorf("height = %v, want exactly 75", s.Height)
			}
			if s.Flying {
				t.Error("flying should be cleared on landing")
			}
			if s.Jumping != tc.wantJumping || s.ExitSpeed != tc.wantExit {
				t.Errorf("jumping/exit = %v/%v, want %v/%v", s.Jumping, s.ExitSpeed, tc.wantJumping, tc.wantExit)
			}
			if !approx(math.Abs(s.Rotation), math.Pi) {
				t.Errorf("rotation = %f, want pi (facing A)", s.Rotation)
			}
		})
	}
}

func TestAttachKeepsPosition(t *testing.T) {
	g := newTestGame(t, layout{planets: []space.Planet{
		{Pos: geom.Pt(0, 0), Radius: 50},
		{Pos: geom.Pt(300, 0), Radius: 50},
	}})
	b := g.Planets()[1]

	g.ship.Height = 160
	g.ship.Flying = true
	g.ship.ExitSpeed = 0

	before := g.ShipPosition()
	g.Update(1.0/60, InputIntents{Attach: true})

	s := g.Ship()
	if s.Attached != b.Index {
		t.Fatalf("attached to %v, want B", s.Attached)
	}
	if !approx(s.Height, 140) {
		t.Errorf("height = %v, want 140", s.Height)
	}
	if !s.Flying {
		t.Error("attach should not clear the airborne mode")
	}
	after := g.ShipPosition()
	if after.Dist(before) > 1e-9 {
		t.Errorf("ship moved from %v to %v on attach", before, after)
	}
	if g.ClosestPosition() != b.Planet.Pos {
		t.Errorf("closest = %v, want %v", g.ClosestPosition(), b.Planet.Pos)
	}
}

func TestAttachAfterLandingUsesContactPosition(t *testing.T) {
	// Ship ends up at (229, 0): B is the shallower overlap (lands), C the
	// deeper one (closest, attach target).
	g := newTestGame(t, layout{planets: []space.Planet{
		{Pos: geom.Pt(0, 0), Radius: 50},
		{Pos: geom.Pt(300, 0), Radius: 50},
		{Pos: geom.Pt(229, 70), Radius: 50},
	}})
	c := g.Planets()[2]

	g.ship.Height = 224
	g.ship.Flying = true
	g.ship.ExitSpeed = 5

	g.Update(1.0/60, InputIntents{Attach: true})

	s := g.Ship()
	if s.Attached != c.Index {
		t.Fatalf("attached to %v, want C", s.Attached)
	}
	if !approx(s.Height, 70) || !approx(s.Rotation, -math.Pi/2) {
		t.Errorf("height/rotation = %v/%v, want 70/-pi/2", s.Height, s.Rotation)
	}
	if pos := g.ShipPosition(); !approx(pos.X, 229) || !approx(pos.Y, 0) {
		t.Errorf("position = %v, want (229, 0)", pos)
	}
}

func TestJumpArc(t *testing.T) {
	g := newTestGame(t, layout{planets: []space.Planet{{Pos: geom.Pt(0, 0), Radius: 50}}})
	dt := 1.0 / 60

	g.Update(dt, InputIntents{JumpHeld: true})
	if !g.ship.Jumping {
		t.Fatal("jump not entered")
	}
	if g.Height() != 75 {
		t.Errorf("height = %v on the entry tick, want 75", g.Height())
	}
	g.Update(dt, InputIntents{JumpHeld: true})
	peak := g.Height()

	// Releasing caps the climb rate at half the jump speed.
	g.Update(dt, InputIntents{})
	if g.ship.ExitSpeed > 5 {
		t.Errorf("exit speed %v after release, want <= 5", g.ship.ExitSpeed)
	}

	// Gravity brings the ship back down.
	for i := 0; i < 600 && g.ship.Jumping; i++ {
		g.Update(dt, InputIntents{})
	}
	if g.ship.Jumping {
		t.Fatal("ship never landed")
	}
	if g.Height() != 75 || peak <= 75 {
		t.Errorf("height = %v (peak %v), want to return to 75", g.Height(), peak)
	}
}

func TestWonAndLost(t *testing.T) {
	g := newTestGame(t, layout{
		planets: []space.Planet{{Pos: geom.Pt(0, 0), Radius: 50}, {Pos: geom.Pt(800, 800), Radius: 50}},
		enemies: []space.EnemySeed{{Host: 1, Phase: 0}},
	})
	firstID := g.Enemies()[0].ID

	target := geom.Pt(1, 0)
	g.Update(1.0/60, InputIntents{Right: true, FireTarget: &target})

	g.Won()
	if g.Score() != 1 || g.Round() != 2 {
		t.Errorf("score/round = %d/%d, want 1/2", g.Score(), g.Round())
	}
	if g.Rotation() != 0 || g.Height() != 75 || len(g.Projectiles()) != 0 {
		t.Error("won should reset the ship and projectiles")
	}
	if id := g.Enemies()[0].ID; id <= firstID {
		t.Errorf("enemy id %d reused after reset (first world had %d)", id, firstID)
	}

	g.Lost()
	g.Lost()
	if g.Score() != -1 || g.Round() != 4 {
		t.Errorf("score/round = %d/%d, want -1/4", g.Score(), g.Round())
	}

	rounds := g.Rounds()
	if len(rounds) != 3 || rounds[0].Outcome != "won" || rounds[2].Outcome != "lost" {
		t.Errorf("rounds = %+v", rounds)
	}
	if rounds[0].Shots != 1 {
		t.Errorf("first round shots = %d, want 1", rounds[0].Shots)
	}
}

func TestGoalContactWins(t *testing.T) {
	g := newTestGame(t, layout{
		planets: []space.Planet{{Pos: geom.Pt(0, 0), Radius: 50}},
		goal:    space.Goal{Pos: geom.Pt(200, 0), Radius: 100},
	})

	if out := g.Update(1.0/60, InputIntents{}); out != OutcomeWon {
		t.Fatalf("Update = %v, want won", out)
	}
	if g.Score() != 1 {
		t.Errorf("score = %d, want 1", g.Score())
	}
}

func TestEnemyContactLoses(t *testing.T) {
	g := newTestGame(t, layout{
		planets: []space.Planet{{Pos: geom.Pt(0, 0), Radius: 50}},
		enemies: []space.EnemySeed{{Host: 0, Phase: 0.1}},
	})

	if out := g.Update(1.0/60, InputIntents{}); out != OutcomeLost {
		t.Fatalf("Update = %v, want lost", out)
	}
	if g.Score() != -1 {
		t.Errorf("score = %d, want -1", g.Score())
	}
}

func TestShootingKillsEnemy(t *testing.T) {
	cfg := config.Default()
	cfg.Enemy.Speed = 0
	g := newTestGameWithConfig(t, cfg, layout{
		planets: []space.Planet{{Pos: geom.Pt(0, 0), Radius: 50}, {Pos: geom.Pt(600, 0), Radius: 50}},
		enemies: []space.EnemySeed{{Host: 1, Phase: math.Pi}},
	})
	enemy := g.Enemies()[0]
	target := enemy.Pos

	for i := 0; i < 60 && len(g.Enemies()) > 0; i++ {
		g.Update(1.0/60, InputIntents{FireTarget: &target})
	}
	if len(g.Enemies()) != 0 {
		t.Fatal("enemy survived a minute of fire")
	}
	if _, ok := g.World().Enemy(enemy.ID); ok {
		t.Error("killed enemy still resolvable")
	}
}

func TestGoalBearingAndMinimap(t *testing.T) {
	g := newTestGame(t, layout{planets: []space.Planet{{Pos: geom.Pt(0, 0), Radius: 50}}})

	if b := g.GoalBearing(); math.Abs(b-math.Pi/4) > 1e-3 {
		t.Errorf("GoalBearing = %f, want ~pi/4", b)
	}

	x, y := g.MinimapPoint(geom.Pt(-50, -50), 200, 200)
	if x != 0 || y != 0 {
		t.Errorf("min corner = (%d, %d), want (0, 0)", x, y)
	}
	x, y = g.MinimapPoint(geom.Pt(1e6+200, 1e6+200), 200, 200)
	if x != 199 || y != 199 {
		t.Errorf("max corner = (%d, %d), want (199, 199)", x, y)
	}
}

func TestDebugToggle(t *testing.T) {
	g := newTestGame(t, layout{planets: []space.Planet{{Pos: geom.Pt(0, 0), Radius: 50}}})
	g.Update(1.0/60, InputIntents{ToggleDebug: true})
	if !g.Debug() {
		t.Error("debug should be on")
	}
	g.Update(1.0/60, InputIntents{ToggleDebug: true})
	if g.Debug() {
		t.Error("debug should be off")
	}
}

func TestAutopilotSmoke(t *testing.T) {
	cfg := config.Default()
	g, err := NewGame(cfg, Options{Seed: 7})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	defer g.Close()

	pilot := NewAutopilot(7)
	for i := 0; i < 3000; i++ {
		g.Update(cfg.Physics.DT, pilot.Next(g))

		if r := g.Rotation(); r <= -math.Pi || r > math.Pi {
			t.Fatalf("tick %d: rotation %f out of (-pi, pi]", g.Tick(), r)
		}
		g.AttachedPlanet()
	}

	if g.Tick() != 3000 {
		t.Errorf("Tick = %d, want 3000", g.Tick())
	}
}

func TestCameraFollowsShip(t *testing.T) {
	cfg := config.Default()
	cfg.Enemy.Speed = 0
	g := newTestGameWithConfig(t, cfg, layout{
		planets: []space.Planet{{Pos: geom.Pt(0, 0), Radius: 50}, {Pos: geom.Pt(2000, 0), Radius: 50}},
		enemies: []space.EnemySeed{{Host: 0, Phase: math.Pi}, {Host: 1, Phase: 0}},
	})

	if c := g.Camera().Center; c != geom.Pt(0, 0) {
		t.Fatalf("camera should start on the first planet, got %v", c)
	}
	g.Update(1.0/60, InputIntents{})
	if c := g.Camera().Center; !approx(c.X, 0) || !approx(c.Y, 0) {
		t.Errorf("grounded camera drifted to %v", c)
	}

	if n := len(g.Enemies()); n != 2 {
		t.Fatalf("nearby enemies = %d, want 2", n)
	}
	visible := g.VisibleEnemies()
	if len(visible) != 1 || visible[0].Pos.X > 0 {
		t.Errorf("visible enemies = %v, want only the one on the first planet", visible)
	}

	w, h := g.Camera().ViewSize()
	target := g.CursorTarget(w/2, h/2)
	if !approx(target.X, 0) || !approx(target.Y, 0) {
		t.Errorf("cursor at screen center maps to %v, want origin", target)
	}
}
