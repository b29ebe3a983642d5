package game

import (
	"github.com/pthm-cable/hopper/camera"
	"github.com/pthm-cable/hopper/geom"
	"github.com/pthm-cable/hopper/space"
	"github.com/pthm-cable/hopper/systems"
)

// ShipPosition returns the ship's derived world position.
func (g *Game) ShipPosition() geom.Point {
	return g.ship.Position(g.world)
}

// Rotation returns the ship's angle around its attached planet.
func (g *Game) Rotation() float64 {
	return g.ship.Rotation
}

// Height returns the ship's distance from its attached planet's center.
func (g *Game) Height() float64 {
	return g.ship.Height
}

// Attached returns the handle of the planet the ship is attached to.
func (g *Game) Attached() space.PlanetIndex {
	return g.ship.Attached
}

// AttachedPlanet resolves the attached planet.
func (g *Game) AttachedPlanet() space.Planet {
	return g.world.Planet(g.ship.Attached)
}

// Ship returns a copy of the ship state.
func (g *Game) Ship() Ship {
	return g.ship
}

// ClosestPosition returns the center of the closest planet found by the last
// collision pass.
func (g *Game) ClosestPosition() geom.Point {
	return g.ship.ClosestPos
}

// Planets returns the planets around the focus.
func (g *Game) Planets() []space.PlanetRef {
	return g.world.NearbyPlanets()
}

// Enemies returns the enemies around the focus.
func (g *Game) Enemies() []space.EnemyRef {
	return g.world.NearbyEnemies()
}

// Projectiles returns the projectiles in flight.
func (g *Game) Projectiles() []systems.Projectile {
	return g.shots.Snapshot()
}

// Goal returns the current world's goal.
func (g *Game) Goal() space.Goal {
	return g.world.Goal()
}

// World exposes the current world for read-only inspection.
func (g *Game) World() *space.Space {
	return g.world
}

// Score returns the running score: +1 per win, -1 per loss.
func (g *Game) Score() int {
	return g.score
}

// Tick returns the number of ticks simulated so far.
func (g *Game) Tick() int64 {
	return g.tick
}

// Debug reports whether the debug overlay is toggled on.
func (g *Game) Debug() bool {
	return g.debug
}

// Seed returns the session seed.
func (g *Game) Seed() int64 {
	return g.seed
}

// Round returns the 1-based number of the round in progress.
func (g *Game) Round() int {
	return g.collector.Round()
}

// GoalBearing returns the direction to the goal relative to the ship's
// rotation, in (-pi, pi]. Zero means the goal is straight "up" from the
// ship's planet.
func (g *Game) GoalBearing() float64 {
	toGoal := geom.DirectionFromTo(g.ShipPosition(), g.world.Goal().Pos)
	return geom.NormalizeAngle(toGoal - g.ship.Rotation)
}

// MinimapPoint projects p onto a w x h minimap spanning every generated
// planet and the goal.
func (g *Game) MinimapPoint(p geom.Point, w, h float64) (x, y int) {
	min, max := g.world.Bounds()
	return geom.ShrinkToBounds(w, h, min, max, p)
}

// Camera returns the viewport following the ship.
func (g *Game) Camera() *camera.Camera {
	return g.cam
}

// CursorTarget converts a screen-space cursor into a world-space fire target.
func (g *Game) CursorTarget(sx, sy float64) *geom.Point {
	p := g.cam.ScreenToWorld(sx, sy)
	return &p
}

// VisibleEnemies returns the enemies inside the camera view.
func (g *Game) VisibleEnemies() []space.EnemyRef {
	radius := g.world.EnemyRadius()
	var out []space.EnemyRef
	for _, e := range g.world.NearbyEnemies() {
		if g.cam.IsVisible(geom.Circle{Center: e.Pos, Radius: radius}) {
			out = append(out, e)
		}
	}
	return out
}
