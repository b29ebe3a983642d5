package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hopper/components"
	"github.com/pthm-cable/hopper/geom"
)

// Projectile is a read-only view of one projectile in flight.
type Projectile struct {
	Pos   geom.Point
	Dir   float64
	Speed float64
}

// ProjectileSystem stores projectiles as ECS entities and moves them in
// straight lines. Structural changes (spawn, removal) never happen while a
// query is open.
type ProjectileSystem struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Motion]
	filter *ecs.Filter2[components.Position, components.Motion]
	count  int

	// Reused between ticks by Cull
	doomed []ecs.Entity
}

// NewProjectileSystem creates an empty projectile system.
func NewProjectileSystem() *ProjectileSystem {
	p := &ProjectileSystem{}
	p.Reset()
	return p
}

// Reset drops every projectile.
func (p *ProjectileSystem) Reset() {
	world := ecs.NewWorld()
	p.world = world
	p.mapper = ecs.NewMap2[components.Position, components.Motion](world)
	p.filter = ecs.NewFilter2[components.Position, components.Motion](world)
	p.count = 0
	p.doomed = p.doomed[:0]
}

// Fire spawns a projectile at from, heading toward target.
func (p *ProjectileSystem) Fire(from, target geom.Point, speed float64) Projectile {
	pos := components.Position{X: from.X, Y: from.Y}
	motion := components.Motion{Dir: geom.DirectionFromTo(from, target), Speed: speed}
	p.mapper.NewEntity(&pos, &motion)
	p.count++
	return Projectile{Pos: from, Dir: motion.Dir, Speed: speed}
}

// Advance moves every projectile speed*dt along its heading.
func (p *ProjectileSystem) Advance(dt float64) {
	query := p.filter.Query()
	for query.Next() {
		pos, motion := query.Get()
		step := motion.Speed * dt
		pos.X += step * math.Cos(motion.Dir)
		pos.Y += step * math.Sin(motion.Dir)
	}
}

// Cull removes projectiles farther than threshold from the ship on either
// axis and returns how many were removed. Candidates are collected during
// the query and removed once it has finished.
func (p *ProjectileSystem) Cull(ship geom.Point, threshold float64) int {
	p.doomed = p.doomed[:0]
	query := p.filter.Query()
	for query.Next() {
		pos, _ := query.Get()
		if math.Abs(pos.X-ship.X) > threshold || math.Abs(pos.Y-ship.Y) > threshold {
			p.doomed = append(p.doomed, query.Entity())
		}
	}

	for _, e := range p.doomed {
		p.world.RemoveEntity(e)
	}
	p.count -= len(p.doomed)
	return len(p.doomed)
}

// Hits reports whether any projectile of the given radius touches c.
func (p *ProjectileSystem) Hits(c geom.Circle, radius float64) bool {
	hit := false
	query := p.filter.Query()
	for query.Next() {
		if hit {
			// Drain the query; ark releases the world lock when Next returns false.
			continue
		}
		pos, _ := query.Get()
		shot := geom.Circle{Center: geom.Pt(pos.X, pos.Y), Radius: radius}
		if geom.CirclesContact(c, shot, 0) {
			hit = true
		}
	}
	return hit
}

// Snapshot returns a copy of every projectile in flight.
func (p *ProjectileSystem) Snapshot() []Projectile {
	out := make([]Projectile, 0, p.count)
	query := p.filter.Query()
	for query.Next() {
		pos, motion := query.Get()
		out = append(out, Projectile{Pos: geom.Pt(pos.X, pos.Y), Dir: motion.Dir, Speed: motion.Speed})
	}
	return out
}

// Count returns the number of projectiles in flight.
func (p *ProjectileSystem) Count() int {
	return p.count
}
