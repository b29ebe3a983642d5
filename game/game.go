// Package game runs a play session: one ship hopping between the planets of
// a lazily generated world, with resets on win and loss.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/hopper/camera"
	"github.com/pthm-cable/hopper/config"
	"github.com/pthm-cable/hopper/geom"
	"github.com/pthm-cable/hopper/space"
	"github.com/pthm-cable/hopper/systems"
	"github.com/pthm-cable/hopper/telemetry"
)

// Outcome reports how a tick ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return telemetry.OutcomeWon
	case OutcomeLost:
		return telemetry.OutcomeLost
	}
	return "none"
}

// Options configures a session.
type Options struct {
	Seed      int64 // Session seed (0 = config seed, then time-based)
	LogStats  bool
	OutputDir string

	// NewGenerator builds the generator for each world. Defaults to a
	// ProceduralGenerator configured from the session config.
	NewGenerator func(seed int64) space.Generator
}

// Game holds the complete session state.
type Game struct {
	cfg  *config.Config
	opts Options
	rng  *rand.Rand
	seed int64
	log  *slog.Logger

	// Shared by every world of the session so enemy ids are never reused
	ids *space.IDGen

	world *space.Space
	ship  Ship
	shots *systems.ProjectileSystem
	cam   *camera.Camera

	score int
	tick  int64
	debug bool

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	rounds    []telemetry.RoundStats
}

// NewGame creates a session and its first world.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.World.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	if opts.NewGenerator == nil {
		opts.NewGenerator = func(s int64) space.Generator {
			return space.NewProceduralGenerator(cfg.Generator, cfg.World.AreaSize, s)
		}
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g := &Game{
		cfg:       cfg,
		opts:      opts,
		rng:       rand.New(rand.NewSource(seed)),
		seed:      seed,
		log:       slog.With("component", "game"),
		ids:       space.NewIDGen(),
		shots:     systems.NewProjectileSystem(),
		cam:       camera.New(cfg.Camera),
		collector: telemetry.NewCollector(cfg.Physics.DT),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:    output,
	}
	g.newWorld()

	return g, nil
}

// newWorld discards the current world, ship and projectiles and builds
// fresh ones from the next world seed.
func (g *Game) newWorld() {
	worldSeed := g.rng.Int63()
	g.world = space.New(g.cfg, g.opts.NewGenerator(worldSeed), g.ids)
	g.ship = newShip(g.world, g.cfg.Derived.ShipHalfWidth)
	g.shots.Reset()
	g.cam.Reset(g.world.Planet(g.ship.Attached).Pos)
	g.log.Debug("new world", "round", g.collector.Round(), "world_seed", worldSeed, "goal", g.world.Goal().Pos)
}

// Update advances the session by one tick of dt seconds. A win or loss
// resets the world before Update returns.
func (g *Game) Update(dt float64, in InputIntents) Outcome {
	g.tick++
	g.perf.StartTick()
	defer g.endTick()

	if in.ToggleDebug {
		g.debug = !g.debug
	}

	halfWidth := g.cfg.Derived.ShipHalfWidth

	g.perf.StartPhase(telemetry.PhaseMovement)
	pos := g.ship.Position(g.world)
	if g.ship.fire(in, dt, g.cfg.Weapons) {
		g.shots.Fire(pos, *in.FireTarget, g.cfg.Weapons.BulletSpeed)
		g.collector.RecordShot()
	}
	g.ship.steer(in, dt, g.cfg.Ship)

	g.perf.StartPhase(telemetry.PhaseCollision)
	pos = g.ship.Position(g.world)
	res := systems.ResolveCollisions(g.world, geom.Circle{Center: pos, Radius: halfWidth})
	if res.Won {
		g.Won()
		return OutcomeWon
	}
	if res.Landed {
		g.ship.land(res.Landing, res.LandingPlanet, pos, halfWidth, g.cfg.Ship.JumpSpeed)
		g.collector.RecordLanding(res.LandingPlanet.Bouncy)
	}
	if res.HasClosest {
		g.ship.Closest = res.Closest
		g.ship.ClosestPos = res.ClosestPlanet.Pos
		g.ship.ClosestDistance = res.ClosestDistance
		// Attach measures from where the collision pass saw the ship, even
		// if a landing just snapped it to a surface.
		if in.Attach && res.Closest != g.ship.Attached {
			g.ship.attach(res.Closest, res.ClosestPlanet, pos, halfWidth)
			g.collector.RecordAttach()
		}
	}
	g.ship.Rotation = geom.NormalizeAngle(g.ship.Rotation)
	g.world.Anchor(g.ship.Attached)
	pos = g.ship.Position(g.world)
	shipCircle := geom.Circle{Center: pos, Radius: halfWidth}

	g.perf.StartPhase(telemetry.PhaseProjectiles)
	g.shots.Advance(dt)
	g.collector.RecordCulled(g.shots.Cull(pos, g.cfg.Weapons.CullDistance))

	g.perf.StartPhase(telemetry.PhasePatrol)
	patrol := systems.Patrol(g.world, dt, g.cfg.Enemy.Speed, shipCircle, g.shots, g.cfg.Weapons.BulletSize)
	g.collector.RecordKills(len(patrol.Killed))
	if patrol.ShipHit {
		g.Lost()
		return OutcomeLost
	}

	g.perf.StartPhase(telemetry.PhaseFocus)
	g.world.SetFocus(pos)
	g.cam.Follow(pos, g.world.Planet(g.ship.Attached).Pos, !g.ship.Airborne())
	g.collector.SetAreas(g.world.Generated(), g.world.Evicted())

	return OutcomeNone
}

// Won settles the round as a win: score +1 and a fresh world.
func (g *Game) Won() {
	g.score++
	g.endRound(telemetry.OutcomeWon)
}

// Lost settles the round as a loss: score -1 and a fresh world.
func (g *Game) Lost() {
	g.score--
	g.endRound(telemetry.OutcomeLost)
}

func (g *Game) endRound(outcome string) {
	g.collector.SetAreas(g.world.Generated(), g.world.Evicted())
	g.recordRound(g.collector.EndRound(outcome, g.tick, g.score))
	g.newWorld()
}

// Close settles telemetry for an unfinished round and closes output files.
func (g *Game) Close() error {
	if g.tick > g.lastRoundEnd() {
		g.collector.SetAreas(g.world.Generated(), g.world.Evicted())
		g.recordRound(g.collector.EndRound(telemetry.OutcomeUnfinished, g.tick, g.score))
	}
	return g.output.Close()
}

// lastRoundEnd returns the tick at which the last settled round ended.
func (g *Game) lastRoundEnd() int64 {
	if len(g.rounds) == 0 {
		return 0
	}
	return g.rounds[len(g.rounds)-1].EndTick
}
