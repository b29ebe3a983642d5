package space

import (
	"encoding/binary"
	"math"
	"math/rand"

	"github.com/cespare/xxhash/v2"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/hopper/config"
	"github.com/pthm-cable/hopper/geom"
)

// Planet is an immutable circular gravity body.
type Planet struct {
	Pos    geom.Point
	Radius float64
	Bouncy bool // Landing relaunches the ship instead of grounding it
}

// Circle returns the planet's collider.
func (p Planet) Circle() geom.Circle {
	return geom.Circle{Center: p.Pos, Radius: p.Radius}
}

// Goal is the single win-condition body of a world.
type Goal struct {
	Pos    geom.Point
	Radius float64
}

// Circle returns the goal's collider.
func (g Goal) Circle() geom.Circle {
	return geom.Circle{Center: g.Pos, Radius: g.Radius}
}

// EnemySeed describes a patrol enemy before the world assigns it an id.
type EnemySeed struct {
	Host      int     // Index into Chunk.Planets
	Phase     float64 // Initial angle around the host
	Clockwise bool    // Phase increases when true
}

// Chunk is the generated content of one area.
type Chunk struct {
	Planets []Planet
	Enemies []EnemySeed
}

// Generator produces area content. Implementations must be deterministic per
// area if the world is allowed to evict and re-materialize areas.
type Generator interface {
	Generate(area Area) Chunk
	Goal() Goal
}

// ProceduralGenerator places planets and enemies from a seed. Every area gets
// its own RNG derived from (seed, area), so an area always generates the same
// content no matter when or how often it is requested.
type ProceduralGenerator struct {
	cfg      config.GeneratorConfig
	areaSize float64
	seed     int64
	density  opensimplex.Noise
}

// NewProceduralGenerator creates a generator for areas of the given side length.
func NewProceduralGenerator(cfg config.GeneratorConfig, areaSize float64, seed int64) *ProceduralGenerator {
	return &ProceduralGenerator{
		cfg:      cfg,
		areaSize: areaSize,
		seed:     seed,
		density:  opensimplex.New(seed),
	}
}

// Seed returns the generator seed.
func (g *ProceduralGenerator) Seed() int64 {
	return g.seed
}

// goalTag separates the goal placement stream from every area stream.
const goalTag = 0x676f616c

// areaRNG returns the RNG for one area.
func (g *ProceduralGenerator) areaRNG(area Area) *rand.Rand {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(g.seed))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(area.X))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(area.Y))
	return rand.New(rand.NewSource(int64(xxhash.Sum64(buf[:]))))
}

// Generate creates the planets and enemy seeds of an area. Planet positions
// are offset by the area origin so every planet center lies inside its area.
func (g *ProceduralGenerator) Generate(area Area) Chunk {
	rng := g.areaRNG(area)
	origin := area.Origin(g.areaSize)

	n := g.planetCount(area, rng)
	chunk := Chunk{Planets: make([]Planet, 0, n)}
	for i := 0; i < n; i++ {
		chunk.Planets = append(chunk.Planets, Planet{
			Pos: geom.Pt(
				origin.X+rng.Float64()*g.areaSize,
				origin.Y+rng.Float64()*g.areaSize,
			),
			Radius: g.cfg.MinRadius + rng.Float64()*(g.cfg.MaxRadius-g.cfg.MinRadius),
			Bouncy: rng.Float64() < g.cfg.BouncyChance,
		})
	}

	for i := range chunk.Planets {
		if rng.Float64() >= g.cfg.EnemyChance {
			continue
		}
		chunk.Enemies = append(chunk.Enemies, EnemySeed{
			Host:      i,
			Phase:     rng.Float64()*2*math.Pi - math.Pi,
			Clockwise: rng.Intn(2) == 1,
		})
	}

	return chunk
}

// planetCount draws the number of planets for an area. A uniform draw is
// blended with a coherent noise sample so neighbouring areas form clusters.
func (g *ProceduralGenerator) planetCount(area Area, rng *rand.Rand) int {
	span := g.cfg.MaxPlanets - g.cfg.MinPlanets
	t := rng.Float64()
	if w := g.cfg.DensityNoiseWeight; w > 0 {
		s := g.cfg.DensityNoiseScale
		noise := (g.density.Eval2(float64(area.X)*s, float64(area.Y)*s) + 1) / 2
		t = geom.Lerp(t, geom.Clamp(noise, 0, 1), w)
	}
	// span+1 buckets of equal width; t == 1 is folded into the top one.
	n := g.cfg.MinPlanets + int(t*float64(span+1))
	if n > g.cfg.MaxPlanets {
		n = g.cfg.MaxPlanets
	}
	return n
}

// Goal places the goal body at a seeded bearing and distance from the origin.
func (g *ProceduralGenerator) Goal() Goal {
	var buf [12]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(g.seed))
	binary.LittleEndian.PutUint32(buf[8:12], goalTag)
	rng := rand.New(rand.NewSource(int64(xxhash.Sum64(buf[:]))))

	bearing := rng.Float64() * 2 * math.Pi
	dist := g.cfg.GoalMinDistance + rng.Float64()*(g.cfg.GoalMaxDistance-g.cfg.GoalMinDistance)
	return Goal{
		Pos:    geom.RotatedPosition(geom.Pt(0, 0), bearing, dist),
		Radius: g.cfg.GoalRadius,
	}
}
