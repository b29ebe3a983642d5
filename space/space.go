// Package space implements the infinite, lazily generated world: planets and
// patrol enemies stored per area, materialized around a single focus point.
package space

import (
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/pthm-cable/hopper/config"
	"github.com/pthm-cable/hopper/geom"
)

// PlanetIndex is an opaque handle to a planet. Handles are only minted by the
// Space that stores the planet and are rejected by every other instance.
type PlanetIndex struct {
	owner uint64
	area  Area
	idx   int
}

// Area returns the area holding the planet.
func (h PlanetIndex) Area() Area {
	return h.area
}

// IsZero reports whether the handle was never issued.
func (h PlanetIndex) IsZero() bool {
	return h.owner == 0
}

func (h PlanetIndex) String() string {
	return fmt.Sprintf("%v#%d", h.area, h.idx)
}

// less orders handles by area then local index.
func (h PlanetIndex) less(o PlanetIndex) bool {
	if h.area != o.area {
		return h.area.less(o.area)
	}
	return h.idx < o.idx
}

// PlanetRef pairs a handle with the planet it resolves to.
type PlanetRef struct {
	Index  PlanetIndex
	Planet Planet
}

// Enemy is a patrol enemy orbiting the surface of its host planet.
type Enemy struct {
	ID        EnemyID
	Host      PlanetIndex
	Phase     float64
	Clockwise bool
}

// EnemyRef is an enemy together with its derived world position.
type EnemyRef struct {
	Enemy
	Pos geom.Point
}

type areaState struct {
	planets   []Planet
	enemies   map[EnemyID]*Enemy
	lastTouch uint64
}

// worldSerial tags each Space so foreign handles can be detected.
var worldSerial atomic.Uint64

// Space owns every generated area and the goal. It is exclusively mutated
// through its own methods; other components hold only handles and ids.
type Space struct {
	serial   uint64
	areaSize float64
	enemyR   float64
	keep     config.RetentionConfig

	gen Generator
	ids *IDGen
	log *slog.Logger

	areas      map[Area]*areaState
	enemyArea  map[EnemyID]Area
	tombstones map[Area]map[int]struct{}

	focus     geom.Point
	focusArea Area
	touch     uint64

	anchor    Area
	hasAnchor bool

	goal      Goal
	generated int
	evicted   int
}

// New creates a world focused on the origin. The id generator is shared with
// any previous world of the same session so enemy ids are never reused.
func New(cfg *config.Config, gen Generator, ids *IDGen) *Space {
	if ids == nil {
		ids = NewIDGen()
	}
	s := &Space{
		serial:     worldSerial.Add(1),
		areaSize:   cfg.World.AreaSize,
		enemyR:     cfg.Enemy.Size,
		keep:       cfg.Retention,
		gen:        gen,
		ids:        ids,
		log:        slog.With("component", "space"),
		areas:      make(map[Area]*areaState),
		enemyArea:  make(map[EnemyID]Area),
		tombstones: make(map[Area]map[int]struct{}),
		goal:       gen.Goal(),
	}
	s.SetFocus(geom.Pt(0, 0))
	return s
}

// SetFocus moves the focus point and materializes the 3x3 block of areas
// around it. Areas that already exist are left untouched.
func (s *Space) SetFocus(p geom.Point) {
	s.focus = p
	s.focusArea = AreaOf(p, s.areaSize)
	s.touch++
	for _, a := range s.focusArea.Neighborhood() {
		st, ok := s.areas[a]
		if !ok {
			st = s.materialize(a)
		}
		st.lastTouch = s.touch
	}
	s.evict()
}

// Focus returns the current focus point.
func (s *Space) Focus() geom.Point {
	return s.focus
}

// FocusArea returns the area containing the focus point.
func (s *Space) FocusArea() Area {
	return s.focusArea
}

// materialize generates an area and registers its enemies.
func (s *Space) materialize(a Area) *areaState {
	chunk := s.gen.Generate(a)
	st := &areaState{
		planets: chunk.Planets,
		enemies: make(map[EnemyID]*Enemy, len(chunk.Enemies)),
	}
	dead := s.tombstones[a]
	for _, seed := range chunk.Enemies {
		if seed.Host < 0 || seed.Host >= len(chunk.Planets) {
			panic(fmt.Sprintf("space: generator produced enemy for planet %d of %d in area %v", seed.Host, len(chunk.Planets), a))
		}
		if _, killed := dead[seed.Host]; killed {
			continue
		}
		id := s.ids.Next()
		st.enemies[id] = &Enemy{
			ID:        id,
			Host:      PlanetIndex{owner: s.serial, area: a, idx: seed.Host},
			Phase:     seed.Phase,
			Clockwise: seed.Clockwise,
		}
		s.enemyArea[id] = a
	}
	s.areas[a] = st
	s.generated++
	s.log.Debug("generated area", "area", a.String(), "planets", len(st.planets), "enemies", len(st.enemies))
	return st
}

// live returns the state of a materialized area or panics. Querying an area
// that was never materialized is a sequencing bug in the caller.
func (s *Space) live(a Area) *areaState {
	st, ok := s.areas[a]
	if !ok {
		panic(fmt.Sprintf("space: uninitialized area %v when in area %v", a, s.focusArea))
	}
	return st
}

// NearbyPlanets returns every planet in the 3x3 areas around the focus,
// ordered by area (X then Y) and then local index.
func (s *Space) NearbyPlanets() []PlanetRef {
	var out []PlanetRef
	for _, a := range s.focusArea.Neighborhood() {
		st := s.live(a)
		for i, p := range st.planets {
			out = append(out, PlanetRef{
				Index:  PlanetIndex{owner: s.serial, area: a, idx: i},
				Planet: p,
			})
		}
	}
	return out
}

// Planet resolves a handle. It panics if the handle belongs to another world,
// its area is not materialized, or the index is out of range.
func (s *Space) Planet(h PlanetIndex) Planet {
	if h.owner != s.serial {
		panic(fmt.Sprintf("space: planet handle %v issued by world %d used with world %d", h, h.owner, s.serial))
	}
	st := s.live(h.area)
	if h.idx < 0 || h.idx >= len(st.planets) {
		panic(fmt.Sprintf("space: planet index %d out of range for area %v (%d planets)", h.idx, h.area, len(st.planets)))
	}
	return st.planets[h.idx]
}

// FirstPlanet returns the spawn planet: the first planet of the origin area.
func (s *Space) FirstPlanet() PlanetIndex {
	origin := Area{}
	st := s.live(origin)
	if len(st.planets) == 0 {
		panic("space: origin area has no planets")
	}
	return PlanetIndex{owner: s.serial, area: origin, idx: 0}
}

// Goal returns the world's goal body.
func (s *Space) Goal() Goal {
	return s.goal
}

// EnemyPosition derives an enemy's position from its host and phase.
func (s *Space) EnemyPosition(e Enemy) geom.Point {
	host := s.Planet(e.Host)
	return geom.RotatedPosition(host.Pos, e.Phase, host.Radius+s.enemyR)
}

// EnemyRadius returns the collision radius of patrol enemies.
func (s *Space) EnemyRadius() float64 {
	return s.enemyR
}

// NearbyEnemies returns every enemy in the 3x3 areas around the focus, sorted
// by id. The result is a snapshot; removing enemies afterwards is safe.
func (s *Space) NearbyEnemies() []EnemyRef {
	var out []EnemyRef
	for _, a := range s.focusArea.Neighborhood() {
		for _, e := range s.live(a).enemies {
			out = append(out, EnemyRef{Enemy: *e, Pos: s.EnemyPosition(*e)})
		}
	}
	slices.SortFunc(out, func(a, b EnemyRef) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// Enemy looks up an enemy by id. It reports false once the enemy was removed
// or its area evicted.
func (s *Space) Enemy(id EnemyID) (Enemy, bool) {
	e := s.enemy(id)
	if e == nil {
		return Enemy{}, false
	}
	return *e, true
}

func (s *Space) enemy(id EnemyID) *Enemy {
	a, ok := s.enemyArea[id]
	if !ok {
		return nil
	}
	return s.areas[a].enemies[id]
}

// MoveEnemy sets an enemy's phase. It reports false for unknown ids.
func (s *Space) MoveEnemy(id EnemyID, phase float64) bool {
	e := s.enemy(id)
	if e == nil {
		return false
	}
	e.Phase = phase
	return true
}

// RemoveEnemy deletes an enemy. The kill is remembered so a re-materialized
// area does not bring the enemy back. Do not call while iterating live state;
// collect ids from NearbyEnemies first.
func (s *Space) RemoveEnemy(id EnemyID) bool {
	e := s.enemy(id)
	if e == nil {
		return false
	}
	a := s.enemyArea[id]
	delete(s.areas[a].enemies, id)
	delete(s.enemyArea, id)

	dead := s.tombstones[a]
	if dead == nil {
		dead = make(map[int]struct{})
		s.tombstones[a] = dead
	}
	dead[e.Host.idx] = struct{}{}
	return true
}

// Anchor pins the area of the given planet so it is never evicted. The ship
// anchors its attached planet, whose handle must stay resolvable while the
// ship flies away from it.
func (s *Space) Anchor(h PlanetIndex) {
	s.Planet(h)
	s.anchor = h.area
	s.hasAnchor = true
}

// AllPlanets returns every materialized planet ordered by area then index.
func (s *Space) AllPlanets() []Planet {
	keys := make([]Area, 0, len(s.areas))
	for a := range s.areas {
		keys = append(keys, a)
	}
	slices.SortFunc(keys, func(a, b Area) int {
		switch {
		case a.less(b):
			return -1
		case b.less(a):
			return 1
		}
		return 0
	})

	var out []Planet
	for _, a := range keys {
		out = append(out, s.areas[a].planets...)
	}
	return out
}

// Bounds returns the bounding box of every materialized planet and the goal.
func (s *Space) Bounds() (min, max geom.Point) {
	min = geom.Pt(s.goal.Pos.X-s.goal.Radius, s.goal.Pos.Y-s.goal.Radius)
	max = geom.Pt(s.goal.Pos.X+s.goal.Radius, s.goal.Pos.Y+s.goal.Radius)
	for _, st := range s.areas {
		for _, p := range st.planets {
			min.X = minf(min.X, p.Pos.X-p.Radius)
			min.Y = minf(min.Y, p.Pos.Y-p.Radius)
			max.X = maxf(max.X, p.Pos.X+p.Radius)
			max.Y = maxf(max.Y, p.Pos.Y+p.Radius)
		}
	}
	return min, max
}

// Areas returns how many areas are currently materialized.
func (s *Space) Areas() int {
	return len(s.areas)
}

// Generated returns how many times an area has been generated.
func (s *Space) Generated() int {
	return s.generated
}

// Evicted returns how many areas have been dropped by retention.
func (s *Space) Evicted() int {
	return s.evicted
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
