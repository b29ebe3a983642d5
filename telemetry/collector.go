package telemetry

// Outcome labels recorded in RoundStats.
const (
	OutcomeWon        = "won"
	OutcomeLost       = "lost"
	OutcomeUnfinished = "unfinished"
)

// Collector accumulates ship and combat events for the current round and
// produces RoundStats when the round ends.
type Collector struct {
	dt float64

	round     int
	startTick int64

	shots    int
	landings int
	bounces  int
	attaches int
	kills    int
	culled   int

	// Totals of the round's world, which is rebuilt every round
	areasGenerated int
	areasEvicted   int
}

// NewCollector creates a new round collector.
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(dt float64) *Collector {
	return &Collector{dt: dt, round: 1}
}

// RecordShot records a fired projectile.
func (c *Collector) RecordShot() {
	c.shots++
}

// RecordLanding records a landing; bouncy landings also count as bounces.
func (c *Collector) RecordLanding(bouncy bool) {
	c.landings++
	if bouncy {
		c.bounces++
	}
}

// RecordAttach records a use of the attach ability.
func (c *Collector) RecordAttach() {
	c.attaches++
}

// RecordKills records enemies destroyed by projectiles.
func (c *Collector) RecordKills(n int) {
	c.kills += n
}

// RecordCulled records projectiles removed by the cull box.
func (c *Collector) RecordCulled(n int) {
	c.culled += n
}

// SetAreas records the current world's generation and eviction totals.
func (c *Collector) SetAreas(generated, evicted int) {
	c.areasGenerated = generated
	c.areasEvicted = evicted
}

// Round returns the 1-based number of the round in progress.
func (c *Collector) Round() int {
	return c.round
}

// EndRound produces the stats for the round in progress and starts the next.
func (c *Collector) EndRound(outcome string, tick int64, score int) RoundStats {
	stats := RoundStats{
		Round:     c.round,
		Outcome:   outcome,
		StartTick: c.startTick,
		EndTick:   tick,
		SimTime:   float64(tick-c.startTick) * c.dt,
		Score:     score,

		Shots:    c.shots,
		Landings: c.landings,
		Bounces:  c.bounces,
		Attaches: c.attaches,
		Kills:    c.kills,
		Culled:   c.culled,

		AreasGenerated: c.areasGenerated,
		AreasEvicted:   c.areasEvicted,
	}

	// Reset for next round
	c.round++
	c.startTick = tick
	c.shots = 0
	c.landings = 0
	c.bounces = 0
	c.attaches = 0
	c.kills = 0
	c.culled = 0
	c.areasGenerated = 0
	c.areasEvicted = 0

	return stats
}
