package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one timed section of a simulation tick.
type Phase int

// Tick phases, in the order Game.Update runs them.
const (
	PhaseMovement Phase = iota
	PhaseCollision
	PhaseProjectiles
	PhasePatrol
	PhaseFocus

	numPhases
)

var phaseNames = [numPhases]string{"movement", "collision", "projectiles", "patrol", "focus"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

type tickSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps tick timings for the last windowSize ticks.
// Not safe for concurrent use.
type PerfCollector struct {
	ring   []tickSample
	next   int
	filled int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	active     Phase
	inPhase    bool
}

// NewPerfCollector creates a collector over a window of ticks
// (120 is two seconds at 60Hz).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]tickSample, windowSize)}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.cur = tickSample{}
	p.inPhase = false
	p.tickStart = time.Now()
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.active = phase
	p.inPhase = true
	p.phaseStart = now
}

// EndTick closes the tick and stores it in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.active >= 0 && p.active < numPhases {
		p.cur.phases[p.active] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// PerfStats summarizes the window.
type PerfStats struct {
	Ticks int

	AvgTick time.Duration
	P95Tick time.Duration
	MaxTick time.Duration

	// Average time and share of the average tick (percent) per phase
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	TicksPerSecond float64
}

// Stats aggregates the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p.filled == 0 {
		return s
	}
	s.Ticks = p.filled

	totals := make([]float64, p.filled)
	var phaseSum [numPhases]time.Duration
	for i, sample := range p.ring[:p.filled] {
		totals[i] = float64(sample.total)
		for ph, d := range sample.phases {
			phaseSum[ph] += d
		}
	}
	slices.Sort(totals)

	s.AvgTick = time.Duration(stat.Mean(totals, nil))
	s.P95Tick = time.Duration(stat.Quantile(0.95, stat.Empirical, totals, nil))
	s.MaxTick = time.Duration(totals[len(totals)-1])

	n := time.Duration(p.filled)
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTick > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTick) * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "window", s)
}

// LogValue implements slog.LogValuer. Phases under 0.1% are left out.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("p95_tick_us", s.P95Tick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	Tick           int64   `csv:"tick"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	P95TickUS      int64   `csv:"p95_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	MovementPct    float64 `csv:"movement_pct"`
	CollisionPct   float64 `csv:"collision_pct"`
	ProjectilesPct float64 `csv:"projectiles_pct"`
	PatrolPct      float64 `csv:"patrol_pct"`
	FocusPct       float64 `csv:"focus_pct"`
}

// ToCSV flattens the stats into a row stamped with tick.
func (s PerfStats) ToCSV(tick int64) PerfStatsCSV {
	return PerfStatsCSV{
		Tick:           tick,
		AvgTickUS:      s.AvgTick.Microseconds(),
		P95TickUS:      s.P95Tick.Microseconds(),
		MaxTickUS:      s.MaxTick.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		MovementPct:    s.PhasePct[PhaseMovement],
		CollisionPct:   s.PhasePct[PhaseCollision],
		ProjectilesPct: s.PhasePct[PhaseProjectiles],
		PatrolPct:      s.PhasePct[PhasePatrol],
		FocusPct:       s.PhasePct[PhaseFocus],
	}
}
