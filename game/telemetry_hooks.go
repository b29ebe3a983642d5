package game

import (
	"log/slog"

	"github.com/pthm-cable/hopper/telemetry"
)

// endTick closes the tick's perf sample and flushes perf stats once per window.
func (g *Game) endTick() {
	g.perf.EndTick()

	window := int64(g.cfg.Telemetry.PerfWindow)
	if window <= 0 || g.tick%window != 0 {
		return
	}

	perfStats := g.perf.Stats()
	if g.opts.LogStats {
		perfStats.LogStats()
	}
	if err := g.output.WritePerf(perfStats, g.tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// recordRound keeps a settled round and reports it.
func (g *Game) recordRound(stats telemetry.RoundStats) {
	g.rounds = append(g.rounds, stats)

	if g.opts.LogStats {
		stats.LogStats()
	} else {
		g.log.Debug("round ended", "stats", stats)
	}

	if err := g.output.WriteRound(stats); err != nil {
		slog.Error("failed to write round", "error", err)
	}
}

// Rounds returns every settled round so far.
func (g *Game) Rounds() []telemetry.RoundStats {
	return g.rounds
}

// Summary aggregates the settled rounds.
func (g *Game) Summary() telemetry.Summary {
	return telemetry.Summarize(g.rounds)
}
