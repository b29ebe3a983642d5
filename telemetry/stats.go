package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RoundStats holds aggregated statistics for one round (spawn to win or loss).
type RoundStats struct {
	Round     int     `csv:"round"`
	Outcome   string  `csv:"outcome"`
	StartTick int64   `csv:"-"`
	EndTick   int64   `csv:"end_tick"`
	SimTime   float64 `csv:"sim_time"` // Seconds of simulated time in the round
	Score     int     `csv:"score"`    // Session score after the round was settled

	// Ship events
	Shots    int `csv:"shots"`
	Landings int `csv:"landings"`
	Bounces  int `csv:"bounces"`
	Attaches int `csv:"attaches"`

	// Combat
	Kills  int `csv:"kills"`
	Culled int `csv:"culled"` // Projectiles dropped for leaving the cull box

	// World
	AreasGenerated int `csv:"areas_generated"`
	AreasEvicted   int `csv:"areas_evicted"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s RoundStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("round", s.Round),
		slog.String("outcome", s.Outcome),
		slog.Int64("start_tick", s.StartTick),
		slog.Int64("end_tick", s.EndTick),
		slog.Float64("sim_time", s.SimTime),
		slog.Int("score", s.Score),
		slog.Int("shots", s.Shots),
		slog.Int("landings", s.Landings),
		slog.Int("bounces", s.Bounces),
		slog.Int("attaches", s.Attaches),
		slog.Int("kills", s.Kills),
		slog.Int("culled", s.Culled),
		slog.Int("areas_generated", s.AreasGenerated),
		slog.Int("areas_evicted", s.AreasEvicted),
	)
}

// LogStats logs the round stats using slog.
func (s RoundStats) LogStats() {
	slog.Info("round", "stats", s)
}

// Summary aggregates a session of rounds.
type Summary struct {
	Rounds int
	Wins   int
	Losses int

	WinRate       float64
	MeanRoundTime float64
	StdRoundTime  float64
	MaxRoundTime  float64
	MeanKills     float64
	MedianKills   float64
	TotalShots    int
}

// Summarize computes session statistics over completed rounds. Rounds that
// ended without an outcome (a session cut short) count toward times and kills
// but not toward the win rate.
func Summarize(rounds []RoundStats) Summary {
	var sum Summary
	sum.Rounds = len(rounds)
	if len(rounds) == 0 {
		return sum
	}

	times := make([]float64, len(rounds))
	kills := make([]float64, len(rounds))
	for i, r := range rounds {
		times[i] = r.SimTime
		kills[i] = float64(r.Kills)
		sum.TotalShots += r.Shots
		switch r.Outcome {
		case OutcomeWon:
			sum.Wins++
		case OutcomeLost:
			sum.Losses++
		}
	}

	if settled := sum.Wins + sum.Losses; settled > 0 {
		sum.WinRate = float64(sum.Wins) / float64(settled)
	}

	if len(times) > 1 {
		sum.MeanRoundTime, sum.StdRoundTime = stat.MeanStdDev(times, nil)
	} else {
		sum.MeanRoundTime = times[0]
	}
	sum.MaxRoundTime = floats.Max(times)

	sum.MeanKills = stat.Mean(kills, nil)
	slices.Sort(kills)
	sum.MedianKills = stat.Quantile(0.5, stat.Empirical, kills, nil)

	return sum
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("rounds", s.Rounds),
		slog.Int("wins", s.Wins),
		slog.Int("losses", s.Losses),
		slog.Float64("win_rate", s.WinRate),
		slog.Float64("mean_round_time", s.MeanRoundTime),
		slog.Float64("std_round_time", s.StdRoundTime),
		slog.Float64("max_round_time", s.MaxRoundTime),
		slog.Float64("mean_kills", s.MeanKills),
		slog.Float64("median_kills", s.MedianKills),
		slog.Int("total_shots", s.TotalShots),
	)
}
