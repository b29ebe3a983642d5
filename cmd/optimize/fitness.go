package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/hopper/config"
	"github.com/pthm-cable/hopper/game"
	"github.com/pthm-cable/hopper/telemetry"
)

// FitnessEvaluator runs headless autopilot sessions and scores how close
// their win rate lands to a target difficulty.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	seeds      []int64
	baseConfig *config.Config
	targetWin  float64

	mu          sync.Mutex
	lastSummary telemetry.Summary // merged summary from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config, targetWin float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
		targetWin:  targetWin,
	}
}

// LastSummary returns the session summary from the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() telemetry.Summary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the squared distance of the pooled win rate from the target,
// plus a penalty when too few rounds were settled to judge.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([][]telemetry.RoundStats, len(fe.seeds))
	var wg sync.WaitGroup

	// Sessions share nothing but the read-only base config.
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSession(x, s)
		}(i, seed)
	}
	wg.Wait()

	var rounds []telemetry.RoundStats
	for _, r := range results {
		rounds = append(rounds, r...)
	}
	sum := telemetry.Summarize(rounds)

	fe.mu.Lock()
	fe.lastSummary = sum
	fe.mu.Unlock()

	return fe.computeFitness(sum)
}

// minSettledRounds is how many won or lost rounds an evaluation needs before
// its win rate is trusted.
const minSettledRounds = 4

func (fe *FitnessEvaluator) computeFitness(sum telemetry.Summary) float64 {
	settled := sum.Wins + sum.Losses
	if settled == 0 {
		return 1
	}
	fitness := math.Pow(sum.WinRate-fe.targetWin, 2)
	if settled < minSettledRounds {
		fitness += 0.1 * float64(minSettledRounds-settled) / minSettledRounds
	}
	return fitness
}

// runSession plays one autopilot session and returns its rounds.
func (fe *FitnessEvaluator) runSession(x []float64, seed int64) []telemetry.RoundStats {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.NewGame(cfg, game.Options{Seed: seed})
	if err != nil {
		return nil
	}

	pilot := game.NewAutopilot(seed)
	for g.Tick() < fe.maxTicks {
		g.Update(cfg.Physics.DT, pilot.Next(g))
	}
	g.Close()

	return g.Rounds()
}

// copyConfig returns a private copy of the base config. Config holds only
// value fields, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
