// Package main tunes world difficulty with CMA-ES: it searches generator and
// enemy parameters until autopilot sessions win at a target rate.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/hopper/config"
)

type options struct {
	configPath string
	maxTicks   int64
	seeds      int
	maxEvals   int
	population int
	targetWin  float64
	outputDir  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.Int64Var(&opts.maxTicks, "max-ticks", 36000, "Ticks per autopilot session")
	flag.IntVar(&opts.seeds, "seeds", 4, "Number of sessions per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 100, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = 4 + 1.5*dim)")
	flag.Float64Var(&opts.targetWin, "target-win-rate", 0.5, "Win rate the tuned world should give the autopilot")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	if opts.outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	base := config.Cfg()

	// Sessions run in parallel; only errors get through.
	slog.SetLogLoggerLevel(slog.LevelError)

	params := NewParamVector()
	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, opts.maxTicks, seeds, base, opts.targetWin)

	evals, err := newEvalLog(filepath.Join(opts.outputDir, "optimize_log.csv"), params, opts.maxEvals)
	if err != nil {
		return err
	}
	defer evals.Close()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			evals.Record(fitness, values, evaluator.LastSummary())
			return fitness
		},
	}

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	// Concurrent stays 0: every evaluation already fans out across seeds.
	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}

	fmt.Printf("CMA-ES over %d parameters, population=%d, max_evals=%d\n", params.Dim(), popSize, opts.maxEvals)
	fmt.Printf("%d sessions x %d ticks per evaluation, target win rate %.2f\n", opts.seeds, opts.maxTicks, opts.targetWin)

	initX := params.Normalize(params.ExtractFromConfig(base))
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := evals.Best()
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return fmt.Errorf("no evaluation completed")
	}

	fmt.Printf("\nDone: %d evaluations in %s, best fitness %.4f\n", evals.Count(), formatDuration(evals.Elapsed()), evals.BestFitness())
	for i, spec := range params.Specs {
		fmt.Printf("  %-22s %-32s %.6f\n", spec.Name, spec.Path, best[i])
	}

	return writeBestConfig(opts, params, best)
}

// writeBestConfig applies the best vector to a fresh copy of the base config
// and saves it next to the log.
func writeBestConfig(opts options, params *ParamVector, best []float64) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	params.ApplyToConfig(cfg, best)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("best parameters give an invalid config: %w", err)
	}

	path := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		return err
	}
	fmt.Printf("\nBest config saved to: %s\n", path)
	return nil
}

// formatDuration formats a duration as 1h02m03s, or 2m03s under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
