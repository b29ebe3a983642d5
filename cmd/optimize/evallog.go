package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/pthm-cable/hopper/telemetry"
)

// evalLog writes one optimize_log.csv row per evaluation, prints progress
// and remembers the best vector seen. Columns depend on the parameter specs,
// so rows are built by hand rather than from struct tags.
type evalLog struct {
	file     *os.File
	w        *csv.Writer
	maxEvals int
	start    time.Time

	count       int
	bestFitness float64
	best        []float64
}

func newEvalLog(path string, params *ParamVector, maxEvals int) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}

	header := []string{"eval", "fitness", "win_rate", "rounds", "mean_round_time"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing eval log header: %w", err)
	}

	return &evalLog{
		file:        f,
		w:           w,
		maxEvals:    maxEvals,
		start:       time.Now(),
		bestFitness: math.Inf(1),
	}, nil
}

// Record logs one evaluation.
func (l *evalLog) Record(fitness float64, values []float64, sum telemetry.Summary) {
	l.count++
	if fitness < l.bestFitness {
		l.bestFitness = fitness
		l.best = append(l.best[:0], values...)
	}

	row := []string{
		strconv.Itoa(l.count),
		strconv.FormatFloat(fitness, 'f', 6, 64),
		strconv.FormatFloat(sum.WinRate, 'f', 4, 64),
		strconv.Itoa(sum.Rounds),
		strconv.FormatFloat(sum.MeanRoundTime, 'f', 2, 64),
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	l.w.Write(row)
	l.w.Flush()

	elapsed := l.Elapsed()
	eta := time.Duration(l.maxEvals-l.count) * (elapsed / time.Duration(l.count))
	fmt.Printf("Eval %d/%d: win_rate=%.2f rounds=%d fitness=%.4f (best=%.4f) | elapsed %s, ETA %s\n",
		l.count, l.maxEvals, sum.WinRate, sum.Rounds, fitness, l.bestFitness,
		formatDuration(elapsed), formatDuration(eta))
}

// Best returns the best vector so far, or nil before the first evaluation.
func (l *evalLog) Best() []float64 {
	return l.best
}

// BestFitness returns the lowest fitness recorded.
func (l *evalLog) BestFitness() float64 {
	return l.bestFitness
}

// Count returns how many evaluations were recorded.
func (l *evalLog) Count() int {
	return l.count
}

// Elapsed returns the time since the log was opened.
func (l *evalLog) Elapsed() time.Duration {
	return time.Since(l.start)
}

// Close flushes and closes the file.
func (l *evalLog) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}
