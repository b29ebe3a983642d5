package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/hopper/config"
)

func TestCollectorEndRound(t *testing.T) {
	c := NewCollector(0.5)

	c.RecordShot()
	c.RecordShot()
	c.RecordLanding(false)
	c.RecordLanding(true)
	c.RecordAttach()
	c.RecordKills(3)
	c.RecordCulled(1)
	c.SetAreas(9, 0)

	stats := c.EndRound(OutcomeWon, 20, 1)

	if stats.Round != 1 || stats.Outcome != OutcomeWon {
		t.Errorf("round/outcome = %d/%s", stats.Round, stats.Outcome)
	}
	if math.Abs(stats.SimTime-10) > 1e-9 {
		t.Errorf("SimTime = %v, want 10", stats.SimTime)
	}
	if stats.Shots != 2 || stats.Landings != 2 || stats.Bounces != 1 || stats.Attaches != 1 {
		t.Errorf("ship events wrong: %+v", stats)
	}
	if stats.Kills != 3 || stats.Culled != 1 || stats.AreasGenerated != 9 {
		t.Errorf("combat/world counters wrong: %+v", stats)
	}

	next := c.EndRound(OutcomeLost, 30, 0)
	if next.Round != 2 || next.StartTick != 20 || next.Shots != 0 || next.Kills != 0 {
		t.Errorf("counters not reset between rounds: %+v", next)
	}
	if math.Abs(next.SimTime-5) > 1e-9 {
		t.Errorf("SimTime = %v, want 5", next.SimTime)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// Every method is safe on a nil manager.
	if err := om.WriteRound(RoundStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if err := om.WriteRound(RoundStats{Round: i, Outcome: OutcomeLost}); err != nil {
			t.Fatalf("WriteRound: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{}, 120); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "rounds.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("rounds.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "round,outcome,end_tick") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Count(string(data), "round,outcome") != 1 {
		t.Error("header written more than once")
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "perf.csv")); err != nil {
		t.Errorf("perf.csv missing: %v", err)
	}
}
