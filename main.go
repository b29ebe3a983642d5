package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/pthm-cable/hopper/config"
	"github.com/pthm-cable/hopper/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output round and perf stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "Session seed (0 = config/env, then time-based)")
	maxTicks := flag.Int64("max-ticks", 36000, "Stop after N ticks (0 = until interrupted)")
	realtime := flag.Bool("realtime", false, "Pace ticks at the configured tick rate instead of running flat out")
	flag.Parse()

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if err := cfg.ApplyEnv(); err != nil {
		slog.Error("failed to apply environment", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(cfg.Logging.NewLogger(os.Stdout))

	g, err := game.NewGame(cfg, game.Options{
		Seed:      *seed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	})
	if err != nil {
		slog.Error("failed to start session", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting headless session",
		"seed", g.Seed(),
		"max_ticks", *maxTicks,
		"realtime", *realtime,
		"tick_rate", cfg.Derived.TickRate,
	)

	start := time.Now()
	if err := run(ctx, g, cfg, *maxTicks, *realtime); err != nil {
		slog.Info("session interrupted", "tick", g.Tick(), "reason", err)
	} else {
		slog.Info("max ticks reached", "tick", g.Tick())
	}

	if err := g.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	slog.Info("session finished",
		"ticks", g.Tick(),
		"score", g.Score(),
		"wall_time", time.Since(start).Round(time.Millisecond).String(),
		"summary", g.Summary(),
	)
}

// run drives the session with the autopilot until maxTicks (nil) or until
// ctx is done (ctx's error).
func run(ctx context.Context, g *game.Game, cfg *config.Config, maxTicks int64, realtime bool) error {
	pilot := game.NewAutopilot(g.Seed())

	var limiter *rate.Limiter
	if realtime {
		limiter = rate.NewLimiter(rate.Limit(cfg.Derived.TickRate), 1)
	}

	for maxTicks == 0 || g.Tick() < maxTicks {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		switch g.Update(cfg.Physics.DT, pilot.Next(g)) {
		case game.OutcomeWon:
			slog.Info("goal reached", "tick", g.Tick(), "score", g.Score())
		case game.OutcomeLost:
			slog.Info("ship destroyed", "tick", g.Tick(), "score", g.Score())
		}
	}
	return nil
}
