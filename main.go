package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/BenGale93/genesis-sub000/config"
	"github.com/BenGale93/genesis-sub000/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot and hall of fame")
	saveBrains := flag.Bool("save-brains", false, "Save living brains to the output directory on exit")
	hallOfFame := flag.String("hall-of-fame", "", "Hall of fame JSON to seed reseeding from")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	summaryEvery := flag.Int("summary-every", 0, "Log a world summary every N ticks (0 = only at exit)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	g := game.NewGameWithOptions(game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		SaveBrains:     *saveBrains,
		HallOfFamePath: *hallOfFame,
	})
	defer g.Unload()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"stats_window", *statsWindow,
		"max_ticks", *maxTicks,
	)

	for {
		g.UpdateHeadless()

		if *summaryEvery > 0 && int(g.Tick())%*summaryEvery == 0 {
			g.LogSummary()
		}
		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			g.LogSummary()
			return
		}
	}
}
