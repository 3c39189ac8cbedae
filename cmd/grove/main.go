// Command grove runs the plant light-competition simulation headlessly.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/grove/config"
	"github.com/pthm-cable/grove/sim"
	"github.com/pthm-cable/grove/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 10000, "Stop after N ticks")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logEvents := flag.Bool("log-events", false, "Log individual germination/death events")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Use config stats window if not overridden by CLI
	windowTicks := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		windowTicks = *statsWindow
	}

	opts := sim.Options{Seed: rngSeed}
	if *logEvents {
		opts.OnAdded = func(o sim.OrganismView) {
			slog.Info("germinated", "id", o.ID, "x", o.X, "y", o.Y, "generation", o.Generation)
		}
		opts.OnRemoved = func(o sim.OrganismView) {
			slog.Info("died", "id", o.ID, "cause", o.DeathCause.String(), "age", o.Age, "height", o.Height)
		}
	}

	simulation, err := sim.New(cfg, opts)
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		os.Exit(1)
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to set up output", "error", err)
		os.Exit(1)
	}
	defer output.Close()

	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	collector := telemetry.NewCollector(windowTicks)

	slog.Info("starting", "seed", rngSeed, "max_ticks", *maxTicks,
		"grid", cfg.Grid, "population", simulation.Population())

	for tick := 0; tick < *maxTicks; tick++ {
		simulation.Step()

		if collector.ShouldFlush(simulation.Tick()) {
			stats := collector.Flush(simulation)
			if *logStats {
				stats.LogStats()
			}
			if err := output.WriteTelemetry(stats); err != nil {
				slog.Error("failed to write telemetry", "error", err)
			}
		}

		// An extinct grove with no seeds in flight cannot recover.
		if simulation.Population() == 0 && simulation.SeedCount() == 0 {
			slog.Info("population extinct", "tick", simulation.Tick())
			break
		}
	}

	slog.Info("finished",
		"tick", simulation.Tick(),
		"population", simulation.Population(),
		"seeds_pending", simulation.SeedCount(),
		"germinations", simulation.Germinations(),
		"deaths", simulation.DeathCounts(),
	)
}
