package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/towerfall/report"
	"github.com/plus3/towerfall/tower"
)

const tickSeconds = 1.0 / 60

// spread bounds the columns the autopilot aims for, in cells from the centre.
const spread = 2

func main() {
	defaults := tower.DefaultConfig()
	runs := flag.Int("runs", 10, "Number of games to play.")
	ticks := flag.Int("ticks", 20000, "Tick budget per game.")
	seedBase := flag.Uint64("seed-base", 1, "Seed of the first game.")
	seedStep := flag.Uint64("seed-step", 1, "Seed increment between games.")
	threshold := flag.Int("threshold", defaults.FullLevelCells, "Occupied cells that make a level full.")
	verbose := flag.Bool("v", false, "Log game events to stderr.")
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
	}
	defer logger.Sync()

	cfg := defaults
	cfg.FullLevelCells = *threshold

	rep := &report.Report{
		Title:     "Towerfall Simulation Report",
		Threshold: *threshold,
	}
	for i := range *runs {
		cfg.Seed = *seedBase + uint64(i)*(*seedStep)
		run, err := simulate(cfg, *ticks, logger.With(zap.Uint64("seed", cfg.Seed)))
		if err != nil {
			log.Fatalf("Failed to run seed %d: %v", cfg.Seed, err)
		}
		logger.Info("run finished",
			zap.Uint64("seed", run.Seed),
			zap.Int("ticks", run.Ticks),
			zap.Int("score", run.Session.Score),
			zap.Stringer("reason", run.Session.Reason))
		rep.Runs = append(rep.Runs, run)
	}

	fmt.Println()
	if err := rep.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
}

// simulate plays one game under the autopilot until it ends or the tick budget
// runs out.
func simulate(cfg tower.Config, budget int, logger *zap.Logger) (report.Run, error) {
	game, err := tower.NewGame(cfg, tower.WithLogger(logger))
	if err != nil {
		return report.Run{}, err
	}
	defer game.Close()

	pilot := newAutopilot(cfg.Seed, spread)
	run := report.Run{Seed: cfg.Seed}

	start := time.Now()
	game.Start()
	for run.Ticks < budget && game.Phase() != tower.PhaseGameOver {
		in := pilot.next(game)
		tickStart := time.Now()
		game.Tick(tickSeconds, in)
		run.TickTime.Add(time.Since(tickStart))
		run.Ticks++
	}
	run.Elapsed = time.Since(start)
	run.TickTime.Finalize()
	run.Session = game.Session()
	run.Stats = game.Stats()
	return run, nil
}
