package main

import (
	"flag"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/plus3/towerfall/tower"
)

const tickInterval = time.Second / 60

func main() {
	defaults := tower.DefaultConfig()
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for piece, stability and scatter randomness.")
	threshold := flag.Int("threshold", defaults.FullLevelCells, "Occupied cells that make a level full.")
	logPath := flag.String("log", "", "Write development logs to this file.")
	flag.Parse()

	logger := zap.NewNop()
	if *logPath != "" {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{*logPath}
		var err error
		if logger, err = cfg.Build(); err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
	}
	defer logger.Sync()

	cfg := defaults
	cfg.Seed = *seed
	cfg.FullLevelCells = *threshold

	scene := newTermScene()
	game, err := tower.NewGame(cfg, tower.WithLogger(logger), tower.WithScene(scene))
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}
	defer game.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to open terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to open terminal: %v", err)
	}
	defer screen.Fini()

	run(screen, game, scene)
}

// run drives the game at a fixed tick until the player quits.
func run(screen tcell.Screen, game *tower.Game, scene *termScene) {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	keys := newPulses(game.Config())
	game.Start()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !keys.press(ev) {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			case nil:
				return
			}

		case <-ticker.C:
			game.Tick(tickInterval.Seconds(), keys.next())
			_, ghost, _ := game.Ghost()
			scene.draw(screen, game, ghost)
		}
	}
}
