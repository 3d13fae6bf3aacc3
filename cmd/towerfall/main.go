package main

import (
	"flag"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/plus3/towerfall/ecs"
	"github.com/plus3/towerfall/ecs/debugui"
	debugui_ebiten "github.com/plus3/towerfall/ecs/debugui/ebiten"
	"github.com/plus3/towerfall/sound"
	"github.com/plus3/towerfall/tower"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	tickSeconds  = 1.0 / 60
)

var background = color.RGBA{R: 24, G: 27, B: 36, A: 255}

type app struct {
	game  *tower.Game
	scene *isoScene
	hud   *hud
	cam   *camera
	input *binding
	log   *zap.Logger

	ui         *ecs.Scheduler
	backend    *ecs.Singleton[debugui_ebiten.ImguiBackend]
	capture    *ecs.Singleton[debugui.ImguiInputState]
	visibility *ecs.Singleton[debugui.ImguiVisibility]
}

func (a *app) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		v := a.visibility.Get()
		v.Hidden = !v.Hidden
	}

	a.backend.Get().Frame(func() { a.ui.Once(tickSeconds) })

	capture := *a.capture.Get()
	if !capture.WantCaptureKeyboard && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if err := copyReport(a.game); err != nil {
			a.log.Warn("copy report", zap.Error(err))
			a.hud.flash("clipboard unavailable")
		} else {
			a.hud.flash("report copied to clipboard")
		}
	}

	a.game.Tick(tickSeconds, a.input.poll(capture))
	return nil
}

func (a *app) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	var ghost []tower.Cell
	if _, cells, ok := a.game.Ghost(); ok {
		ghost = cells
	}
	a.scene.draw(screen, a.cam, ghost)
	a.hud.draw(screen, a.game)
	a.backend.Get().Overlay(screen)
}

func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.backend.Get().Layout(outsideWidth, outsideHeight)
	a.cam.cx = float64(outsideWidth) / 2
	a.cam.cy = float64(outsideHeight) * 0.6
	return outsideWidth, outsideHeight
}

func main() {
	defaults := tower.DefaultConfig()
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for piece, stability and scatter randomness.")
	threshold := flag.Int("threshold", defaults.FullLevelCells, "Occupied cells that make a level full.")
	debug := flag.Bool("debug", false, "Show the ImGui debug windows at start (F1 toggles).")
	mute := flag.Bool("mute", false, "Disable sound.")
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
	cfg.Seed = *seed
	cfg.FullLevelCells = *threshold

	backend := debugui_ebiten.NewImguiBackend("Towerfall", screenWidth, screenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	scene := newIsoScene()
	board := &hud{}
	opts := []tower.Option{
		tower.WithLogger(logger),
		tower.WithScene(scene),
		tower.WithScoreboard(board),
	}
	if !*mute {
		player := sound.NewPlayer(logger)
		if err := player.Initialize(); err != nil {
			logger.Warn("sound disabled", zap.Error(err))
		} else {
			defer player.Close()
			opts = append(opts, tower.WithObserver(player))
		}
	}

	game, err := tower.NewGame(cfg, opts...)
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}
	defer game.Close()

	ui := debugui.NewUIStorage()
	ecs.NewSingleton(ui, backend)
	inspector := debugui.NewInspector(game.Storage(), debugui.StatsFunc(func() *ecs.SchedulerStats {
		return game.Stats().Systems
	}))
	debugui.SpawnInspector(ui, inspector)
	spawnSessionWindow(ui, game)

	uiScheduler := ecs.NewScheduler(ui)
	uiScheduler.Register(&debugui.ImguiSystem{})

	cam := newCamera()
	a := &app{
		game:       game,
		scene:      scene,
		hud:        board,
		cam:        cam,
		input:      &binding{cam: cam},
		log:        logger,
		ui:         uiScheduler,
		backend:    ecs.NewSingleton[debugui_ebiten.ImguiBackend](ui),
		capture:    ecs.NewSingleton[debugui.ImguiInputState](ui),
		visibility: ecs.NewSingleton[debugui.ImguiVisibility](ui),
	}
	a.visibility.Get().Hidden = !*debug

	game.Start()
	if err := ebiten.RunGame(a); err != nil {
		log.Fatalf("Game exited: %v", err)
	}
}
