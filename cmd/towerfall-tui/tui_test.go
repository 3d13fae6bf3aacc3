package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/towerfall/tower"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(120, 30)
	t.Cleanup(screen.Fini)
	return screen
}

func screenText(screen tcell.SimulationScreen) string {
	cells, w, h := screen.GetContents()
	var b strings.Builder
	for y := range h {
		for x := range w {
			c := cells[y*w+x]
			if len(c.Runes) > 0 {
				b.WriteRune(c.Runes[0])
			} else {
				b.WriteRune(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func newTestGame(t *testing.T) (*tower.Game, *termScene) {
	t.Helper()
	scene := newTermScene()
	cfg := tower.DefaultConfig()
	cfg.Stability.Cap = 0
	game, err := tower.NewGame(cfg, tower.WithScene(scene))
	require.NoError(t, err)
	t.Cleanup(game.Close)
	return game, scene
}

func TestDrawShowsFallingAndLanded(t *testing.T) {
	game, scene := newTestGame(t)
	screen := newSimScreen(t)

	game.Start()
	scene.draw(screen, game, nil)
	text := screenText(screen)
	assert.Contains(t, text, "@", "falling piece is marked")
	assert.Contains(t, text, "Score   0")

	game.HardDrop()
	game.Tick(1.0/60, tower.Input{})
	scene.draw(screen, game, nil)
	assert.Contains(t, screenText(screen), "Phase   landed")

	cols := scene.columns()
	require.NotEmpty(t, cols)
	for _, m := range cols {
		assert.False(t, m.falling)
		assert.Equal(t, 0, m.level, "landed cells rest on the ground")
	}
}

func TestColumnsPreferFallingPiece(t *testing.T) {
	scene := newTermScene()
	scene.Attach(tower.PieceView{ID: 1, Offsets: []tower.Cell{{}}, State: tower.StateLanded})
	scene.Place(1, tower.Pose{Origin: tower.Vec3{Y: 0.5}})
	scene.Attach(tower.PieceView{ID: 2, Offsets: []tower.Cell{{}}, State: tower.StateFalling})
	scene.Place(2, tower.Pose{Origin: tower.Vec3{Y: 0.2}})

	m := scene.columns()[[2]int{0, 0}]
	assert.True(t, m.falling)
}

func TestElevationKeepsNearest(t *testing.T) {
	scene := newTermScene()
	scene.Attach(tower.PieceView{ID: 1, Color: 1, Offsets: []tower.Cell{{Z: -2}}, State: tower.StateLanded})
	scene.Attach(tower.PieceView{ID: 2, Color: 2, Offsets: []tower.Cell{{Z: 3}}, State: tower.StateLanded})
	scene.Place(1, tower.Pose{Origin: tower.Vec3{Y: 0.5}})
	scene.Place(2, tower.Pose{Origin: tower.Vec3{Y: 0.5}})

	m := scene.elevation()[[2]int{0, 0}]
	assert.Equal(t, tower.Color(2), m.color)
}

func TestLevelRune(t *testing.T) {
	assert.Equal(t, '0', levelRune(0))
	assert.Equal(t, 'a', levelRune(10))
	assert.Equal(t, '+', levelRune(99))
}

func TestPulses(t *testing.T) {
	p := newPulses(tower.DefaultConfig())
	assert.Equal(t, 10, p.moveTicks)
	assert.Equal(t, 16, p.turnTicks)

	assert.True(t, p.press(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)))
	assert.True(t, p.press(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)))

	in := p.next()
	assert.True(t, in.MoveLeft)
	assert.True(t, in.HardDrop)
	in = p.next()
	assert.True(t, in.MoveLeft)
	assert.False(t, in.HardDrop, "drop is a single tick")

	p.press(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	in = p.next()
	assert.False(t, in.MoveLeft, "opposite direction cancels")
	assert.True(t, in.MoveRight)

	for range 20 {
		p.next()
	}
	assert.Equal(t, tower.Input{}, p.next())

	assert.False(t, p.press(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	p.press(tcell.NewEventKey(tcell.KeyRune, 'E', tcell.ModNone))
	assert.True(t, p.next().RotateCW)
}

func TestElevationMarksCeiling(t *testing.T) {
	assert.Equal(t, 18, ceilingRow(18))
	assert.Equal(t, 6, ceilingRow(5.5))

	scene := newTermScene()
	cfg := tower.DefaultConfig()
	cfg.HeightCeiling = 5.5
	game, err := tower.NewGame(cfg, tower.WithScene(scene))
	require.NoError(t, err)
	t.Cleanup(game.Close)
	screen := newSimScreen(t)

	game.Start()
	scene.draw(screen, game, nil)
	text := screenText(screen)
	assert.Contains(t, text, " 6 -")
	assert.NotContains(t, text, " 5 -")
	assert.NotContains(t, text, " 7 -")
}
