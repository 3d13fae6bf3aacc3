package main

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/plus3/towerfall/report"
	"github.com/plus3/towerfall/tower"
)

// hud is the tower.Scoreboard of the window frontend.
type hud struct {
	score    int
	gameOver bool

	message      string
	messageTicks int
}

func (h *hud) Update(score int, gameOver bool) {
	h.score = score
	h.gameOver = gameOver
}

func (h *hud) flash(msg string) {
	h.message = msg
	h.messageTicks = 120
}

var (
	panelColor = color.RGBA{R: 12, G: 14, B: 20, A: 200}
	textColor  = color.RGBA{R: 230, G: 232, B: 240, A: 255}
	alertColor = color.RGBA{R: 255, G: 110, B: 90, A: 255}
)

func drawText(img *ebiten.Image, s string, x, y int, col color.Color) {
	text.Draw(img, s, basicfont.Face7x13, x, y, col)
}

func (h *hud) draw(screen *ebiten.Image, g *tower.Game) {
	ses := g.Session()
	vector.FillRect(screen, 8, 8, 230, 92, panelColor, false)
	drawText(screen, fmt.Sprintf("Score   %d", h.score), 18, 28, textColor)
	drawText(screen, fmt.Sprintf("Height  %.0f (best %.0f)", ses.TowerHeight, ses.MaxHeight), 18, 46, textColor)
	drawText(screen, fmt.Sprintf("Topple  %.0f%%", g.CollapseChance()*100), 18, 64, textColor)
	drawText(screen, fmt.Sprintf("Phase   %s", g.Phase()), 18, 82, textColor)

	w, hgt := screen.Bounds().Dx(), screen.Bounds().Dy()
	if h.gameOver {
		msg := fmt.Sprintf("GAME OVER (%s). Press R to restart", ses.Reason)
		drawText(screen, msg, w/2-len(msg)*7/2, hgt/2, alertColor)
	}
	if h.messageTicks > 0 {
		h.messageTicks--
		drawText(screen, h.message, 18, hgt-20, textColor)
	}
	drawText(screen, "WASD move  Q/E rotate  Space drop  drag camera  C copy report  F1 debug", 18, hgt-40, groundColor)
}

// copyReport puts a markdown report of the current session on the clipboard.
func copyReport(g *tower.Game) error {
	stats := g.Stats()
	r := report.Report{
		Title:     "Towerfall Session",
		Threshold: g.Config().FullLevelCells,
		Runs: []report.Run{{
			Seed:    g.Config().Seed,
			Ticks:   int(stats.Frames),
			Session: g.Session(),
			Stats:   stats,
		}},
	}

	var buf bytes.Buffer
	if err := r.Generate(&buf); err != nil {
		return err
	}
	return clipboard.WriteAll(buf.String())
}
