package main

import (
	"fmt"
	"math"
	"slices"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/towerfall/tower"
)

const (
	fieldRadius = 7
	fieldSize   = 2*fieldRadius + 1
	elevRows    = 22
)

type sprite struct {
	view tower.PieceView
	pose tower.Pose
}

// termScene is the tower.Scene of the terminal frontend. It draws a top-down
// height map and a side elevation looking along +z.
type termScene struct {
	pieces map[tower.PieceID]*sprite
}

func newTermScene() *termScene {
	return &termScene{pieces: make(map[tower.PieceID]*sprite)}
}

func (s *termScene) Attach(piece tower.PieceView) {
	piece.Offsets = slices.Clone(piece.Offsets)
	if sp, ok := s.pieces[piece.ID]; ok {
		sp.view = piece
		return
	}
	s.pieces[piece.ID] = &sprite{view: piece}
}

func (s *termScene) Detach(id tower.PieceID) {
	delete(s.pieces, id)
}

func (s *termScene) Place(id tower.PieceID, pose tower.Pose) {
	if sp, ok := s.pieces[id]; ok {
		sp.pose = pose
	}
}

type mark struct {
	level   int
	color   tower.Color
	falling bool
	set     bool
}

// columns returns, per (x,z), the highest cell any piece covers there.
func (s *termScene) columns() map[[2]int]mark {
	out := make(map[[2]int]mark)
	for _, sp := range s.pieces {
		falling := sp.view.State == tower.StateFalling
		for _, c := range sp.pose.CellCenters(sp.view.Offsets) {
			cell := tower.CellAt(c)
			key := [2]int{cell.X, cell.Z}
			if m := out[key]; !m.set || cell.Y > m.level || (falling && !m.falling) {
				out[key] = mark{level: cell.Y, color: sp.view.Color, falling: falling, set: true}
			}
		}
	}
	return out
}

// elevation returns, per (x,y), the nearest piece seen from the front.
func (s *termScene) elevation() map[[2]int]mark {
	out := make(map[[2]int]mark)
	depth := make(map[[2]int]int)
	for _, sp := range s.pieces {
		falling := sp.view.State == tower.StateFalling
		for _, c := range sp.pose.CellCenters(sp.view.Offsets) {
			cell := tower.CellAt(c)
			key := [2]int{cell.X, cell.Y}
			if d, ok := depth[key]; ok && d >= cell.Z && !falling {
				continue
			}
			depth[key] = cell.Z
			out[key] = mark{level: cell.Y, color: sp.view.Color, falling: falling, set: true}
		}
	}
	return out
}

func pieceStyle(c tower.Color) tcell.Style {
	r, g, b := c.RGB()
	return tcell.StyleDefault.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b))).Foreground(tcell.ColorBlack)
}

const levelDigits = "0123456789abcdefghijklmnopqrstuvwxyz"

func levelRune(level int) rune {
	if level < 0 || level >= len(levelDigits) {
		return '+'
	}
	return rune(levelDigits[level])
}

func putString(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// draw renders the whole frame. ghost may be nil.
func (s *termScene) draw(screen tcell.Screen, g *tower.Game, ghost []tower.Cell) {
	screen.Clear()
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	bold := tcell.StyleDefault.Bold(true)

	putString(screen, 0, 0, "TOP (x right, z down)", bold)
	ghostAt := make(map[[2]int]bool, len(ghost))
	for _, c := range ghost {
		ghostAt[[2]int{c.X, c.Z}] = true
	}
	cols := s.columns()
	for z := -fieldRadius; z <= fieldRadius; z++ {
		for x := -fieldRadius; x <= fieldRadius; x++ {
			sx, sy := 2*(x+fieldRadius), 1+z+fieldRadius
			m, ok := cols[[2]int{x, z}]
			switch {
			case ok && m.falling:
				screen.SetContent(sx, sy, '@', nil, pieceStyle(m.color).Bold(true))
				screen.SetContent(sx+1, sy, ' ', nil, pieceStyle(m.color))
			case ok:
				screen.SetContent(sx, sy, levelRune(m.level), nil, pieceStyle(m.color))
				screen.SetContent(sx+1, sy, ' ', nil, pieceStyle(m.color))
			case ghostAt[[2]int{x, z}]:
				screen.SetContent(sx, sy, '[', nil, dim)
				screen.SetContent(sx+1, sy, ']', nil, dim)
			default:
				screen.SetContent(sx, sy, '.', nil, dim)
			}
		}
	}

	left := 2*fieldSize + 3
	putString(screen, left, 0, "SIDE (x right, y up)", bold)
	elev := s.elevation()
	ceiling := ceilingRow(g.Config().HeightCeiling)
	for row := range elevRows {
		y := elevRows - 1 - row
		putString(screen, left, 1+row, fmt.Sprintf("%2d", y), dim)
		for x := -fieldRadius; x <= fieldRadius; x++ {
			sx := left + 3 + 2*(x+fieldRadius)
			if m, ok := elev[[2]int{x, y}]; ok {
				r := ' '
				if m.falling {
					r = '@'
				}
				screen.SetContent(sx, 1+row, r, nil, pieceStyle(m.color))
				screen.SetContent(sx+1, 1+row, ' ', nil, pieceStyle(m.color))
			} else if y == ceiling {
				screen.SetContent(sx, 1+row, '-', nil, dim)
			}
		}
	}

	ses := g.Session()
	info := left + 3 + 2*fieldSize + 3
	putString(screen, info, 1, fmt.Sprintf("Score   %d", ses.Score), bold)
	putString(screen, info, 2, fmt.Sprintf("Height  %.0f", ses.TowerHeight), tcell.StyleDefault)
	putString(screen, info, 3, fmt.Sprintf("Topple  %.0f%%", g.CollapseChance()*100), tcell.StyleDefault)
	putString(screen, info, 4, fmt.Sprintf("Phase   %s", g.Phase()), tcell.StyleDefault)
	if ses.GameOver {
		putString(screen, info, 6, fmt.Sprintf("GAME OVER (%s)", ses.Reason), tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
		putString(screen, info, 7, "R to restart", tcell.StyleDefault)
	}
	putString(screen, info, 9, "WASD/arrows move", dim)
	putString(screen, info, 10, "Q/E rotate", dim)
	putString(screen, info, 11, "Space drop", dim)
	putString(screen, info, 12, "Esc quit", dim)

	screen.Show()
}

// ceilingRow is the lowest level whose bottom is at or above height.
func ceilingRow(height float64) int {
	return int(math.Ceil(height))
}
