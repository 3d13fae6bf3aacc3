package main

import (
	"image/color"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/towerfall/tower"
)

type sprite struct {
	view tower.PieceView
	pose tower.Pose
}

// isoScene keeps the latest pose of every attached piece and draws them as
// shaded cubes.
type isoScene struct {
	pieces map[tower.PieceID]*sprite
	quads  []quad
}

func newIsoScene() *isoScene {
	return &isoScene{pieces: make(map[tower.PieceID]*sprite)}
}

func (s *isoScene) Attach(piece tower.PieceView) {
	piece.Offsets = slices.Clone(piece.Offsets)
	if sp, ok := s.pieces[piece.ID]; ok {
		sp.view = piece
		return
	}
	s.pieces[piece.ID] = &sprite{view: piece}
}

func (s *isoScene) Detach(id tower.PieceID) {
	delete(s.pieces, id)
}

func (s *isoScene) Place(id tower.PieceID, pose tower.Pose) {
	if sp, ok := s.pieces[id]; ok {
		sp.pose = pose
	}
}

var (
	groundColor = color.RGBA{R: 70, G: 76, B: 92, A: 255}
	ghostColor  = color.RGBA{R: 255, G: 255, B: 255, A: 90}
)

func (s *isoScene) draw(screen *ebiten.Image, cam *camera, ghost []tower.Cell) {
	s.drawGround(screen, cam)

	s.quads = s.quads[:0]
	for _, sp := range s.pieces {
		for _, off := range sp.view.Offsets {
			s.quads = append(s.quads, cam.cubeQuads(sp.pose, off, sp.view.Color, 0.96)...)
		}
	}
	sortQuads(s.quads)
	for _, q := range s.quads {
		fillQuad(screen, q)
	}

	for _, c := range ghost {
		outlineCell(screen, cam, c)
	}
}

func (s *isoScene) drawGround(screen *ebiten.Image, cam *camera) {
	const half = 6
	for i := -half; i <= half; i++ {
		f := float64(i) - 0.5
		x0, y0, _ := cam.project(tower.Vec3{X: f, Z: -half - 0.5})
		x1, y1, _ := cam.project(tower.Vec3{X: f, Z: half - 0.5})
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, groundColor, true)
		x0, y0, _ = cam.project(tower.Vec3{X: -half - 0.5, Z: f})
		x1, y1, _ = cam.project(tower.Vec3{X: half - 0.5, Z: f})
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, groundColor, true)
	}
}

func fillQuad(screen *ebiten.Image, q quad) {
	var path vector.Path
	path.MoveTo(float32(q.pts[0].x), float32(q.pts[0].y))
	for _, p := range q.pts[1:] {
		path.LineTo(float32(p.x), float32(p.y))
	}
	path.Close()

	r, g, b := q.color.RGB()
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(color.RGBA{
		R: uint8(float64(r) * q.shade),
		G: uint8(float64(g) * q.shade),
		B: uint8(float64(b) * q.shade),
		A: 255,
	})
	vector.FillPath(screen, &path, &vector.FillOptions{}, op)
}

// outlineCell draws the wireframe of a lattice cell.
func outlineCell(screen *ebiten.Image, cam *camera, c tower.Cell) {
	center := c.Center()
	var pts [8]point
	for i, corner := range cubeCorners {
		x, y, _ := cam.project(center.Add(corner))
		pts[i] = point{x, y}
	}
	for _, e := range cubeEdges {
		a, b := pts[e[0]], pts[e[1]]
		vector.StrokeLine(screen, float32(a.x), float32(a.y), float32(b.x), float32(b.y), 1, ghostColor, true)
	}
}

var cubeEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}
