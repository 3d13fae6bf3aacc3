package tower

import (
	"fmt"
	"math"
)

// PieceID identifies a piece for the lifetime of a game. IDs are never reused.
type PieceID uint32

// PieceState is the variant tag of a piece: an entity holds exactly one of the
// Falling or Landed components.
type PieceState uint8

const (
	StateFalling PieceState = iota
	StateLanded
)

func (s PieceState) String() string {
	switch s {
	case StateFalling:
		return "falling"
	case StateLanded:
		return "landed"
	}
	return fmt.Sprintf("PieceState(%d)", uint8(s))
}

// PieceInfo is the immutable identity of a piece. Offsets only change when a
// line clear removes some of the piece's cells.
type PieceInfo struct {
	ID      PieceID
	Shape   ShapeKind
	Color   Color
	Offsets []Cell
}

// Pose is where a piece is in the world. Origin is the centre of the cell at
// offset (0,0,0). TiltX and TiltZ are only set by a collapse.
type Pose struct {
	Origin Vec3
	Yaw    float64
	TiltX  float64
	TiltZ  float64
}

// CellCenters returns the world centre of every offset under this pose.
func (p Pose) CellCenters(offsets []Cell) []Vec3 {
	centers := make([]Vec3, len(offsets))
	for i, o := range offsets {
		local := Vec3{float64(o.X) * Unit, float64(o.Y) * Unit, float64(o.Z) * Unit}
		centers[i] = rotateY(local, p.Yaw).Add(p.Origin)
	}
	return centers
}

// Falling is the component of a piece under player control.
type Falling struct {
	Speed float64 // last applied drop per tick
	Ticks int

	// Settling is set once a landing has been queued for this piece.
	Settling bool
}

// Landed is the component of a piece that belongs to the tower.
type Landed struct {
	Cells []Cell
	Seq   uint64 // landing order
}

// Piece is a freshly built, not yet spawned, falling piece.
type Piece struct {
	Info PieceInfo
	Pose Pose
}

// View returns what a scene needs to draw the piece.
func (p Piece) View() PieceView {
	return PieceView{ID: p.Info.ID, Shape: p.Info.Shape, Color: p.Info.Color, Offsets: p.Info.Offsets, State: StateFalling}
}

// snapPose returns pose moved onto the lattice: origin at the centre of the
// nearest cell, yaw at the nearest quarter turn.
func snapPose(pose Pose) (Pose, Cell, int) {
	origin := CellAt(pose.Origin)
	turns := quarterTurns(pose.Yaw)
	return Pose{Origin: origin.Center(), Yaw: float64(turns) * math.Pi / 2}, origin, turns
}

// latticeCells places offsets around origin after n quarter turns.
func latticeCells(offsets []Cell, origin Cell, turns int) []Cell {
	cells := make([]Cell, len(offsets))
	for i, o := range offsets {
		r := rotateCell(o, turns)
		cells[i] = Cell{origin.X + r.X, origin.Y + r.Y, origin.Z + r.Z}
	}
	return cells
}
