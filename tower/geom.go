package tower

import "math"

// Unit is the lattice spacing and the edge length of one cell.
const Unit = 1.0

// Vec3 is a continuous world position.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Cell is a lattice coordinate. Y is the level: the cells of level L have their
// centres at height L + Unit/2, so level 0 rests on the ground and its top
// surface is at height 1.
type Cell struct {
	X, Y, Z int
}

// Center returns the world position of the cell's centre.
func (c Cell) Center() Vec3 {
	return Vec3{float64(c.X) * Unit, (float64(c.Y) + 0.5) * Unit, float64(c.Z) * Unit}
}

// Top returns the height of the cell's top surface.
func (c Cell) Top() float64 {
	return float64(c.Y+1) * Unit
}

// Below returns the cell directly underneath c.
func (c Cell) Below() Cell {
	return Cell{c.X, c.Y - 1, c.Z}
}

// CellAt returns the lattice cell whose volume contains the centre point v.
func CellAt(v Vec3) Cell {
	return Cell{
		X: int(math.Round(v.X / Unit)),
		Y: int(math.Round(v.Y/Unit - 0.5)),
		Z: int(math.Round(v.Z / Unit)),
	}
}

const cellBias = 1 << 20

// key packs the cell into 63 bits for the occupancy index.
func (c Cell) key() uint64 {
	return uint64(c.X+cellBias)<<42 | uint64(c.Y+cellBias)<<21 | uint64(c.Z+cellBias)
}

// rotateY turns v about the vertical axis by yaw radians
// (counter-clockwise seen from above, matching the renderer's convention).
func rotateY(v Vec3, yaw float64) Vec3 {
	sin, cos := math.Sincos(yaw)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// quarterTurns returns yaw rounded to the nearest multiple of π/2, as a count in [0, 4).
func quarterTurns(yaw float64) int {
	n := int(math.Round(yaw / (math.Pi / 2)))
	return ((n % 4) + 4) % 4
}

// rotateCell turns an integer offset by n quarter turns, exactly.
func rotateCell(c Cell, n int) Cell {
	switch ((n % 4) + 4) % 4 {
	case 1:
		return Cell{c.Z, c.Y, -c.X}
	case 2:
		return Cell{-c.X, c.Y, -c.Z}
	case 3:
		return Cell{-c.Z, c.Y, c.X}
	}
	return c
}
