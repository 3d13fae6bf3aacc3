package tower

import "fmt"

// ShapeKind names a catalog shape.
type ShapeKind uint8

const (
	ShapeI ShapeKind = iota
	ShapeO
	ShapeT
	ShapeL
	ShapeJ
	ShapeS
	ShapeZ
	// ShapeCustom marks shapes built outside the standard catalog.
	ShapeCustom
)

var shapeNames = [...]string{"I", "O", "T", "L", "J", "S", "Z", "custom"}

func (k ShapeKind) String() string {
	if int(k) < len(shapeNames) {
		return shapeNames[k]
	}
	return fmt.Sprintf("ShapeKind(%d)", uint8(k))
}

// PieceShape is an ordered set of cell offsets relative to the piece origin.
type PieceShape struct {
	Kind    ShapeKind
	Offsets []Cell
}

// Catalog is the standard set of flat four-cell shapes.
var Catalog = []PieceShape{
	{ShapeI, []Cell{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}},
	{ShapeO, []Cell{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}, {1, 0, 1}}},
	{ShapeT, []Cell{{1, 0, 0}, {0, 0, 0}, {2, 0, 0}, {1, 0, 1}}},
	{ShapeL, []Cell{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {2, 0, 1}}},
	{ShapeJ, []Cell{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {0, 0, 1}}},
	{ShapeS, []Cell{{1, 0, 0}, {2, 0, 0}, {0, 0, 1}, {1, 0, 1}}},
	{ShapeZ, []Cell{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {2, 0, 1}}},
}

// ShapeOf returns the catalog entry for kind.
func ShapeOf(kind ShapeKind) (PieceShape, bool) {
	for _, s := range Catalog {
		if s.Kind == kind {
			return s, true
		}
	}
	return PieceShape{}, false
}

// Color is a 0xRRGGBB value.
type Color uint32

// RGB splits the color into its channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c))
}

// Palette is the fixed set of piece colors.
var Palette = []Color{0xff4444, 0x44ff44, 0x4444ff, 0xffff44, 0xff44ff}
