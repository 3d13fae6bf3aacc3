package tower

import (
	"math/rand/v2"
	"slices"
)

// PieceFactory builds falling pieces from a shape catalog and a palette.
type PieceFactory struct {
	rng       *rand.Rand
	catalog   []PieceShape
	palette   []Color
	clearance float64
	lastID    PieceID
}

// NewPieceFactory returns a factory over the standard Catalog and Palette.
// Pieces spawn clearance units above the tower.
func NewPieceFactory(rng *rand.Rand, clearance float64) *PieceFactory {
	return &PieceFactory{
		rng:       rng,
		catalog:   Catalog,
		palette:   Palette,
		clearance: clearance,
	}
}

// SetCatalog replaces the shapes the factory draws from. Empty keeps the current catalog.
func (f *PieceFactory) SetCatalog(shapes ...PieceShape) {
	if len(shapes) > 0 {
		f.catalog = shapes
	}
}

// SetPalette replaces the colors the factory draws from. Empty keeps the current palette.
func (f *PieceFactory) SetPalette(colors ...Color) {
	if len(colors) > 0 {
		f.palette = colors
	}
}

// CreatePiece picks a shape and a color uniformly at random and places the
// piece above a tower of the given height, unrotated.
func (f *PieceFactory) CreatePiece(towerHeight float64) Piece {
	shape := f.catalog[f.rng.IntN(len(f.catalog))]
	color := f.palette[f.rng.IntN(len(f.palette))]
	f.lastID++

	return Piece{
		Info: PieceInfo{
			ID:      f.lastID,
			Shape:   shape.Kind,
			Color:   color,
			Offsets: slices.Clone(shape.Offsets),
		},
		Pose: Pose{Origin: Vec3{0, towerHeight + f.clearance, 0}},
	}
}

// Created returns how many pieces the factory has built.
func (f *PieceFactory) Created() int {
	return int(f.lastID)
}
