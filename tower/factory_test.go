package tower

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreatePiece(t *testing.T) {
	f := NewPieceFactory(rand.New(rand.NewPCG(1, 1)), 15)

	p := f.CreatePiece(3)
	assert.Equal(t, PieceID(1), p.Info.ID)
	assert.Equal(t, Vec3{0, 18, 0}, p.Pose.Origin)
	assert.Zero(t, p.Pose.Yaw)
	assert.Len(t, p.Info.Offsets, 4)
	assert.Contains(t, Palette, p.Info.Color)

	shape, ok := ShapeOf(p.Info.Shape)
	assert.True(t, ok)
	assert.Equal(t, shape.Offsets, p.Info.Offsets)

	p.Info.Offsets[0] = Cell{9, 9, 9}
	shape, _ = ShapeOf(p.Info.Shape)
	assert.NotEqual(t, Cell{9, 9, 9}, shape.Offsets[0])

	assert.Equal(t, PieceID(2), f.CreatePiece(0).Info.ID)
	assert.Equal(t, 2, f.Created())
}

func TestCreatePieceCoversCatalogAndPalette(t *testing.T) {
	f := NewPieceFactory(rand.New(rand.NewPCG(3, 1)), 15)

	shapes := make(map[ShapeKind]int)
	colors := make(map[Color]int)
	const draws = 7000
	for range draws {
		p := f.CreatePiece(0)
		shapes[p.Info.Shape]++
		colors[p.Info.Color]++
	}

	assert.Len(t, shapes, len(Catalog))
	for kind, n := range shapes {
		want := float64(draws) / float64(len(Catalog))
		assert.InDelta(t, want, float64(n), want/4, "shape %v", kind)
	}
	assert.Len(t, colors, len(Palette))
}

func TestCreatePieceSeeded(t *testing.T) {
	a := NewPieceFactory(rand.New(rand.NewPCG(99, 1)), 15)
	b := NewPieceFactory(rand.New(rand.NewPCG(99, 1)), 15)

	for range 50 {
		pa, pb := a.CreatePiece(0), b.CreatePiece(0)
		assert.Equal(t, pa.Info, pb.Info)
	}
}

func TestFactoryOverrides(t *testing.T) {
	f := NewPieceFactory(rand.New(rand.NewPCG(1, 1)), 5)
	f.SetCatalog(PieceShape{Kind: ShapeCustom, Offsets: []Cell{{}}})
	f.SetPalette(0x123456)
	f.SetCatalog()

	p := f.CreatePiece(0)
	assert.Equal(t, ShapeCustom, p.Info.Shape)
	assert.Equal(t, Color(0x123456), p.Info.Color)
	assert.Equal(t, []Cell{{}}, p.Info.Offsets)
	assert.Equal(t, 5.0, p.Pose.Origin.Y)
}
