package tower

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTowerInsert(t *testing.T) {
	tower := newTestTower()
	shape, _ := ShapeOf(ShapeL)

	id, ok := tower.Insert(PieceInfo{ID: 1, Shape: ShapeL, Offsets: shape.Offsets}, Pose{Origin: Vec3{0.2, 0.4, -0.1}, Yaw: math.Pi/2 + 0.1})
	require.True(t, ok)

	assert.Equal(t, 1, tower.Len())
	assert.Equal(t, 1.0, tower.Height())
	assert.True(t, tower.Occupied(Cell{0, 0, 0}))
	assert.True(t, tower.Occupied(Cell{0, 0, -2}))
	assert.True(t, tower.Occupied(Cell{1, 0, -2}))

	entity, ok := tower.PieceAt(Cell{0, 0, -1})
	assert.True(t, ok)
	assert.Equal(t, id, entity)

	pieces := tower.Pieces()
	require.Len(t, pieces, 1)
	assert.Equal(t, Vec3{0, 0.5, 0}, pieces[0].Pose.Origin)
	assert.Equal(t, math.Pi/2, pieces[0].Pose.Yaw)

	t.Run("overlap refused", func(t *testing.T) {
		_, ok := tower.Insert(PieceInfo{ID: 2, Offsets: []Cell{{}}}, Pose{Origin: Cell{1, 0, -2}.Center()})
		assert.False(t, ok)
		assert.Equal(t, 1, tower.Len())
	})

	t.Run("below ground refused", func(t *testing.T) {
		_, ok := tower.Insert(PieceInfo{ID: 3, Offsets: []Cell{{0, -1, 0}}}, Pose{Origin: Cell{5, 0, 5}.Center()})
		assert.False(t, ok)
	})

	t.Run("offsets are copied", func(t *testing.T) {
		p := tower.Pieces()[0]
		p.Info.Offsets[0] = Cell{9, 9, 9}
		assert.Equal(t, Cell{0, 0, 0}, tower.Pieces()[0].Info.Offsets[0])
		assert.Equal(t, Cell{0, 0, 0}, shape.Offsets[0])
	})
}

func TestTowerPiecesInLandingOrder(t *testing.T) {
	tower := newTestTower()
	for i, x := range []int{5, -3, 0, 2} {
		_, ok := tower.Insert(PieceInfo{ID: PieceID(i + 1), Offsets: []Cell{{}}}, Pose{Origin: Cell{x, 0, 0}.Center()})
		require.True(t, ok)
	}

	var ids []PieceID
	var seqs []uint64
	for _, p := range tower.Pieces() {
		ids = append(ids, p.Info.ID)
		seqs = append(seqs, p.Seq)
	}
	assert.Equal(t, []PieceID{1, 2, 3, 4}, ids)
	assert.IsIncreasing(t, seqs)
}

func TestTowerLevelsAndCells(t *testing.T) {
	tower := newTestTower()
	loadFixture(t, "gap.txtar", tower)

	assert.Equal(t, map[int]int{0: 8, 1: 1, 2: 8, 3: 1}, tower.Levels())
	assert.Equal(t, 4.0, tower.Height())

	cells := tower.Cells()
	assert.Len(t, cells, 18)
	assert.Equal(t, Cell{0, 0, 0}, cells[0])
	assert.Equal(t, Cell{1, 3, 0}, cells[len(cells)-1])
	requireConsistent(t, tower)
}

func TestTowerReset(t *testing.T) {
	tower := newTestTower()
	fx := loadFixture(t, "two_full.txtar", tower)

	removed := tower.reset()
	assert.Len(t, removed, len(fx.pieces))
	assert.Equal(t, 0, tower.Len())
	assert.Equal(t, 0.0, tower.Height())
	assert.False(t, tower.Occupied(Cell{0, 0, 0}))
	assert.Empty(t, tower.Cells())
}
