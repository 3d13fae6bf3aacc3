package tower

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/kamstrup/intmap"

	"github.com/plus3/towerfall/ecs"
)

var fallingType = reflect.TypeFor[Falling]()

type landedEntity struct {
	*PieceInfo
	*Pose
	*Landed
}

// LandedPiece is a snapshot of one piece of the tower.
type LandedPiece struct {
	Entity ecs.EntityId
	Info   PieceInfo
	Pose   Pose
	Cells  []Cell
	Seq    uint64
}

// Tower is the ordered collection of landed pieces, backed by the game's
// storage, with a lattice index from cell to owning entity.
type Tower struct {
	storage   *ecs.Storage
	landed    *ecs.Query[landedEntity]
	occupancy *intmap.Map[uint64, ecs.EntityId]
	top       int
	seq       uint64
}

func newTower(storage *ecs.Storage) *Tower {
	return &Tower{
		storage:   storage,
		landed:    ecs.NewQuery[landedEntity](storage),
		occupancy: intmap.New[uint64, ecs.EntityId](256),
	}
}

// Len returns the number of landed pieces.
func (t *Tower) Len() int {
	return t.landed.Len()
}

// Occupied reports whether a landed cell sits at c.
func (t *Tower) Occupied(c Cell) bool {
	_, ok := t.occupancy.Get(c.key())
	return ok
}

// PieceAt returns the entity occupying c.
func (t *Tower) PieceAt(c Cell) (ecs.EntityId, bool) {
	return t.occupancy.Get(c.key())
}

// Height is the highest top surface over all landed cells, 0 when empty.
func (t *Tower) Height() float64 {
	return float64(t.top) * Unit
}

// Pieces returns the landed pieces in landing order.
func (t *Tower) Pieces() []LandedPiece {
	pieces := make([]LandedPiece, 0, t.landed.Len())
	for id, e := range t.landed.Iter() {
		info := *e.PieceInfo
		info.Offsets = slices.Clone(info.Offsets)
		pieces = append(pieces, LandedPiece{
			Entity: id,
			Info:   info,
			Pose:   *e.Pose,
			Cells:  slices.Clone(e.Landed.Cells),
			Seq:    e.Landed.Seq,
		})
	}
	slices.SortFunc(pieces, func(a, b LandedPiece) int {
		return cmp.Compare(a.Seq, b.Seq)
	})
	return pieces
}

// Levels returns the number of landed cells on each occupied level.
func (t *Tower) Levels() map[int]int {
	counts := make(map[int]int)
	for e := range t.landed.Values() {
		for _, c := range e.Landed.Cells {
			counts[c.Y]++
		}
	}
	return counts
}

// Cells returns every landed cell, bottom level first.
func (t *Tower) Cells() []Cell {
	var cells []Cell
	for e := range t.landed.Values() {
		cells = append(cells, e.Landed.Cells...)
	}
	slices.SortFunc(cells, func(a, b Cell) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		if a.Z != b.Z {
			return a.Z - b.Z
		}
		return a.X - b.X
	})
	return cells
}

// Insert adds an already resting piece to the tower, snapping pose to the
// lattice. It refuses pieces that would overlap the tower or sit below ground.
func (t *Tower) Insert(info PieceInfo, pose Pose) (ecs.EntityId, bool) {
	pose, origin, turns := snapPose(pose)
	cells := latticeCells(info.Offsets, origin, turns)
	for _, c := range cells {
		if c.Y < 0 || t.Occupied(c) {
			return 0, false
		}
	}

	info.Offsets = slices.Clone(info.Offsets)
	t.seq++
	id := t.storage.Spawn(info, pose, Landed{Cells: cells, Seq: t.seq})
	t.index(id, cells)
	return id, true
}

// land turns the falling entity id into a landed one resting at pose/cells
// and returns its new id. Settle guarantees the cells are free.
func (t *Tower) land(id ecs.EntityId, pose Pose, cells []Cell) ecs.EntityId {
	t.seq++
	id = t.storage.ReplaceComponent(id, fallingType, Landed{Cells: cells, Seq: t.seq})
	if p := ecs.ReadComponent[Pose](t.storage, id); p != nil {
		*p = pose
	}
	t.index(id, cells)
	return id
}

func (t *Tower) index(id ecs.EntityId, cells []Cell) {
	for _, c := range cells {
		t.occupancy.Put(c.key(), id)
		if c.Y+1 > t.top {
			t.top = c.Y + 1
		}
	}
}

func (t *Tower) reindex() {
	t.occupancy.Clear()
	t.top = 0
	for id, e := range t.landed.Iter() {
		t.index(id, e.Landed.Cells)
	}
}

// reset deletes every landed piece and returns their ids.
func (t *Tower) reset() []PieceID {
	var removed []PieceID
	for _, p := range t.Pieces() {
		removed = append(removed, p.Info.ID)
		t.storage.Delete(p.Entity)
	}
	t.occupancy.Clear()
	t.top = 0
	t.seq = 0
	return removed
}
