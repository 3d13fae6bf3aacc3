package tower

import (
	"slices"

	"github.com/plus3/towerfall/ecs"
)

// ClearResult describes what one evaluation removed and moved.
type ClearResult struct {
	Levels []int // cleared levels, ascending, as they were before compaction

	Removed  []PieceID // pieces that lost every cell
	Reshaped []PieceID // pieces that lost some cells
	Moved    []PieceID // surviving pieces whose pose changed
}

// Count returns the number of cleared levels.
func (r ClearResult) Count() int {
	return len(r.Levels)
}

// LineClearEngine removes full levels from a tower and compacts what is above.
type LineClearEngine struct {
	Threshold int // landed cells needed for a level to count as full
}

// FullLevels returns the levels whose cell count meets the threshold, ascending.
func (e LineClearEngine) FullLevels(t *Tower) []int {
	var full []int
	for level, n := range t.Levels() {
		if n >= e.Threshold {
			full = append(full, level)
		}
	}
	slices.Sort(full)
	return full
}

// Evaluate clears every full level in a single pass. Each surviving cell drops
// by the number of cleared levels beneath it, so simultaneous clears never
// shift a cell twice. Without a full level the tower is left untouched.
func (e LineClearEngine) Evaluate(t *Tower) ClearResult {
	full := e.FullLevels(t)
	if len(full) == 0 {
		return ClearResult{}
	}

	isFull := make(map[int]bool, len(full))
	for _, level := range full {
		isFull[level] = true
	}
	drop := func(level int) int {
		n := 0
		for _, f := range full {
			if f < level {
				n++
			}
		}
		return n
	}

	result := ClearResult{Levels: full}
	var dead []ecs.EntityId

	for _, p := range t.Pieces() {
		info := ecs.ReadComponent[PieceInfo](t.storage, p.Entity)
		pose := ecs.ReadComponent[Pose](t.storage, p.Entity)
		landed := ecs.ReadComponent[Landed](t.storage, p.Entity)
		if info == nil || pose == nil || landed == nil {
			continue
		}

		kept := make([]Cell, 0, len(p.Cells))
		lost := false
		lowest, lowestDrop := 0, 0
		for _, c := range p.Cells {
			if isFull[c.Y] {
				lost = true
				continue
			}
			d := drop(c.Y)
			if len(kept) == 0 || c.Y < lowest {
				lowest, lowestDrop = c.Y, d
			}
			kept = append(kept, Cell{c.X, c.Y - d, c.Z})
		}

		switch {
		case len(kept) == 0:
			dead = append(dead, p.Entity)
			result.Removed = append(result.Removed, p.Info.ID)
			continue
		case lost:
			result.Reshaped = append(result.Reshaped, p.Info.ID)
		case slices.Equal(kept, p.Cells):
			continue
		}

		if lost {
			// Rest the origin on the lowest surviving cell.
			pose.Origin.Y = (float64(lowest-lowestDrop) + 0.5) * Unit
		} else {
			pose.Origin.Y -= float64(lowestDrop) * Unit
		}
		landed.Cells = kept
		info.Offsets = relativeOffsets(kept, *pose)
		result.Moved = append(result.Moved, p.Info.ID)
	}

	for _, id := range dead {
		t.storage.Delete(id)
	}
	t.reindex()
	return result
}

// relativeOffsets expresses lattice cells as offsets from pose's origin cell
// in the piece's unrotated frame.
func relativeOffsets(cells []Cell, pose Pose) []Cell {
	_, origin, turns := snapPose(pose)
	offsets := make([]Cell, len(cells))
	for i, c := range cells {
		offsets[i] = rotateCell(Cell{c.X - origin.X, c.Y - origin.Y, c.Z - origin.Z}, -turns)
	}
	return offsets
}
