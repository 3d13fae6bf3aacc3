package tower

import "math"

// Occupancy answers whether a lattice cell is taken by a landed piece.
type Occupancy interface {
	Occupied(c Cell) bool
}

// CollisionResolver tests falling cells against the ground and the tower.
// Two cells touch when all three axis distances are below reach; the ground is
// touched when a cell centre is at or below half a unit.
type CollisionResolver struct {
	reach float64
}

// NewCollisionResolver returns a resolver treating cells closer than
// tolerance*Unit on every axis as touching.
func NewCollisionResolver(tolerance float64) CollisionResolver {
	return CollisionResolver{reach: tolerance * Unit}
}

// Colliding reports whether any of the cell centres touches the ground or the tower.
func (r CollisionResolver) Colliding(cells []Vec3, occ Occupancy) bool {
	return r.HitsGround(cells) || r.HitsTower(cells, occ)
}

func (r CollisionResolver) HitsGround(cells []Vec3) bool {
	for _, c := range cells {
		if c.Y <= Unit/2 {
			return true
		}
	}
	return false
}

// HitsTower only inspects the 27 lattice cells around each falling cell, since
// nothing farther away can be within reach.
func (r CollisionResolver) HitsTower(cells []Vec3, occ Occupancy) bool {
	for _, c := range cells {
		base := CellAt(c)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					n := Cell{base.X + dx, base.Y + dy, base.Z + dz}
					if !occ.Occupied(n) {
						continue
					}
					center := n.Center()
					if math.Abs(c.X-center.X) < r.reach &&
						math.Abs(c.Y-center.Y) < r.reach &&
						math.Abs(c.Z-center.Z) < r.reach {
						return true
					}
				}
			}
		}
	}
	return false
}

// Settle finds where a piece released at pose comes to rest. The piece is
// snapped to the lattice, lifted to the first free level at or above its
// current height, then lowered while the level below is free and above ground.
// Gravity landings and hard drops both end here.
func (r CollisionResolver) Settle(offsets []Cell, pose Pose, occ Occupancy) (Pose, []Cell) {
	_, origin, turns := snapPose(pose)

	minY := 0
	for i, o := range offsets {
		if y := rotateCell(o, turns).Y; i == 0 || y < minY {
			minY = y
		}
	}

	free := func(level int) bool {
		if level+minY < 0 {
			return false
		}
		for _, c := range latticeCells(offsets, Cell{origin.X, level, origin.Z}, turns) {
			if occ.Occupied(c) {
				return false
			}
		}
		return true
	}

	level := int(math.Ceil(pose.Origin.Y/Unit - 0.5 - 1e-9))
	if level+minY < 0 {
		level = -minY
	}
	for !free(level) {
		level++
	}
	for free(level - 1) {
		level--
	}

	origin.Y = level
	return Pose{Origin: origin.Center(), Yaw: float64(turns) * math.Pi / 2}, latticeCells(offsets, origin, turns)
}
