package tower

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotateCellMatchesRotateY(t *testing.T) {
	offsets := []Cell{{0, 0, 0}, {1, 0, 0}, {2, 0, 1}, {-1, 0, 3}, {0, 2, -1}}

	for n := -4; n <= 4; n++ {
		t.Run(fmt.Sprintf("turns=%d", n), func(t *testing.T) {
			for _, o := range offsets {
				v := rotateY(Vec3{float64(o.X), float64(o.Y), float64(o.Z)}, float64(n)*math.Pi/2)
				want := Cell{int(math.Round(v.X)), int(math.Round(v.Y)), int(math.Round(v.Z))}
				assert.Equal(t, want, rotateCell(o, n))
			}
		})
	}
}

func TestQuarterTurns(t *testing.T) {
	tests := []struct {
		yaw  float64
		want int
	}{
		{0, 0},
		{0.7, 0},
		{0.8, 1},
		{math.Pi, 2},
		{-0.1, 0},
		{-math.Pi / 2, 3},
		{2 * math.Pi, 0},
		{-5 * math.Pi / 2, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quarterTurns(tt.yaw), "yaw %v", tt.yaw)
	}
}

func TestCellAtCenter(t *testing.T) {
	for _, c := range []Cell{{0, 0, 0}, {3, 7, -2}, {-5, 0, 9}} {
		assert.Equal(t, c, CellAt(c.Center()))
		assert.Equal(t, c, CellAt(c.Center().Add(Vec3{0.3, -0.3, 0.45})))
		assert.Equal(t, float64(c.Y+1), c.Top())
	}
	assert.Equal(t, Vec3{0, 0.5, 0}, Cell{}.Center())
}

func TestCellKeyDistinct(t *testing.T) {
	seen := make(map[uint64]Cell)
	for x := -3; x <= 3; x++ {
		for y := 0; y <= 3; y++ {
			for z := -3; z <= 3; z++ {
				c := Cell{x, y, z}
				prev, dup := seen[c.key()]
				assert.False(t, dup, "%v collides with %v", c, prev)
				seen[c.key()] = c
			}
		}
	}
}

func TestPoseCellCenters(t *testing.T) {
	shape, _ := ShapeOf(ShapeI)
	pose := Pose{Origin: Vec3{1, 10, 2}, Yaw: math.Pi / 2}

	centers := pose.CellCenters(shape.Offsets)
	want := []Vec3{{1, 10, 2}, {1, 10, 1}, {1, 10, 0}, {1, 10, -1}}
	for i := range want {
		assert.InDelta(t, want[i].X, centers[i].X, 1e-9)
		assert.InDelta(t, want[i].Y, centers[i].Y, 1e-9)
		assert.InDelta(t, want[i].Z, centers[i].Z, 1e-9)
	}
}
