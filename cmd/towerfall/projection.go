package main

import (
	"math"
	"sort"

	"github.com/plus3/towerfall/tower"
)

const (
	minCameraHeight = 5
	maxCameraHeight = 20
)

// camera orbits the tower's vertical axis. Height is the world y the view is
// centred on.
type camera struct {
	angle  float64
	height float64
	scale  float64
	cx, cy float64
}

func newCamera() *camera {
	return &camera{angle: math.Pi / 4, height: minCameraHeight, scale: 26}
}

func (c *camera) orbit(dAngle, dHeight float64) {
	c.angle = math.Mod(c.angle+dAngle, 2*math.Pi)
	c.height = min(max(c.height+dHeight, minCameraHeight), maxCameraHeight)
}

// project maps a world point to screen space. depth grows toward the viewer.
func (c *camera) project(v tower.Vec3) (x, y, depth float64) {
	sin, cos := math.Sincos(c.angle)
	rx := v.X*cos - v.Z*sin
	rz := v.X*sin + v.Z*cos
	x = c.cx + rx*c.scale
	y = c.cy + rz*c.scale*0.5 - (v.Y-c.height)*c.scale*0.85
	return x, y, rz + v.Y*0.01
}

// transform places a point given in piece-local coordinates: yaw about the
// vertical axis, then the collapse tilt about x and z.
func transform(pose tower.Pose, local tower.Vec3) tower.Vec3 {
	sin, cos := math.Sincos(pose.Yaw)
	v := tower.Vec3{X: local.X*cos + local.Z*sin, Y: local.Y, Z: -local.X*sin + local.Z*cos}

	if pose.TiltX != 0 {
		s, c := math.Sincos(pose.TiltX)
		v = tower.Vec3{X: v.X, Y: v.Y*c - v.Z*s, Z: v.Y*s + v.Z*c}
	}
	if pose.TiltZ != 0 {
		s, c := math.Sincos(pose.TiltZ)
		v = tower.Vec3{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c, Z: v.Z}
	}
	return v.Add(pose.Origin)
}

type point struct{ x, y float64 }

// quad is one projected cube face, ready to fill.
type quad struct {
	pts   [4]point
	depth float64
	shade float64
	color tower.Color
}

// Cube faces as corner indices, counter-clockwise seen from outside, with the
// light each receives.
var cubeFaces = [6]struct {
	corners [4]int
	shade   float64
}{
	{[4]int{4, 5, 6, 7}, 1.0},  // top
	{[4]int{0, 3, 2, 1}, 0.35}, // bottom
	{[4]int{0, 1, 5, 4}, 0.7},  // -z
	{[4]int{2, 3, 7, 6}, 0.7},  // +z
	{[4]int{1, 2, 6, 5}, 0.85}, // +x
	{[4]int{3, 0, 4, 7}, 0.55}, // -x
}

var cubeCorners = [8]tower.Vec3{
	{X: -0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: -0.5, Z: 0.5}, {X: -0.5, Y: -0.5, Z: 0.5},
	{X: -0.5, Y: 0.5, Z: -0.5}, {X: 0.5, Y: 0.5, Z: -0.5}, {X: 0.5, Y: 0.5, Z: 0.5}, {X: -0.5, Y: 0.5, Z: 0.5},
}

// cubeQuads returns the faces of the unit cube at offset that face the camera.
func (c *camera) cubeQuads(pose tower.Pose, offset tower.Cell, col tower.Color, inset float64) []quad {
	var proj [8]point
	var depth float64
	for i, corner := range cubeCorners {
		local := tower.Vec3{
			X: float64(offset.X) + corner.X*inset,
			Y: float64(offset.Y) + corner.Y*inset,
			Z: float64(offset.Z) + corner.Z*inset,
		}
		x, y, d := c.project(transform(pose, local))
		proj[i] = point{x, y}
		depth += d
	}
	depth /= 8

	quads := make([]quad, 0, 3)
	for _, face := range cubeFaces {
		var q quad
		for i, idx := range face.corners {
			q.pts[i] = proj[idx]
		}
		if !facesViewer(q.pts) {
			continue
		}
		q.depth, q.shade, q.color = depth, face.shade, col
		quads = append(quads, q)
	}
	return quads
}

// facesViewer reports whether the outside of a projected face is toward the
// camera: its signed area keeps the sign the outward winding gives it.
func facesViewer(pts [4]point) bool {
	var area float64
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].x*pts[j].y - pts[j].x*pts[i].y
	}
	return area > 0
}

// sortQuads orders faces back to front.
func sortQuads(quads []quad) {
	sort.SliceStable(quads, func(i, j int) bool { return quads[i].depth < quads[j].depth })
}
