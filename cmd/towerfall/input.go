package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/towerfall/ecs/debugui"
	"github.com/plus3/towerfall/tower"
)

const (
	// CameraActive stays set this many ticks after the drag ends.
	cameraLingerTicks = 12
	// Two clicks closer than this many ticks are a double click.
	doubleClickTicks = 18

	orbitPerPixel  = 0.01
	heightPerPixel = 0.05
)

// dragTracker turns raw mouse button state into camera drags and double clicks.
// It is kept free of ebiten calls so it can be driven in tests.
type dragTracker struct {
	tick      int
	dragging  bool
	lastX     int
	lastY     int
	releaseAt int
	lastClick int
	moved     bool
}

// update feeds one tick of mouse state. It returns the drag delta, whether the
// camera counts as active and whether a double click completed.
func (d *dragTracker) update(pressed, justPressed bool, x, y int) (dx, dy int, active, double bool) {
	d.tick++

	if justPressed {
		if d.lastClick > 0 && d.tick-d.lastClick < doubleClickTicks {
			double = true
			d.lastClick = 0
		} else {
			d.lastClick = d.tick
		}
		d.dragging = true
		d.moved = false
		d.lastX, d.lastY = x, y
	}

	switch {
	case pressed && d.dragging:
		dx, dy = x-d.lastX, y-d.lastY
		d.lastX, d.lastY = x, y
		if dx != 0 || dy != 0 {
			d.moved = true
		}
	case !pressed && d.dragging:
		d.dragging = false
		d.releaseAt = d.tick
	}

	active = (d.dragging && d.moved) || (d.releaseAt > 0 && d.tick-d.releaseAt < cameraLingerTicks && d.moved)
	return dx, dy, active, double
}

// binding reads the keyboard and mouse into a tower.Input for one tick.
type binding struct {
	cam  *camera
	drag dragTracker
}

func (b *binding) poll(capture debugui.ImguiInputState) tower.Input {
	var in tower.Input

	if !capture.WantCaptureKeyboard {
		in.MoveLeft = ebiten.IsKeyPressed(ebiten.KeyA)
		in.MoveRight = ebiten.IsKeyPressed(ebiten.KeyD)
		in.MoveForward = ebiten.IsKeyPressed(ebiten.KeyW)
		in.MoveBack = ebiten.IsKeyPressed(ebiten.KeyS)
		in.RotateCCW = ebiten.IsKeyPressed(ebiten.KeyQ)
		in.RotateCW = ebiten.IsKeyPressed(ebiten.KeyE)
		in.HardDrop = inpututil.IsKeyJustPressed(ebiten.KeySpace)
		in.Restart = inpututil.IsKeyJustPressed(ebiten.KeyR)
	}

	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	justPressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	if capture.WantCaptureMouse {
		pressed, justPressed = false, false
	}
	x, y := ebiten.CursorPosition()
	dx, dy, active, double := b.drag.update(pressed, justPressed, x, y)

	b.cam.orbit(float64(dx)*orbitPerPixel, float64(dy)*heightPerPixel)
	in.CameraActive = active
	if double {
		in.HardDrop = true
	}
	return in
}
