package main

import (
	"math"
	"math/rand/v2"

	"github.com/plus3/towerfall/tower"
)

// patience is how many ticks the autopilot steers one piece before it gives
// up on its target and drops the piece where it is.
const patience = 240

// autopilot plays by picking a random column and rotation for every new piece,
// steering toward it one step per tick and hard-dropping on arrival.
type autopilot struct {
	rng    *rand.Rand
	spread int

	piece  tower.PieceID
	active bool
	target tower.Vec3
	yaw    float64
	ticks  int
}

func newAutopilot(seed uint64, spread int) *autopilot {
	return &autopilot{rng: rand.New(rand.NewPCG(seed, 4)), spread: spread}
}

func (a *autopilot) next(g *tower.Game) tower.Input {
	if g.Phase() == tower.PhaseGameOver {
		return tower.Input{}
	}
	p, ok := g.Falling()
	if !ok || p.Falling.Settling {
		return tower.Input{}
	}
	if !a.active || p.Info.ID != a.piece {
		a.pick(p)
	}
	a.ticks++

	cfg := g.Config()
	var in tower.Input
	dx := a.target.X - p.Pose.Origin.X
	dz := a.target.Z - p.Pose.Origin.Z
	dyaw := a.yaw - p.Pose.Yaw
	switch {
	case dx <= -cfg.MoveStep/2:
		in.MoveLeft = true
	case dx >= cfg.MoveStep/2:
		in.MoveRight = true
	}
	switch {
	case dz <= -cfg.MoveStep/2:
		in.MoveForward = true
	case dz >= cfg.MoveStep/2:
		in.MoveBack = true
	}
	switch {
	case dyaw >= cfg.RotateStep/2:
		in.RotateCCW = true
	case dyaw <= -cfg.RotateStep/2:
		in.RotateCW = true
	}

	arrived := !in.MoveLeft && !in.MoveRight && !in.MoveForward && !in.MoveBack && !in.RotateCCW && !in.RotateCW
	if arrived || a.ticks >= patience {
		return tower.Input{HardDrop: true}
	}
	return in
}

func (a *autopilot) pick(p tower.FallingPiece) {
	a.piece = p.Info.ID
	a.active = true
	a.ticks = 0
	a.target = tower.Vec3{
		X: float64(a.rng.IntN(2*a.spread+1) - a.spread),
		Z: float64(a.rng.IntN(2*a.spread+1) - a.spread),
	}
	a.yaw = p.Pose.Yaw + float64(a.rng.IntN(4))*math.Pi/2
}
