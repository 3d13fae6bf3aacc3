package tower

import "github.com/plus3/towerfall/ecs"

// Input is the state of the player's controls for one tick.
type Input struct {
	MoveLeft    bool
	MoveRight   bool
	MoveForward bool
	MoveBack    bool
	RotateCW    bool
	RotateCCW   bool
	HardDrop    bool
	Restart     bool

	// CameraActive is held while the player is moving the camera.
	CameraActive bool
}

type fallingEntity struct {
	*PieceInfo
	*Pose
	*Falling
}

type placedEntity struct {
	*PieceInfo
	*Pose
}

// ControlSystem applies the tick's lateral and rotation input to the falling
// piece and queues a hard drop. A step that would collide is dropped.
type ControlSystem struct {
	Pieces ecs.Query[fallingEntity]
	Input  ecs.Singleton[Input]
	Config ecs.Singleton[Config]

	tower    *Tower
	resolver CollisionResolver
	land     func()
}

func (s *ControlSystem) Execute(frame *ecs.UpdateFrame) {
	in, cfg := s.Input.Get(), s.Config.Get()

	for _, p := range s.Pieces.Iter() {
		if p.Falling.Settling {
			continue
		}

		var dx, dz, yaw float64
		if in.MoveLeft {
			dx -= cfg.MoveStep
		}
		if in.MoveRight {
			dx += cfg.MoveStep
		}
		if in.MoveForward {
			dz -= cfg.MoveStep
		}
		if in.MoveBack {
			dz += cfg.MoveStep
		}
		if in.RotateCCW {
			yaw += cfg.RotateStep
		}
		if in.RotateCW {
			yaw -= cfg.RotateStep
		}

		s.try(p, func(pose *Pose) { pose.Origin.X += dx }, dx != 0)
		s.try(p, func(pose *Pose) { pose.Origin.Z += dz }, dz != 0)
		s.try(p, func(pose *Pose) { pose.Yaw += yaw }, yaw != 0)

		if in.HardDrop {
			p.Falling.Settling = true
			frame.Commands.Defer(s.land)
		}
	}
}

func (s *ControlSystem) try(p fallingEntity, step func(*Pose), moved bool) {
	if !moved {
		return
	}
	next := *p.Pose
	step(&next)
	if !s.resolver.Colliding(next.CellCenters(p.Offsets), s.tower) {
		*p.Pose = next
	}
}

// GravitySystem lowers the falling piece once per tick and queues its landing
// at the first tick where the next step would touch the ground or the tower.
type GravitySystem struct {
	Pieces ecs.Query[fallingEntity]
	Input  ecs.Singleton[Input]
	Config ecs.Singleton[Config]

	tower    *Tower
	resolver CollisionResolver
	land     func()
}

func (s *GravitySystem) Execute(frame *ecs.UpdateFrame) {
	in, cfg := s.Input.Get(), s.Config.Get()

	speed := cfg.BaseDropSpeed
	if in.CameraActive {
		speed *= cfg.CameraSlowFactor
	}

	for _, p := range s.Pieces.Iter() {
		if p.Falling.Settling {
			continue
		}
		p.Falling.Speed = speed

		next := *p.Pose
		next.Origin.Y -= speed
		if s.resolver.Colliding(next.CellCenters(p.Offsets), s.tower) {
			p.Falling.Settling = true
			frame.Commands.Defer(s.land)
			continue
		}
		*p.Pose = next
		p.Falling.Ticks++
	}
}

// SceneSystem pushes every piece's pose to the scene.
type SceneSystem struct {
	Pieces ecs.Query[placedEntity]

	scene Scene
}

func (s *SceneSystem) Execute(frame *ecs.UpdateFrame) {
	for _, p := range s.Pieces.Iter() {
		s.scene.Place(p.ID, *p.Pose)
	}
}
