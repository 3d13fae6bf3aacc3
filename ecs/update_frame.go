package ecs

// UpdateFrame is handed to every system during one Scheduler.Once call.
// Commands queued on it are applied after the last system returns.
type UpdateFrame struct {
	DeltaTime float64
	Index     uint64
	Commands  *Commands
	Storage   *Storage
	Timers    *Timers
}
