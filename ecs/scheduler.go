package ecs

import (
	"context"
	"reflect"
	"time"
)

// storageBinder is implemented by the accessor fields a system declares,
// Query and Singleton. Register binds them to the scheduler's storage.
type storageBinder interface {
	Init(storage *Storage)
}

type scheduledSystem struct {
	system System
	stats  SystemStats
}

func (e *scheduledSystem) record(d time.Duration) {
	s := &e.stats
	s.ExecutionCount++
	s.LastDuration = d
	s.TotalDuration += d
	if s.ExecutionCount == 1 || d < s.MinDuration {
		s.MinDuration = d
	}
	s.MaxDuration = max(s.MaxDuration, d)
	s.AvgDuration = s.TotalDuration / time.Duration(s.ExecutionCount)
}

// Scheduler runs its systems in registration order, then applies the commands
// they queued, then advances its timers. One such pass is a frame.
type Scheduler struct {
	storage  *Storage
	timers   *Timers
	systems  []*scheduledSystem
	commands *Commands
	frames   uint64
}

// NewScheduler creates a scheduler with no systems for storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage:  storage,
		timers:   NewTimers(),
		commands: newCommands(),
	}
}

// Timers returns the delayed-continuation queue advanced by Once.
func (s *Scheduler) Timers() *Timers {
	return s.timers
}

// Frames returns how many times Once has run.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// Register appends system and binds its exported Query and Singleton fields to
// the scheduler's storage.
func (s *Scheduler) Register(system System) {
	s.bindFields(system)

	name := reflect.TypeOf(system)
	if name.Kind() == reflect.Pointer {
		name = name.Elem()
	}
	s.systems = append(s.systems, &scheduledSystem{
		system: system,
		stats:  SystemStats{Name: name.Name()},
	})
}

func (s *Scheduler) bindFields(system System) {
	v := reflect.ValueOf(system)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}

	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}
		if binder, ok := field.Addr().Interface().(storageBinder); ok {
			binder.Init(s.storage)
		}
	}
}

// Once runs one frame of dt seconds: every system, then the command flush,
// then the timers that fall due within dt.
func (s *Scheduler) Once(dt float64) {
	s.frames++
	frame := &UpdateFrame{
		DeltaTime: dt,
		Index:     s.frames,
		Commands:  s.commands,
		Storage:   s.storage,
		Timers:    s.timers,
	}

	for _, entry := range s.systems {
		start := time.Now()
		entry.system.Execute(frame)
		entry.record(time.Since(start))
	}

	s.commands.Flush(s.storage)
	s.timers.Advance(time.Duration(dt * float64(time.Second)))
}

// Run calls Once every interval until ctx is done. Every frame is given the
// nominal interval as its delta, so a late tick does not stretch simulation time.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Once(interval.Seconds())
		}
	}
}

// GetStats returns a copy of the per-system execution statistics.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systems)),
	}
	for i, entry := range s.systems {
		stats.Systems[i] = entry.stats
		stats.TotalExecutions += entry.stats.ExecutionCount
	}
	return stats
}
