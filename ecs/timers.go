package ecs

import (
	"sort"
	"time"
)

// TimerId identifies a scheduled continuation. The zero value never refers to a timer.
type TimerId uint64

type timer struct {
	id  TimerId
	due time.Duration
	fn  func()
}

// Timers runs fire-once continuations after a delay measured in simulation
// time. Time only moves when Advance is called, normally once per frame by the
// Scheduler, so continuations are deterministic and never run concurrently
// with systems.
type Timers struct {
	now     time.Duration
	nextId  TimerId
	pending []timer
	firing  bool

	// due continuations of the running Advance that have not fired yet
	inflight map[TimerId]bool
}

// NewTimers creates an empty timer queue at simulation time zero.
func NewTimers() *Timers {
	return &Timers{}
}

// Now returns the current simulation time.
func (t *Timers) Now() time.Duration {
	return t.now
}

// After schedules fn to run once, delay after the current simulation time.
// A continuation scheduled while timers are firing runs on a later Advance,
// even with a zero delay.
func (t *Timers) After(delay time.Duration, fn func()) TimerId {
	if delay < 0 {
		delay = 0
	}
	t.nextId++
	t.pending = append(t.pending, timer{id: t.nextId, due: t.now + delay, fn: fn})
	return t.nextId
}

// Cancel removes a pending continuation. Returns false if it already ran or was cancelled.
func (t *Timers) Cancel(id TimerId) bool {
	if t.inflight[id] {
		delete(t.inflight, id)
		return true
	}
	for i, tm := range t.pending {
		if tm.id == id {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			return true
		}
	}
	return false
}

// CancelAll drops every pending continuation and returns how many were dropped.
func (t *Timers) CancelAll() int {
	n := len(t.pending) + len(t.inflight)
	t.pending = nil
	clear(t.inflight)
	return n
}

// Pending returns the number of scheduled continuations.
func (t *Timers) Pending() int {
	return len(t.pending) + len(t.inflight)
}

// Scheduled reports whether id is still waiting to run.
func (t *Timers) Scheduled(id TimerId) bool {
	if t.inflight[id] {
		return true
	}
	for _, tm := range t.pending {
		if tm.id == id {
			return true
		}
	}
	return false
}

// Advance moves simulation time forward by dt and runs every continuation that
// became due, earliest first, ties in scheduling order.
func (t *Timers) Advance(dt time.Duration) int {
	if t.firing {
		panic("Timers.Advance called from a timer continuation")
	}
	if dt > 0 {
		t.now += dt
	}

	var due []timer
	kept := t.pending[:0]
	for _, tm := range t.pending {
		if tm.due <= t.now {
			due = append(due, tm)
		} else {
			kept = append(kept, tm)
		}
	}
	t.pending = kept
	if len(due) == 0 {
		return 0
	}

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].id < due[j].id
	})

	t.inflight = make(map[TimerId]bool, len(due))
	for _, tm := range due {
		t.inflight[tm.id] = true
	}
	t.firing = true
	defer func() {
		t.firing = false
		t.inflight = nil
	}()

	fired := 0
	for _, tm := range due {
		// An earlier continuation in this batch may have cancelled this one.
		if !t.inflight[tm.id] {
			continue
		}
		delete(t.inflight, tm.id)
		tm.fn()
		fired++
	}
	return fired
}
