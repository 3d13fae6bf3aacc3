package tower

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Phase is a state of the game state machine.
type Phase uint8

const (
	PhaseSpawning Phase = iota
	PhaseFalling
	PhaseLanded
	PhaseClearing
	PhaseCollapsing
	PhaseGameOver
)

var phaseNames = [...]string{"spawning", "falling", "landed", "clearing", "collapsing", "game-over"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// A landed game waiting out the respawn delay stays in PhaseLanded.
var transitions = map[Phase][]Phase{
	PhaseSpawning:   {PhaseFalling},
	PhaseFalling:    {PhaseLanded},
	PhaseLanded:     {PhaseClearing, PhaseCollapsing, PhaseGameOver, PhaseSpawning},
	PhaseClearing:   {PhaseLanded},
	PhaseCollapsing: {PhaseGameOver},
	PhaseGameOver:   {PhaseSpawning},
}

// Transition records one phase change.
type Transition struct {
	From, To Phase
}

const historyLimit = 64

// StateMachine holds the current phase and rejects transitions outside the table.
type StateMachine struct {
	phase   Phase
	history []Transition
	log     *zap.Logger
}

func NewStateMachine(log *zap.Logger) *StateMachine {
	if log == nil {
		log = zap.NewNop()
	}
	return &StateMachine{phase: PhaseSpawning, log: log}
}

func (m *StateMachine) Phase() Phase {
	return m.phase
}

// CanTransition reports whether moving to next is allowed from the current phase.
func (m *StateMachine) CanTransition(next Phase) bool {
	return slices.Contains(transitions[m.phase], next)
}

// Transition moves to next if allowed. An illegal request leaves the phase
// unchanged and returns false.
func (m *StateMachine) Transition(next Phase) bool {
	if !m.CanTransition(next) {
		m.log.Debug("rejected phase transition",
			zap.Stringer("from", m.phase),
			zap.Stringer("to", next))
		return false
	}

	if len(m.history) == historyLimit {
		m.history = append(m.history[:0], m.history[1:]...)
	}
	m.history = append(m.history, Transition{From: m.phase, To: next})
	m.phase = next
	return true
}

// History returns the most recent transitions, oldest first.
func (m *StateMachine) History() []Transition {
	return slices.Clone(m.history)
}
