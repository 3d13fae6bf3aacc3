package tower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMachineTransitions(t *testing.T) {
	all := []Phase{PhaseSpawning, PhaseFalling, PhaseLanded, PhaseClearing, PhaseCollapsing, PhaseGameOver}
	legal := map[Transition]bool{
		{PhaseSpawning, PhaseFalling}:    true,
		{PhaseFalling, PhaseLanded}:      true,
		{PhaseLanded, PhaseClearing}:     true,
		{PhaseClearing, PhaseLanded}:     true,
		{PhaseLanded, PhaseCollapsing}:   true,
		{PhaseLanded, PhaseGameOver}:     true,
		{PhaseLanded, PhaseSpawning}:     true,
		{PhaseCollapsing, PhaseGameOver}: true,
		{PhaseGameOver, PhaseSpawning}:   true,
	}

	for _, from := range all {
		for _, to := range all {
			tr := Transition{from, to}
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				m := NewStateMachine(nil)
				m.phase = from

				ok := m.Transition(to)
				assert.Equal(t, legal[tr], ok)
				if ok {
					assert.Equal(t, to, m.Phase())
					assert.Equal(t, []Transition{tr}, m.History())
				} else {
					assert.Equal(t, from, m.Phase())
					assert.Empty(t, m.History())
				}
			})
		}
	}
}

func TestStateMachineGameOverIsTerminal(t *testing.T) {
	m := NewStateMachine(nil)
	require.True(t, m.Transition(PhaseFalling))
	require.True(t, m.Transition(PhaseLanded))
	require.True(t, m.Transition(PhaseGameOver))

	for _, next := range []Phase{PhaseFalling, PhaseLanded, PhaseClearing, PhaseCollapsing, PhaseGameOver} {
		assert.False(t, m.Transition(next))
	}
	assert.True(t, m.Transition(PhaseSpawning))
}

func TestStateMachineHistoryLimit(t *testing.T) {
	m := NewStateMachine(nil)
	for range historyLimit {
		m.Transition(PhaseFalling)
		m.Transition(PhaseLanded)
		m.Transition(PhaseSpawning)
	}

	history := m.History()
	assert.Len(t, history, historyLimit)
	assert.Equal(t, Transition{PhaseLanded, PhaseSpawning}, history[len(history)-1])
}
