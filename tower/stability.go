package tower

import (
	"math"
	"math/rand/v2"
)

// StabilityModel rolls whether the tower survives a landing.
type StabilityModel struct {
	cfg StabilityConfig
	rng *rand.Rand

	rolls     int
	collapses int
}

func NewStabilityModel(cfg StabilityConfig, rng *rand.Rand) *StabilityModel {
	return &StabilityModel{cfg: cfg, rng: rng}
}

// Chance returns the collapse probability at the given tower height.
// It never decreases as height grows and never exceeds Cap.
func (m *StabilityModel) Chance(height float64) float64 {
	if height <= m.cfg.SafeHeight {
		return 0
	}
	if m.cfg.Mode == StabilityFlat {
		return m.cfg.Cap
	}
	return math.Min(height*m.cfg.PerUnit, m.cfg.Cap)
}

// Evaluate makes the single roll for a landing and reports whether the tower stays up.
// It always draws from the random source so a seeded game replays identically.
func (m *StabilityModel) Evaluate(height float64) bool {
	m.rolls++
	stable := m.rng.Float64() >= m.Chance(height)
	if !stable {
		m.collapses++
	}
	return stable
}

// Rolls returns how many landings were evaluated and how many collapsed.
func (m *StabilityModel) Rolls() (rolls, collapses int) {
	return m.rolls, m.collapses
}
