package tower

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig is wrapped by every error Config.Validate returns.
var ErrInvalidConfig = errors.New("invalid config")

// StabilityMode selects how the collapse probability grows with height.
type StabilityMode uint8

const (
	// StabilityScaled uses min(height*PerUnit, Cap) above SafeHeight.
	StabilityScaled StabilityMode = iota
	// StabilityFlat uses Cap above SafeHeight.
	StabilityFlat
)

func (m StabilityMode) String() string {
	switch m {
	case StabilityScaled:
		return "scaled"
	case StabilityFlat:
		return "flat"
	}
	return fmt.Sprintf("StabilityMode(%d)", uint8(m))
}

// StabilityConfig tunes the collapse roll made after every landing.
type StabilityConfig struct {
	Mode       StabilityMode
	SafeHeight float64
	PerUnit    float64
	Cap        float64
}

// Config holds every tunable of a game. Start from DefaultConfig and override fields.
type Config struct {
	// Seed feeds the piece, stability and scatter random streams.
	Seed uint64

	SpawnClearance   float64
	BaseDropSpeed    float64 // units per tick
	CameraSlowFactor float64
	MoveStep         float64 // units per tick while a move key is held
	RotateStep       float64 // radians per tick while a rotate key is held

	// Tolerance is the fraction of Unit below which two cells count as touching.
	Tolerance float64

	FullLevelCells int
	LevelBonus     int
	HeightCeiling  float64

	Stability StabilityConfig

	RespawnDelay    time.Duration
	CollapseDelay   time.Duration
	CollapseStagger time.Duration
	ScatterRadius   float64
}

// DefaultConfig returns the settings the game ships with.
func DefaultConfig() Config {
	return Config{
		Seed:             1,
		SpawnClearance:   15,
		BaseDropSpeed:    0.03,
		CameraSlowFactor: 1.0 / 3.0,
		MoveStep:         0.1,
		RotateStep:       0.1,
		Tolerance:        0.95,
		FullLevelCells:   8,
		LevelBonus:       100,
		HeightCeiling:    18,
		Stability: StabilityConfig{
			Mode:       StabilityScaled,
			SafeHeight: 2,
			PerUnit:    0.02,
			Cap:        0.15,
		},
		RespawnDelay:    800 * time.Millisecond,
		CollapseDelay:   2 * time.Second,
		CollapseStagger: 100 * time.Millisecond,
		ScatterRadius:   1.5,
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"SpawnClearance", c.SpawnClearance},
		{"BaseDropSpeed", c.BaseDropSpeed},
		{"CameraSlowFactor", c.CameraSlowFactor},
		{"Tolerance", c.Tolerance},
		{"HeightCeiling", c.HeightCeiling},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%s must be positive and finite, got %v: %w", p.name, p.value, ErrInvalidConfig)
		}
	}

	switch {
	case c.CameraSlowFactor > 1:
		return fmt.Errorf("CameraSlowFactor must not exceed 1, got %v: %w", c.CameraSlowFactor, ErrInvalidConfig)
	case c.Tolerance > 1:
		return fmt.Errorf("Tolerance must not exceed 1, got %v: %w", c.Tolerance, ErrInvalidConfig)
	case c.BaseDropSpeed >= Unit:
		return fmt.Errorf("BaseDropSpeed must be below one unit per tick, got %v: %w", c.BaseDropSpeed, ErrInvalidConfig)
	case c.MoveStep < 0 || c.MoveStep >= Unit:
		return fmt.Errorf("MoveStep must be in [0, 1), got %v: %w", c.MoveStep, ErrInvalidConfig)
	case c.RotateStep < 0 || c.RotateStep > math.Pi/2:
		return fmt.Errorf("RotateStep must be in [0, π/2], got %v: %w", c.RotateStep, ErrInvalidConfig)
	case c.FullLevelCells < 1:
		return fmt.Errorf("FullLevelCells must be at least 1, got %d: %w", c.FullLevelCells, ErrInvalidConfig)
	case c.LevelBonus < 0:
		return fmt.Errorf("LevelBonus must not be negative, got %d: %w", c.LevelBonus, ErrInvalidConfig)
	case c.RespawnDelay < 0 || c.CollapseDelay < 0 || c.CollapseStagger < 0:
		return fmt.Errorf("delays must not be negative: %w", ErrInvalidConfig)
	case c.ScatterRadius < 0:
		return fmt.Errorf("ScatterRadius must not be negative, got %v: %w", c.ScatterRadius, ErrInvalidConfig)
	}

	s := c.Stability
	switch {
	case s.Mode != StabilityScaled && s.Mode != StabilityFlat:
		return fmt.Errorf("unknown stability mode %v: %w", s.Mode, ErrInvalidConfig)
	case s.Cap < 0 || s.Cap > 1:
		return fmt.Errorf("Stability.Cap must be in [0, 1], got %v: %w", s.Cap, ErrInvalidConfig)
	case s.PerUnit < 0:
		return fmt.Errorf("Stability.PerUnit must not be negative, got %v: %w", s.PerUnit, ErrInvalidConfig)
	case s.SafeHeight < 0:
		return fmt.Errorf("Stability.SafeHeight must not be negative, got %v: %w", s.SafeHeight, ErrInvalidConfig)
	}
	return nil
}
