package tower

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero drop speed", func(c *Config) { c.BaseDropSpeed = 0 }},
		{"drop speed of a whole unit", func(c *Config) { c.BaseDropSpeed = 1 }},
		{"slow factor above one", func(c *Config) { c.CameraSlowFactor = 2 }},
		{"negative clearance", func(c *Config) { c.SpawnClearance = -1 }},
		{"tolerance above one", func(c *Config) { c.Tolerance = 1.5 }},
		{"empty level threshold", func(c *Config) { c.FullLevelCells = 0 }},
		{"negative bonus", func(c *Config) { c.LevelBonus = -100 }},
		{"negative delay", func(c *Config) { c.RespawnDelay = -time.Second }},
		{"probability cap above one", func(c *Config) { c.Stability.Cap = 1.5 }},
		{"unknown stability mode", func(c *Config) { c.Stability.Mode = 9 }},
		{"move step too large", func(c *Config) { c.MoveStep = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.ErrorIs(t, err, ErrInvalidConfig)

			game, err := NewGame(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, game)
		})
	}
}
