package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plus3/towerfall/report"
	"github.com/plus3/towerfall/tower"
)

func steadyConfig(seed uint64) tower.Config {
	cfg := tower.DefaultConfig()
	cfg.Seed = seed
	cfg.Stability.Cap = 0
	cfg.HeightCeiling = 1000
	return cfg
}

func TestAutopilotLandsPieces(t *testing.T) {
	run, err := simulate(steadyConfig(7), 3000, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 3000, run.Ticks)
	assert.False(t, run.Session.GameOver)
	assert.Greater(t, run.Session.Landings, 5)
	assert.Positive(t, run.Session.MaxHeight)
	assert.Len(t, run.TickTime.Samples, 3000)
	assert.LessOrEqual(t, run.TickTime.Min, run.TickTime.Max)
}

func TestAutopilotIsDeterministic(t *testing.T) {
	a, err := simulate(steadyConfig(11), 2000, zap.NewNop())
	require.NoError(t, err)
	b, err := simulate(steadyConfig(11), 2000, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, a.Session.Landings, b.Session.Landings)
	assert.Equal(t, a.Session.Score, b.Session.Score)
	assert.Equal(t, a.Session.LevelsCleared, b.Session.LevelsCleared)
	assert.Equal(t, a.Session.MaxHeight, b.Session.MaxHeight)
	assert.NotEqual(t, a.Session.ID, b.Session.ID)
}

func TestAutopilotIdleWithoutFallingPiece(t *testing.T) {
	game, err := tower.NewGame(steadyConfig(3))
	require.NoError(t, err)
	defer game.Close()

	pilot := newAutopilot(3, spread)
	assert.Equal(t, tower.Input{}, pilot.next(game), "not started")

	game.Start()
	game.HardDrop()
	assert.Equal(t, tower.Input{}, pilot.next(game), "waiting for respawn")
}

func TestSimulateRejectsBadConfig(t *testing.T) {
	cfg := steadyConfig(1)
	cfg.FullLevelCells = 0
	_, err := simulate(cfg, 10, zap.NewNop())
	assert.ErrorIs(t, err, tower.ErrInvalidConfig)
}

func TestReportOfSimulatedRuns(t *testing.T) {
	run, err := simulate(steadyConfig(5), 500, zap.NewNop())
	require.NoError(t, err)

	rep := &report.Report{Title: "Sim", Threshold: 8, Runs: []report.Run{run}}
	var buf bytes.Buffer
	require.NoError(t, rep.Generate(&buf))
	assert.Contains(t, buf.String(), "# Sim")
	assert.Contains(t, buf.String(), "| 5 |")
	assert.Contains(t, buf.String(), "GravitySystem")
}
