package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/towerfall/ecs"
	"github.com/plus3/towerfall/tower"
)

func TestTimingFinalize(t *testing.T) {
	var timing Timing
	timing.Finalize()
	assert.Zero(t, timing.Avg)

	for _, d := range []time.Duration{3, 1, 2} {
		timing.Add(d * time.Millisecond)
	}
	timing.Finalize()
	assert.Equal(t, time.Millisecond, timing.Min)
	assert.Equal(t, 3*time.Millisecond, timing.Max)
	assert.Equal(t, 2*time.Millisecond, timing.Avg)
}

func TestSummary(t *testing.T) {
	r := Report{Runs: []Run{
		{Session: tower.Session{Score: 300, MaxHeight: 6, LevelsCleared: 3, GameOver: true, Reason: tower.ReasonCollapse}},
		{Session: tower.Session{Score: 100, MaxHeight: 18, LevelsCleared: 1, GameOver: true, Reason: tower.ReasonHeight}},
		{Session: tower.Session{Score: 0, MaxHeight: 3}},
	}}

	s := r.Summary()
	assert.Equal(t, Summary{
		Runs:          3,
		BestScore:     300,
		MeanScore:     400.0 / 3,
		MeanHeight:    9,
		Collapses:     1,
		HeightLimits:  1,
		Unfinished:    1,
		LevelsCleared: 4,
	}, s)

	assert.Equal(t, Summary{}, (&Report{}).Summary())
}

func TestGenerate(t *testing.T) {
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	r := Report{
		Title:     "Towerfall Simulation Report",
		Threshold: 8,
		Runs: []Run{{
			Seed:    7,
			Ticks:   600,
			Session: tower.Session{ID: id, Score: 200, Landings: 12, LevelsCleared: 2, MaxHeight: 4, GameOver: true, Reason: tower.ReasonCollapse},
			Stats: tower.Stats{
				Rolls:     12,
				Collapses: 1,
				Systems: &ecs.SchedulerStats{Systems: []ecs.SystemStats{
					{Name: "GravitySystem", ExecutionCount: 600, AvgDuration: time.Microsecond, MaxDuration: 5 * time.Microsecond},
				}},
			},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))
	out := buf.String()

	assert.Contains(t, out, "# Towerfall Simulation Report")
	assert.Contains(t, out, "- **Full level cells:** 8")
	assert.Contains(t, out, "| 7 | 0f8fad5b | 600 | 200 | 12 | 2 | 4.0 | collapse |")
	assert.Contains(t, out, "- GravitySystem: 600 runs, avg 1µs, max 5µs")
	assert.Contains(t, out, "- Collapse rolls: 12 (1 collapsed)")
}

func TestGenerateWithoutStats(t *testing.T) {
	r := Report{Title: "empty"}
	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))
	assert.NotContains(t, buf.String(), "## Systems")
}
