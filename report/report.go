// Package report renders a markdown summary of finished or running sessions.
package report

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/plus3/towerfall/tower"
)

// Run is the outcome of one session.
type Run struct {
	Seed     uint64
	Ticks    int
	Elapsed  time.Duration
	Session  tower.Session
	Stats    tower.Stats
	TickTime Timing
}

// Timing accumulates duration samples.
type Timing struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (t *Timing) Add(d time.Duration) {
	t.Samples = append(t.Samples, d)
}

// Finalize computes Min, Max and Avg from the samples.
func (t *Timing) Finalize() {
	if len(t.Samples) == 0 {
		return
	}

	var total time.Duration
	t.Min = t.Samples[0]
	t.Max = t.Samples[0]
	for _, sample := range t.Samples {
		t.Min = min(t.Min, sample)
		t.Max = max(t.Max, sample)
		total += sample
	}
	t.Avg = total / time.Duration(len(t.Samples))
}

// Summary aggregates a set of runs.
type Summary struct {
	Runs          int
	BestScore     int
	MeanScore     float64
	MeanHeight    float64
	Collapses     int
	HeightLimits  int
	Unfinished    int
	LevelsCleared int
}

// Report is a titled set of runs.
type Report struct {
	Title     string
	Threshold int
	Runs      []Run
}

func (r *Report) Summary() Summary {
	s := Summary{Runs: len(r.Runs)}
	if len(r.Runs) == 0 {
		return s
	}

	var score, height float64
	for _, run := range r.Runs {
		ses := run.Session
		s.BestScore = max(s.BestScore, ses.Score)
		s.LevelsCleared += ses.LevelsCleared
		score += float64(ses.Score)
		height += ses.MaxHeight
		switch ses.Reason {
		case tower.ReasonCollapse:
			s.Collapses++
		case tower.ReasonHeight:
			s.HeightLimits++
		default:
			s.Unfinished++
		}
	}
	s.MeanScore = score / float64(len(r.Runs))
	s.MeanHeight = height / float64(len(r.Runs))
	return s
}

const reportTemplate = `# {{.Title}}

## Configuration
- **Runs:** {{len .Runs}}
- **Full level cells:** {{.Threshold}}

## Summary
{{with .Summary -}}
- **Best score:** {{.BestScore}}
- **Mean score:** {{f1 .MeanScore}}
- **Mean max height:** {{f1 .MeanHeight}}
- **Levels cleared:** {{.LevelsCleared}}
- **Ended by collapse:** {{.Collapses}}
- **Ended by height:** {{.HeightLimits}}
- **Still running:** {{.Unfinished}}
{{- end}}

## Runs
| Seed | Session | Ticks | Score | Landings | Levels | Max height | End | Tick avg | Tick max |
|---|---|---|---|---|---|---|---|---|---|
{{range .Runs -}}
| {{.Seed}} | {{short .Session.ID.String}} | {{.Ticks}} | {{.Session.Score}} | {{.Session.Landings}} | {{.Session.LevelsCleared}} | {{f1 .Session.MaxHeight}} | {{.Session.Reason}} | {{.TickTime.Avg}} | {{.TickTime.Max}} |
{{end}}
{{- with last .Runs}}
## Systems (last run)
{{range .Stats.Systems.Systems -}}
- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end -}}
- Entities: {{.Stats.Storage.TotalEntityCount}} in {{.Stats.Storage.ArchetypeCount}} archetypes
- Collapse rolls: {{.Stats.Rolls}} ({{.Stats.Collapses}} collapsed)
{{- end}}
`

var funcs = template.FuncMap{
	"f1": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
	"short": func(id string) string {
		if len(id) > 8 {
			return id[:8]
		}
		return id
	},
	"last": func(runs []Run) *Run {
		if len(runs) == 0 || runs[len(runs)-1].Stats.Systems == nil {
			return nil
		}
		return &runs[len(runs)-1]
	},
}

var tmpl = template.Must(template.New("report").Funcs(funcs).Parse(reportTemplate))

// Generate writes the report as markdown.
func (r *Report) Generate(w io.Writer) error {
	return tmpl.Execute(w, r)
}
