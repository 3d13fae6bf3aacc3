// Package sound plays short synthesized cues for tower events.
package sound

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/plus3/towerfall/tower"
)

const sampleRate = beep.SampleRate(44100)

// Player turns game events into sounds. It implements tower.Observer.
type Player struct {
	tower.NopObserver

	mu          sync.Mutex
	mixer       *beep.Mixer
	log         *zap.Logger
	initialized bool
	volume      float64
}

func NewPlayer(log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{mixer: &beep.Mixer{}, log: log, volume: 0.4}
}

// Initialize opens the speaker. Without a working audio device the player
// stays silent and reports the error.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences everything still playing.
func (p *Player) Close() {
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()

	p.mu.Lock()
	p.initialized = false
	p.mu.Unlock()
}

func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	ready := p.initialized
	p.mu.Unlock()
	if !ready || s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(volume(s, p.volume))
	speaker.Unlock()
}

func (p *Player) Landed(tower.LandedPiece) {
	p.play(p.cue(Tone(220, 60*time.Millisecond)))
}

func (p *Player) Cleared(levels int) {
	p.play(p.cue(Arpeggio(523.25, levels, 90*time.Millisecond)))
}

func (p *Player) Collapsed() {
	p.play(Noise(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)), 600*time.Millisecond))
}

func (p *Player) GameOver(reason tower.EndReason) {
	p.play(p.cue(Arpeggio(330, -3, 160*time.Millisecond)))
}

func (p *Player) cue(s beep.Streamer, err error) beep.Streamer {
	if err != nil {
		p.log.Debug("sound cue failed", zap.Error(err))
		return nil
	}
	return s
}

// Tone is a sine at freq Hz lasting d, with a short fade out.
func Tone(freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	return fade(beep.Take(sampleRate.N(d), sine), sampleRate.N(d)), nil
}

// Arpeggio plays |n| tones a major third apart starting at base, rising for
// positive n and falling for negative n.
func Arpeggio(base float64, n int, step time.Duration) (beep.Streamer, error) {
	ratio := math.Pow(2, 4.0/12)
	if n < 0 {
		ratio, n = 1/ratio, -n
	}
	n = max(n, 1)

	tones := make([]beep.Streamer, 0, n)
	freq := base
	for range n {
		t, err := Tone(freq, step)
		if err != nil {
			return nil, err
		}
		tones = append(tones, t)
		freq *= ratio
	}
	return beep.Seq(tones...), nil
}

// Noise is a decaying burst of white noise drawn from rng.
func Noise(rng *rand.Rand, d time.Duration) beep.Streamer {
	total := sampleRate.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			if pos >= total {
				return i, i > 0
			}
			v := (rng.Float64()*2 - 1) * (1 - float64(pos)/float64(total))
			samples[i] = [2]float64{v, v}
			pos++
		}
		return len(samples), true
	})
}

// fade scales the last fifth of a stream of total samples down to silence.
func fade(s beep.Streamer, total int) beep.Streamer {
	pos := 0
	tail := max(total/5, 1)
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := range n {
			if left := total - pos; left < tail {
				g := float64(left) / float64(tail)
				samples[i][0] *= g
				samples[i][1] *= g
			}
			pos++
		}
		return n, ok
	})
}

func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}
