package main

import (
	"math"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/towerfall/tower"
)

type action int

const (
	actLeft action = iota
	actRight
	actForward
	actBack
	actCW
	actCCW
	actionCount
)

var opposite = [actionCount]action{actRight, actLeft, actBack, actForward, actCCW, actCW}

// pulses turns key presses into inputs held for several ticks. Terminals
// report presses rather than key state, so a move press is held long enough to
// cross one cell and a rotate press long enough for a quarter turn.
type pulses struct {
	moveTicks int
	turnTicks int

	left    [actionCount]int
	drop    bool
	restart bool
}

func newPulses(cfg tower.Config) *pulses {
	return &pulses{
		moveTicks: ticksFor(tower.Unit, cfg.MoveStep),
		turnTicks: ticksFor(math.Pi/2, cfg.RotateStep),
	}
}

func ticksFor(distance, step float64) int {
	if step <= 0 {
		return 1
	}
	return int(math.Ceil(distance/step - 1e-9))
}

func (p *pulses) hold(a action) {
	ticks := p.moveTicks
	if a == actCW || a == actCCW {
		ticks = p.turnTicks
	}
	p.left[a] = ticks
	p.left[opposite[a]] = 0
}

// press folds one key event in. It returns false when the key asks to quit.
func (p *pulses) press(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		p.hold(actLeft)
	case tcell.KeyRight:
		p.hold(actRight)
	case tcell.KeyUp:
		p.hold(actForward)
	case tcell.KeyDown:
		p.hold(actBack)
	case tcell.KeyRune:
		switch unicode.ToLower(ev.Rune()) {
		case 'a':
			p.hold(actLeft)
		case 'd':
			p.hold(actRight)
		case 'w':
			p.hold(actForward)
		case 's':
			p.hold(actBack)
		case 'q':
			p.hold(actCCW)
		case 'e':
			p.hold(actCW)
		case ' ':
			p.drop = true
		case 'r':
			p.restart = true
		}
	}
	return true
}

// next returns the input for one tick and consumes it.
func (p *pulses) next() tower.Input {
	var on [actionCount]bool
	for a := range p.left {
		if p.left[a] > 0 {
			on[a] = true
			p.left[a]--
		}
	}
	in := tower.Input{
		MoveLeft:    on[actLeft],
		MoveRight:   on[actRight],
		MoveForward: on[actForward],
		MoveBack:    on[actBack],
		RotateCW:    on[actCW],
		RotateCCW:   on[actCCW],
		HardDrop:    p.drop,
		Restart:     p.restart,
	}
	p.drop, p.restart = false, false
	return in
}
