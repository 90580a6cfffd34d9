// Package control provides the per-tick action sources that drive a paddle:
// a human at the keyboard or the heuristic AI.
package control

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/termspong/spong/internal/game"
	"github.com/termspong/spong/internal/protocol"
)

// View is what a source may look at when choosing its action
type View struct {
	Column   int // column of the controlled paddle
	Self     int // row of the controlled paddle
	Opponent int // row of the other paddle
	Ball     protocol.BallState
}

// ViewOf builds the view for the paddle on the given side
func ViewOf(m *game.Match, side protocol.Side) View {
	self := m.Paddle(side)
	return View{
		Column:   self.Column,
		Self:     self.Y,
		Opponent: m.Paddle(side.Opposite()).Y,
		Ball:     m.Ball.Snapshot(),
	}
}

// Source yields one action per tick. Action must not block longer than one
// tick waiting for input.
type Source interface {
	Action(ctx context.Context, v View) protocol.Action
}

// Options selects and tunes a source
type Options struct {
	Name          string
	AIName        string
	Atrociousness int
	Tick          time.Duration
	Keys          <-chan *tcell.EventKey
}

// New returns the AI when the player uses the reserved AI name,
// otherwise a keyboard source reading from opts.Keys. The AI still
// reads opts.Keys for quit.
func New(opts Options) Source {
	if opts.AIName != "" && opts.Name == opts.AIName {
		ai := NewAI(opts.Atrociousness, opts.Tick)
		ai.keys = opts.Keys
		return ai
	}
	return NewKeyboard(opts.Keys)
}
