package control

import (
	"context"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/time/rate"

	"github.com/termspong/spong/internal/protocol"
)

// Atrociousness limits. Lower plays better.
const (
	MinAtrociousness     = 4
	MaxAtrociousness     = 60
	DefaultAtrociousness = 10
)

// AI tracks the ball once it is within reach. A jitter offset, rolled each
// time the ball crosses the edge of that reach, keeps it from centering
// perfectly on flat balls.
type AI struct {
	atrociousness int
	jitter        int
	limiter       *rate.Limiter
	roll          func() int
	keys          <-chan *tcell.EventKey // only watched for quit
}

// NewAI creates an AI source that acts at most once per pace
func NewAI(atrociousness int, pace time.Duration) *AI {
	ai := &AI{
		atrociousness: ClampAtrociousness(atrociousness),
		roll:          rollJitter,
	}
	if pace > 0 {
		ai.limiter = rate.NewLimiter(rate.Every(pace), 1)
	}
	return ai
}

// ClampAtrociousness bounds a to [MinAtrociousness, MaxAtrociousness]
func ClampAtrociousness(a int) int {
	if a < MinAtrociousness {
		return MinAtrociousness
	}
	if a > MaxAtrociousness {
		return MaxAtrociousness
	}
	return a
}

func rollJitter() int {
	return rand.Intn(3) - 1
}

// Atrociousness returns the clamped difficulty parameter
func (ai *AI) Atrociousness() int {
	return ai.atrociousness
}

// Jitter returns the current offset applied to flat balls
func (ai *AI) Jitter() int {
	return ai.jitter
}

// Action returns quit if one was pressed, otherwise waits for its pacing
// slot and decides. Other keys are discarded.
func (ai *AI) Action(ctx context.Context, v View) protocol.Action {
	if quitPending(ai.keys) {
		return protocol.ActionQuit
	}
	if ai.limiter != nil {
		if err := ai.limiter.Wait(ctx); err != nil {
			return protocol.ActionNone
		}
	}
	return ai.decide(v)
}

func (ai *AI) decide(v View) protocol.Action {
	a := ai.atrociousness
	d := abs(v.Ball.X - v.Column)

	switch {
	case d > a && d < a+2:
		ai.jitter = ai.roll()
		return protocol.ActionNone
	case d > 1 && d < a:
		target := v.Ball.Y
		if v.Ball.VY == 0 {
			target += ai.jitter
		}
		return toward(target, v.Self)
	}
	return protocol.ActionNone
}

func toward(target, y int) protocol.Action {
	switch {
	case target < y:
		return protocol.ActionUp
	case target > y:
		return protocol.ActionDown
	}
	return protocol.ActionNone
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
