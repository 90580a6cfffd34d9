package game

import (
	"github.com/termspong/spong/internal/protocol"
)

// Match is one peer's view of the game: the arena, both paddles and the ball.
// On the host the ball is authoritative, on the client it is a mirror.
type Match struct {
	Arena Arena
	Left  *Paddle
	Right *Paddle
	Ball  *Ball
}

// NewMatch creates a match with paddles at home and the ball at the center
func NewMatch(arena Arena) *Match {
	x, y := arena.Center()
	return &Match{
		Arena: arena,
		Left:  NewPaddle(protocol.SideLeft, arena),
		Right: NewPaddle(protocol.SideRight, arena),
		Ball:  NewBall(x, y),
	}
}

// Paddle returns the paddle for the given side
func (m *Match) Paddle(side protocol.Side) *Paddle {
	if side == protocol.SideRight {
		return m.Right
	}
	return m.Left
}

// Apply moves a side's paddle if the move stays in bounds.
// Out-of-bounds moves and non-movement actions are ignored.
func (m *Match) Apply(side protocol.Side, action protocol.Action) bool {
	p := m.Paddle(side)
	if !p.CanMove(action, m.Arena) {
		return false
	}
	p.Move(action)
	return true
}

// Advance runs one physics step and returns the scoring side, if any
func (m *Match) Advance() protocol.Side {
	return m.Ball.Advance(m.Left, m.Right, m.Arena)
}

// Score returns the left and right scores
func (m *Match) Score() (int, int) {
	return m.Left.Score, m.Right.Score
}
