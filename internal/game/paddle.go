package game

import "github.com/termspong/spong/internal/protocol"

// PaddleHeight is the number of rows a paddle covers, centered on Y
const PaddleHeight = 3

type Paddle struct {
	Side   protocol.Side
	Column int // X position (fixed)
	Y      int
	Score  int
}

func NewPaddle(side protocol.Side, arena Arena) *Paddle {
	_, centerY := arena.Center()
	return &Paddle{
		Side:   side,
		Column: arena.HomeColumn(side),
		Y:      centerY,
	}
}

// Move shifts the paddle one row. Bounds are the caller's job.
func (p *Paddle) Move(action protocol.Action) {
	switch action {
	case protocol.ActionUp:
		p.Y--
	case protocol.ActionDown:
		p.Y++
	}
}

// CanMove reports whether the move keeps the paddle inside the arena
func (p *Paddle) CanMove(action protocol.Action, arena Arena) bool {
	switch action {
	case protocol.ActionUp:
		return p.Y > arena.MinPaddleY()
	case protocol.ActionDown:
		return p.Y < arena.MaxPaddleY()
	}
	return false
}

func (p *Paddle) Goal() {
	p.Score++
}

// TopY returns the first row the paddle covers
func (p *Paddle) TopY() int {
	return p.Y - PaddleHeight/2
}

// BottomY returns the last row the paddle covers
func (p *Paddle) BottomY() int {
	return p.Y + PaddleHeight/2
}
