package game

import (
	"math/rand"

	"github.com/termspong/spong/internal/protocol"
)

// Ball moves one cell per tick in each axis. OldX/OldY only exist so the
// renderer can erase the previous glyph.
type Ball struct {
	X, Y       int
	OldX, OldY int
	VX, VY     int
}

func NewBall(x, y int) *Ball {
	b := &Ball{X: x, Y: y, OldX: x, OldY: y}
	b.randomizeVelocity()
	return b
}

// Advance runs one physics step against both paddles.
// It returns the side that scored, or SideNone when the ball just moved.
func (b *Ball) Advance(left, right *Paddle, arena Arena) protocol.Side {
	// Reflect off the top and bottom walls. Paddle hits below see the
	// reflected vy, so a two-row hit can carry the ball onto the border
	// row for one tick.
	next := b.Y + b.VY
	if next > arena.InteriorBottom() || next < arena.InteriorTop() {
		b.BounceVertical()
	}

	// Goals come before paddles and consume the tick
	switch b.X {
	case arena.GoalColumn(protocol.SideLeft):
		right.Goal()
		b.Reset(arena)
		return protocol.SideRight
	case arena.GoalColumn(protocol.SideRight):
		left.Goal()
		b.Reset(arena)
		return protocol.SideLeft
	}

	if b.X == left.Column+1 {
		b.hit(left.Y, 1)
	}
	if b.X == right.Column-1 {
		b.hit(right.Y, -1)
	}

	b.OldX, b.OldY = b.X, b.Y
	b.X += b.VX
	b.Y += b.VY
	return protocol.SideNone
}

// hit resolves a paddle contact. dir is the new horizontal direction.
// Offsets of two rows only count when the ball is still heading that way.
func (b *Ball) hit(paddleY, dir int) {
	switch {
	case b.Y == paddleY:
		b.VX, b.VY = dir, 0
	case b.Y == paddleY-1:
		b.VX, b.VY = dir, -1
	case b.Y == paddleY+1:
		b.VX, b.VY = dir, 1
	case b.Y == paddleY-2 && b.VY == 1:
		b.VX, b.VY = dir, -1
	case b.Y == paddleY+2 && b.VY == -1:
		b.VX, b.VY = dir, 1
	}
}

// BounceVertical reverses vertical direction (wall bounce)
func (b *Ball) BounceVertical() {
	b.VY = -b.VY
}

// Reset places the ball at the center with a fresh random velocity
func (b *Ball) Reset(arena Arena) {
	b.OldX, b.OldY = b.X, b.Y
	b.X, b.Y = arena.Center()
	b.randomizeVelocity()
}

func (b *Ball) randomizeVelocity() {
	b.VX = []int{-1, 1}[rand.Intn(2)]
	b.VY = []int{-1, 0, 1}[rand.Intn(3)]
}

// Snapshot returns the wire representation of the ball
func (b *Ball) Snapshot() protocol.BallState {
	return protocol.BallState{X: b.X, Y: b.Y, VX: b.VX, VY: b.VY}
}

// Restore overwrites the ball from a received snapshot.
// The old position is kept so the previous glyph can still be erased.
func (b *Ball) Restore(s protocol.BallState) {
	b.X, b.Y = s.X, s.Y
	b.VX, b.VY = s.VX, s.VY
}
