package game

import (
	"github.com/pkg/errors"

	"github.com/termspong/spong/internal/protocol"
)

// Standard playfield placement. Row 0 above the arena holds names and scores.
const (
	ArenaX      = 0
	ArenaY      = 1
	ArenaWidth  = 78
	ArenaHeight = 18
)

// paddleMargin is how close a paddle center may get to the top or bottom edge
const paddleMargin = 3

// Arena is the static playfield. Bounds are derived once at construction.
type Arena struct {
	X, Y           int
	Width, Height  int
	BoundX, BoundY int
}

// NewArena creates an arena with its top-left corner at (x, y)
func NewArena(x, y, width, height int) (Arena, error) {
	if width < ArenaWidth || height < ArenaHeight {
		return Arena{}, errors.Errorf("arena %dx%d is smaller than %dx%d", width, height, ArenaWidth, ArenaHeight)
	}
	return Arena{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		BoundX: x + width,
		BoundY: y + height,
	}, nil
}

// DefaultArena returns the standard 78x18 arena
func DefaultArena() Arena {
	a, _ := NewArena(ArenaX, ArenaY, ArenaWidth, ArenaHeight)
	return a
}

// Center returns the cell the ball is served from
func (a Arena) Center() (int, int) {
	return a.BoundX/2 + a.X/2, a.BoundY/2 + a.Y/2
}

// HomeColumn returns the column a side's paddle lives in
func (a Arena) HomeColumn(side protocol.Side) int {
	if side == protocol.SideRight {
		return a.BoundX - 2
	}
	return a.X + 2
}

// GoalColumn returns the interior column whose crossing scores against side
func (a Arena) GoalColumn(side protocol.Side) int {
	if side == protocol.SideRight {
		return a.BoundX - 1
	}
	return a.X + 1
}

// MinPaddleY is the highest row a paddle center may occupy
func (a Arena) MinPaddleY() int {
	return a.Y + paddleMargin
}

// MaxPaddleY is the lowest row a paddle center may occupy
func (a Arena) MaxPaddleY() int {
	return a.BoundY - paddleMargin
}

// InteriorTop is the first row inside the border
func (a Arena) InteriorTop() int {
	return a.Y + 1
}

// InteriorBottom is the last row inside the border
func (a Arena) InteriorBottom() int {
	return a.BoundY - 1
}
