package ui

import (
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/termspong/spong/internal/game"
)

const (
	BallChar   = 'O'
	PaddleChar = '|'
	scoreGap   = 6
)

// Renderer draws a match the way a terminal would: the border once,
// then only what changes each tick.
type Renderer struct {
	screen *Screen
	arena  game.Arena
}

// NewRenderer creates a renderer for the given screen and arena
func NewRenderer(screen *Screen, arena game.Arena) *Renderer {
	return &Renderer{screen: screen, arena: arena}
}

// Waiting shows the host's waiting notice
func (r *Renderer) Waiting(addr string) {
	r.screen.Clear()
	w, h := r.screen.Size()
	r.screen.DrawCentered(0, h/2, w, MsgWaiting, tcell.StyleDefault)
	r.screen.DrawCentered(0, h/2+1, w, addr, tcell.StyleDefault.Foreground(tcell.ColorGray))
	r.screen.Show()
}

// Names clears the screen, draws the border and both names.
// The host sits at column 0, the client is right-aligned to the border.
func (r *Renderer) Names(host, client string) {
	r.screen.Clear()
	r.drawArena()

	style := tcell.StyleDefault.Bold(true)
	r.screen.DrawText(0, 0, host, style)
	r.screen.DrawText(r.arena.BoundX+1-len([]rune(client)), 0, client, style)
	r.screen.Show()
}

func (r *Renderer) drawArena() {
	a := r.arena
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)

	r.screen.DrawVerticalLine(a.X, a.Y, a.BoundY, style, '|')
	r.screen.DrawVerticalLine(a.BoundX, a.Y, a.BoundY, style, '|')
	for x := a.X; x < a.BoundX; x++ {
		r.screen.SetCell(x, a.Y, style, '-')
		r.screen.SetCell(x, a.BoundY, style, '-')
	}
	for _, c := range [][2]int{{a.X, a.Y}, {a.X, a.BoundY}, {a.BoundX, a.Y}, {a.BoundX, a.BoundY}} {
		r.screen.SetCell(c[0], c[1], style, '+')
	}
}

// Draw redraws scores, paddles and the ball
func (r *Renderer) Draw(m *game.Match) {
	left, right := m.Score()
	mid := r.arena.Width / 2
	scoreStyle := tcell.StyleDefault.Bold(true)
	r.screen.DrawText(mid-scoreGap, 0, strconv.Itoa(left), scoreStyle)
	r.screen.DrawText(mid+scoreGap, 0, strconv.Itoa(right), scoreStyle)

	r.drawPaddle(m.Left, GetPlayerStyle(0))
	r.drawPaddle(m.Right, GetPlayerStyle(1))

	b := m.Ball
	r.erase(b.OldX, b.OldY)
	r.screen.SetCell(b.X, b.Y, tcell.StyleDefault.Bold(true), BallChar)

	r.screen.Show()
}

// erase blanks an interior cell or restores the border under it
func (r *Renderer) erase(x, y int) {
	a := r.arena
	if y == a.Y || y == a.BoundY {
		r.screen.SetCell(x, y, tcell.StyleDefault.Foreground(tcell.ColorGray), '-')
		return
	}
	r.screen.SetCell(x, y, tcell.StyleDefault, ' ')
}

func (r *Renderer) drawPaddle(p *game.Paddle, style tcell.Style) {
	// Clear the whole column first
	for y := r.arena.InteriorTop(); y < r.arena.InteriorBottom(); y++ {
		r.screen.SetCell(p.Column, y, tcell.StyleDefault, ' ')
	}
	r.screen.DrawVerticalLine(p.Column, p.TopY(), p.BottomY(), style, PaddleChar)
}

// Disconnected shows the fixed disconnect notice on the header row
func (r *Renderer) Disconnected() {
	r.screen.ClearRow(0, 0, r.arena.BoundX+1)
	r.screen.DrawCentered(0, 0, r.arena.Width, MsgDisconnected, tcell.StyleDefault.Bold(true))
	r.screen.Show()
}

// Message clears the screen and shows msg in the middle
func (r *Renderer) Message(msg string) {
	r.screen.Clear()
	w, h := r.screen.Size()
	r.screen.DrawCentered(0, h/2, w, msg, tcell.StyleDefault)
	r.screen.Show()
}
