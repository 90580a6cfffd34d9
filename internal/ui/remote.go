package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// RemotePanel is what the terminal remote controller shows
type RemotePanel struct {
	Addr      string
	Name      string
	Host      string
	Status    string
	Connected bool
	Last      string
	Err       string
}

// RenderRemote draws the remote controller screen
func (r *Renderer) RenderRemote(p RemotePanel) {
	r.screen.Clear()
	w, _ := r.screen.Size()

	title := "=== SPONG CONTROL ==="
	r.screen.DrawCentered(0, 1, w, title, tcell.StyleDefault.Bold(true))

	label := tcell.StyleDefault.Foreground(tcell.ColorGray)
	r.screen.DrawText(4, 3, "Server:", label)
	r.screen.DrawText(14, 3, p.Addr, tcell.StyleDefault)
	r.screen.DrawText(4, 4, "Name:", label)
	r.screen.DrawText(14, 4, p.Name, tcell.StyleDefault)

	statusStyle := tcell.StyleDefault.Foreground(tcell.ColorRed)
	if p.Connected {
		statusStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	}
	r.screen.DrawText(4, 6, "Status:", label)
	r.screen.DrawText(14, 6, p.Status, statusStyle)
	if p.Host != "" {
		r.screen.DrawText(4, 7, "Host:", label)
		r.screen.DrawText(14, 7, p.Host, tcell.StyleDefault)
	}
	if p.Err != "" {
		r.screen.DrawText(4, 8, p.Err, tcell.StyleDefault.Foreground(tcell.ColorRed))
	}
	if p.Last != "" {
		r.screen.DrawText(4, 10, fmt.Sprintf("Last command: %s", p.Last), tcell.StyleDefault)
	}

	help := "UP/w/k  DOWN/s/j  c: connect  q: quit"
	r.screen.DrawText(4, 12, help, label)
	r.screen.Show()
}
