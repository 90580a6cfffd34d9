package control

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/termspong/spong/internal/protocol"
	"github.com/termspong/spong/internal/ui"
)

// Keyboard turns pending key events into actions, one key per tick
type Keyboard struct {
	keys <-chan *tcell.EventKey
}

func NewKeyboard(keys <-chan *tcell.EventKey) *Keyboard {
	return &Keyboard{keys: keys}
}

// Action takes at most one pending key without waiting
func (k *Keyboard) Action(ctx context.Context, _ View) protocol.Action {
	select {
	case ev, ok := <-k.keys:
		if !ok || ev == nil {
			return protocol.ActionNone
		}
		return ui.KeyToAction(ev.Key(), ev.Rune())
	default:
		return protocol.ActionNone
	}
}

// quitPending drains keys without waiting and reports whether any of them
// was a quit key
func quitPending(keys <-chan *tcell.EventKey) bool {
	for {
		select {
		case ev, ok := <-keys:
			if !ok {
				return false
			}
			if ev != nil && ui.IsQuitKey(ev.Key(), ev.Rune()) {
				return true
			}
		default:
			return false
		}
	}
}
