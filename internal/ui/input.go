package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/termspong/spong/internal/protocol"
)

// KeyToAction converts a key event to a controller action.
// Arrows, w/s and the vi keys k/j move; q quits.
func KeyToAction(key tcell.Key, r rune) protocol.Action {
	switch key {
	case tcell.KeyUp:
		return protocol.ActionUp
	case tcell.KeyDown:
		return protocol.ActionDown
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return protocol.ActionQuit
	case tcell.KeyRune:
		switch r {
		case 'w', 'W', 'k', 'K':
			return protocol.ActionUp
		case 's', 'S', 'j', 'J':
			return protocol.ActionDown
		case 'q', 'Q':
			return protocol.ActionQuit
		}
	}
	return protocol.ActionNone
}

// IsQuitKey returns true if the key should quit the application
func IsQuitKey(key tcell.Key, r rune) bool {
	return KeyToAction(key, r) == protocol.ActionQuit
}

// IsConnectKey returns true if the key should (re)connect a remote controller
func IsConnectKey(key tcell.Key, r rune) bool {
	if key == tcell.KeyEnter {
		return true
	}
	return key == tcell.KeyRune && (r == 'c' || r == 'C')
}
