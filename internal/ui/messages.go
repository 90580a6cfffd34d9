package ui

// Fixed notices shown to the player
const (
	MsgScreenSmall  = "Terminal screen is too small (80x20 required)"
	MsgCantHost     = "Could not open the server on this IP/port"
	MsgCantJoin     = "Could not join the game on this IP/port"
	MsgWaiting      = "Waiting for another player... (Ctrl+C to cancel)"
	MsgDisconnected = "----------Disconnected----------"
	MsgPressKey     = "Press any key to exit"
)

// Minimum terminal size: the arena plus its border and the header row
const (
	MinScreenWidth  = 80
	MinScreenHeight = 20
)
