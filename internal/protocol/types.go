package protocol

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Action is the single command a controller yields per tick
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionQuit
)

// NoneMarker is the text form of ActionNone on the wire
const NoneMarker = "None"

func (a Action) String() string {
	switch a {
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionQuit:
		return "quit"
	}
	return NoneMarker
}

// ParseAction converts a wire token to an Action.
// Only movement is ever exchanged, so anything else reads as ActionNone.
func ParseAction(token string) Action {
	switch token {
	case "up":
		return ActionUp
	case "down":
		return ActionDown
	}
	return ActionNone
}

// IsMove reports whether the action moves a paddle
func (a Action) IsMove() bool {
	return a == ActionUp || a == ActionDown
}

// Side identifies a half of the arena
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return "none"
}

// Opposite returns the other side
func (s Side) Opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	}
	return SideNone
}

// BallState is the (x, y, vx, vy) snapshot sent every tick
type BallState struct {
	_msgpack struct{} `msgpack:",as_array"`

	X  int
	Y  int
	VX int
	VY int
}

// HostFrame is what the host sends to the client every tick:
// its own action as text (or NoneMarker) and the ball snapshot.
type HostFrame struct {
	_msgpack struct{} `msgpack:",as_array"`

	Action string
	Ball   BallState
}

// worstCaseFrame is the largest frame a standard arena produces
var worstCaseFrame = HostFrame{
	Action: ActionDown.String(),
	Ball:   BallState{X: 1 << 15, Y: 1 << 15, VX: -1, VY: -1},
}

// FrameBufferSize is the read buffer for host frames, three times the
// serialized size of a worst-case frame.
var FrameBufferSize = frameBufferSize()

func frameBufferSize() int {
	data, err := msgpack.Marshal(&worstCaseFrame)
	if err != nil {
		panic(err)
	}
	return 3 * len(data)
}
