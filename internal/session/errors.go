package session

import (
	"fmt"
	"net"

	"github.com/pkg/errors"
)

// ErrQuit is returned when the local player quits
var ErrQuit = errors.New("player quit")

// ConnectionError is a failure to bind, listen, accept or connect.
// It is fatal at startup and never retried.
type ConnectionError struct {
	Role Role
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	verb := "join"
	if e.Role == RoleHost {
		verb = "host"
	}
	return fmt.Sprintf("could not %s on %s: %v", verb, e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// PeerIOError is any send or receive failure once connected.
// The session cannot continue after one.
type PeerIOError struct {
	State State
	Op    string
	Err   error
}

func (e *PeerIOError) Error() string {
	return fmt.Sprintf("%s during %s: %v", e.Op, e.State, e.Err)
}

func (e *PeerIOError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the peer went silent rather than failing outright
func (e *PeerIOError) Timeout() bool {
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}
