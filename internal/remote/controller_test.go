package remote

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/termspong/spong/internal/protocol"
	"github.com/termspong/spong/internal/session"
)

const (
	testTick    = 5 * time.Millisecond
	testTimeout = time.Second
)

// fakeHost accepts one controller, sends its name and then plays the host's
// side of the per-tick exchange, recording every action token received.
type fakeHost struct {
	t       *testing.T
	l       net.Listener
	name    chan string
	actions chan string

	mu    sync.Mutex
	codec *protocol.Codec
}

func newFakeHost(t *testing.T) *fakeHost {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	h := &fakeHost{
		t:       t,
		l:       l,
		name:    make(chan string, 1),
		actions: make(chan string, 1024),
	}
	t.Cleanup(h.Close)
	go h.serve()
	return h
}

func (h *fakeHost) Addr() string {
	return h.l.Addr().String()
}

func (h *fakeHost) serve() {
	conn, err := h.l.Accept()
	if err != nil {
		return
	}
	codec := protocol.NewCodec(conn, testTimeout)
	h.mu.Lock()
	h.codec = codec
	h.mu.Unlock()

	if err := codec.WriteField("Felipe"); err != nil {
		return
	}
	name, err := codec.ReadField()
	if err != nil {
		return
	}
	h.name <- name

	frame := &protocol.HostFrame{Action: protocol.NoneMarker, Ball: protocol.BallState{X: 39, Y: 9, VX: 1, VY: -1}}
	for {
		if err := codec.WriteFrame(frame); err != nil {
			return
		}
		token, err := codec.ReadField()
		if err != nil {
			return
		}
		select {
		case h.actions <- token:
		default:
		}
	}
}

// Drop closes the game connection from the host side
func (h *fakeHost) Drop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.codec != nil {
		h.codec.Close()
	}
}

func (h *fakeHost) Close() {
	h.l.Close()
	h.Drop()
}

// waitFor reads actions until want arrives
func (h *fakeHost) waitFor(want string) {
	h.t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-h.actions:
			if got == want {
				return
			}
		case <-deadline:
			h.t.Fatalf("host never received %q", want)
		}
	}
}

func waitStatus(t *testing.T, c *Controller, want Status) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s := c.Snapshot(); s.Status == want {
			return s
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("status never became %s, is %s", want, c.Snapshot().Status)
	return Snapshot{}
}

func newTestController(addr string, onChange func(Snapshot)) *Controller {
	return NewController(Config{
		Addr:     addr,
		Name:     "couch",
		Tick:     testTick,
		Timeout:  testTimeout,
		OnChange: onChange,
	})
}

func TestController_Handshake(t *testing.T) {
	h := newFakeHost(t)
	c := newTestController(h.Addr(), nil)
	defer c.Close()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	s := c.Snapshot()
	if s.Status != StatusConnected {
		t.Errorf("expected connected, got %s", s.Status)
	}
	if s.Host != "Felipe" {
		t.Errorf("expected host name 'Felipe', got '%s'", s.Host)
	}
	select {
	case name := <-h.name:
		if name != "couch" {
			t.Errorf("expected host to receive 'couch', got '%s'", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("host never received the name")
	}
}

func TestController_PressSendsOnce(t *testing.T) {
	h := newFakeHost(t)
	c := newTestController(h.Addr(), nil)
	defer c.Close()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	h.waitFor(protocol.NoneMarker)

	c.Press(protocol.ActionUp)
	h.waitFor("up")

	// The pending action is cleared after being sent
	select {
	case got := <-h.actions:
		if got != protocol.NoneMarker {
			t.Errorf("expected %q after the press, got %q", protocol.NoneMarker, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no action after the press")
	}

	if c.Snapshot().Last != protocol.ActionUp {
		t.Errorf("expected last action up, got %s", c.Snapshot().Last)
	}
}

func TestController_IgnoresNonMoves(t *testing.T) {
	h := newFakeHost(t)
	c := newTestController(h.Addr(), nil)
	defer c.Close()

	c.Press(protocol.ActionDown) // not connected yet
	if c.Snapshot().Last != protocol.ActionNone {
		t.Error("press while disconnected should be ignored")
	}

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	c.Press(protocol.ActionQuit)
	if c.Snapshot().Last != protocol.ActionNone {
		t.Errorf("quit should not be sent, last is %s", c.Snapshot().Last)
	}
}

func TestController_HostDropStaysDisconnected(t *testing.T) {
	h := newFakeHost(t)

	var mu sync.Mutex
	var seen []Status
	c := newTestController(h.Addr(), func(s Snapshot) {
		mu.Lock()
		seen = append(seen, s.Status)
		mu.Unlock()
	})
	defer c.Close()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	h.waitFor(protocol.NoneMarker)
	h.Drop()

	s := waitStatus(t, c, StatusDisconnected)
	var peerErr *session.PeerIOError
	if !errors.As(s.Err, &peerErr) {
		t.Errorf("expected PeerIOError, got %v", s.Err)
	}

	// No automatic reconnect
	time.Sleep(10 * testTick)
	if got := c.Snapshot().Status; got != StatusDisconnected {
		t.Errorf("expected to stay disconnected, got %s", got)
	}
	c.Press(protocol.ActionUp)
	if c.Snapshot().Last == protocol.ActionUp {
		t.Error("press after disconnect should be ignored")
	}

	mu.Lock()
	defer mu.Unlock()
	want := []Status{StatusConnecting, StatusConnected, StatusDisconnected}
	if len(seen) != len(want) {
		t.Fatalf("expected status changes %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("change %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
}

func TestController_Reconnect(t *testing.T) {
	h := newFakeHost(t)
	c := newTestController(h.Addr(), nil)
	defer c.Close()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	c.Disconnect()
	if s := c.Snapshot(); s.Status != StatusDisconnected || s.Err != nil {
		t.Errorf("expected clean disconnect, got %+v", s)
	}

	h2 := newFakeHost(t)
	c.cfg.Addr = h2.Addr()
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	h2.waitFor(protocol.NoneMarker)
	if c.Snapshot().Status != StatusConnected {
		t.Error("expected connected after reconnect")
	}
}

func TestController_ConnectRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	c := newTestController(addr, nil)
	err = c.Connect(context.Background())

	var connErr *session.ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectionError, got %v", err)
	}
	if s := c.Snapshot(); s.Status != StatusDisconnected || s.Err == nil {
		t.Errorf("expected disconnected with error, got %+v", s)
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{StatusDisconnected, "Disconnected"},
		{StatusConnecting, "Connecting"},
		{StatusConnected, "Connected"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
