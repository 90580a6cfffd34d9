// Package remote implements the remote controller: a second connection to a
// game host that only ever sends directional commands.
package remote

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/termspong/spong/internal/protocol"
	"github.com/termspong/spong/internal/session"
)

const (
	connectTimeout = 5 * time.Second
)

// Status of a controller connection
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "Connecting"
	case StatusConnected:
		return "Connected"
	}
	return "Disconnected"
}

// Snapshot is a consistent view of a controller
type Snapshot struct {
	Status Status
	Host   string // host's name, once the handshake is done
	Last   protocol.Action
	Err    error // why the last connection ended, if it failed
}

// Config configures a controller
type Config struct {
	Addr    string
	Name    string
	Tick    time.Duration
	Timeout time.Duration
	Logger  *zap.Logger

	// OnChange is called from any goroutine after every status change
	OnChange func(Snapshot)
}

// link is one connection and its exchange loop
type link struct {
	codec *protocol.Codec
	done  chan struct{}
}

// Controller exchanges one command per tick with a host. After an error it
// stays disconnected until Connect is called again.
type Controller struct {
	cfg Config
	log *zap.Logger

	mu      sync.Mutex
	link    *link
	status  Status
	host    string
	pending protocol.Action
	last    protocol.Action
	err     error
	wg      sync.WaitGroup
}

// NewController creates a disconnected controller
func NewController(cfg Config) *Controller {
	if cfg.Tick <= 0 {
		cfg.Tick = session.DefaultTick
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Tick * session.DefaultTimeoutTicks
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	cfg.Name = protocol.Truncate(cfg.Name)

	return &Controller{
		cfg: cfg,
		log: cfg.Logger.With(zap.String("addr", cfg.Addr), zap.String("name", cfg.Name)),
	}
}

// Snapshot returns the current status
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{Status: c.status, Host: c.host, Last: c.last, Err: c.err}
}

func (c *Controller) notify(s Snapshot) {
	if c.cfg.OnChange != nil {
		c.cfg.OnChange(s)
	}
}

// Connect dials the host and performs the name handshake as a joining peer.
// It is a no-op while already connected or connecting.
func (c *Controller) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.status != StatusDisconnected {
		c.mu.Unlock()
		return nil
	}
	c.status = StatusConnecting
	c.err = nil
	c.host = ""
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	l, host, err := c.dial(ctx)
	if err != nil {
		c.log.Warn("connect failed", zap.Error(err))
		c.mu.Lock()
		c.status = StatusDisconnected
		c.err = err
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return err
	}

	c.mu.Lock()
	if c.status != StatusConnecting {
		// Disconnect was called while dialing
		c.mu.Unlock()
		l.codec.Close()
		return nil
	}
	c.link = l
	c.status = StatusConnected
	c.host = host
	c.pending = protocol.ActionNone
	snap = c.snapshotLocked()
	c.wg.Add(1)
	c.mu.Unlock()

	c.log.Info("connected", zap.String("host", host))
	c.notify(snap)

	go c.exchangeLoop(l)
	return nil
}

func (c *Controller) dial(ctx context.Context) (*link, string, error) {
	d := net.Dialer{Timeout: connectTimeout}
	conn, err := d.DialContext(ctx, "tcp", c.cfg.Addr)
	if err != nil {
		return nil, "", &session.ConnectionError{Role: session.RoleJoin, Addr: c.cfg.Addr, Err: errors.Wrap(err, "dial")}
	}

	codec := protocol.NewCodec(conn, c.cfg.Timeout)
	host, err := codec.ReadField()
	if err != nil {
		codec.Close()
		return nil, "", &session.PeerIOError{State: session.StateNameExchange, Op: "receive name", Err: err}
	}
	if err := codec.WriteField(c.cfg.Name); err != nil {
		codec.Close()
		return nil, "", &session.PeerIOError{State: session.StateNameExchange, Op: "send name", Err: err}
	}

	return &link{codec: codec, done: make(chan struct{})}, host, nil
}

// Press queues an action for the next tick. Only moves are sent; anything
// else is ignored. Pressing while disconnected does nothing.
func (c *Controller) Press(a protocol.Action) {
	if !a.IsMove() {
		return
	}
	c.mu.Lock()
	if c.status != StatusConnected {
		c.mu.Unlock()
		return
	}
	c.pending = a
	c.last = a
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// takePending returns the queued action and clears it
func (c *Controller) takePending() protocol.Action {
	c.mu.Lock()
	defer c.mu.Unlock()
	a := c.pending
	c.pending = protocol.ActionNone
	return a
}

// exchangeLoop sends the pending action and discards the host frame once per
// tick until the link fails or is closed.
func (c *Controller) exchangeLoop(l *link) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.Tick)
	defer ticker.Stop()

	for {
		if err := l.codec.WriteField(c.takePending().String()); err != nil {
			c.drop(l, &session.PeerIOError{State: session.StatePlaying, Op: "send action", Err: err})
			return
		}
		if err := l.codec.SkipFrame(); err != nil {
			c.drop(l, &session.PeerIOError{State: session.StatePlaying, Op: "receive frame", Err: err})
			return
		}

		select {
		case <-l.done:
			return
		case <-ticker.C:
		}
	}
}

// drop ends l after an I/O error. Errors from a link that was closed on
// purpose are not reported.
func (c *Controller) drop(l *link, err error) {
	c.mu.Lock()
	if c.link != l {
		c.mu.Unlock()
		return
	}
	c.link = nil
	c.status = StatusDisconnected
	c.err = err
	snap := c.snapshotLocked()
	c.mu.Unlock()

	l.codec.Close()
	c.log.Warn("disconnected", zap.Error(err))
	c.notify(snap)
}

// Disconnect closes the connection without recording an error
func (c *Controller) Disconnect() {
	c.mu.Lock()
	l := c.link
	c.link = nil
	wasConnected := c.status == StatusConnected
	c.status = StatusDisconnected
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if l != nil {
		close(l.done)
		l.codec.Close()
	}
	if wasConnected {
		c.log.Info("disconnected by user")
		c.notify(snap)
	}
}

// Close disconnects and waits for the exchange loop to exit
func (c *Controller) Close() {
	c.Disconnect()
	c.wg.Wait()
}
