// Package session runs one peer of a game: it connects, exchanges names and
// then drives the fixed-tick lockstep exchange with the other peer.
//
// The host owns the ball. Each tick it advances the ball, applies its own
// action and sends both to the client, then applies the client's action.
// The client sends its action first, applies the host's frame and re-runs
// the physics step locally, so its ball may lead the host's by one tick.
package session

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/termspong/spong/internal/control"
	"github.com/termspong/spong/internal/game"
	"github.com/termspong/spong/internal/protocol"
)

// Defaults for the tick loop
const (
	DefaultTick         = 33 * time.Millisecond
	DefaultTimeoutTicks = 30
	dialTimeout         = 5 * time.Second
)

// Role is the part a peer plays in the exchange
type Role int

const (
	RoleHost Role = iota
	RoleJoin
)

func (r Role) String() string {
	if r == RoleHost {
		return "host"
	}
	return "join"
}

// Side returns the paddle a role controls. The host always plays left.
func (r Role) Side() protocol.Side {
	if r == RoleHost {
		return protocol.SideLeft
	}
	return protocol.SideRight
}

// State of a session. Disconnected is terminal.
type State int

const (
	StateConnecting State = iota
	StateNameExchange
	StatePlaying
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateNameExchange:
		return "name exchange"
	case StatePlaying:
		return "playing"
	}
	return "disconnected"
}

// Renderer draws a session. It never feeds anything back.
type Renderer interface {
	// Waiting is shown while the host waits for a client
	Waiting(addr string)
	// Names is called once both names are known. The host is always left.
	Names(host, client string)
	// Draw redraws scores, paddles and ball
	Draw(m *game.Match)
}

// Config holds everything a session needs to run
type Config struct {
	Role    Role
	Addr    string
	Name    string
	Tick    time.Duration
	Timeout time.Duration // bound on every network read and write
	Arena   game.Arena
	Logger  *zap.Logger
}

// Session is one peer's game
type Session struct {
	cfg      Config
	source   control.Source
	renderer Renderer
	log      *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	codec    *protocol.Codec
	state    State
	closed   bool

	match      *game.Match
	hostName   string
	clientName string
}

// New creates a session. Zero Tick, Timeout and Arena take defaults.
func New(cfg Config, source control.Source, renderer Renderer) *Session {
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Tick * DefaultTimeoutTicks
	}
	if cfg.Arena == (game.Arena{}) {
		cfg.Arena = game.DefaultArena()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = nopRenderer{}
	}
	cfg.Name = protocol.Truncate(cfg.Name)

	return &Session{
		cfg:      cfg,
		source:   source,
		renderer: renderer,
		log:      cfg.Logger.With(zap.Stringer("role", cfg.Role), zap.String("name", cfg.Name)),
		match:    game.NewMatch(cfg.Arena),
	}
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	prev := s.state
	s.state = state
	s.mu.Unlock()

	if prev != state {
		s.log.Debug("state change", zap.Stringer("from", prev), zap.Stringer("to", state))
	}
}

// Match returns the local game state
func (s *Session) Match() *game.Match {
	return s.match
}

// Names returns the host and client names once exchanged
func (s *Session) Names() (string, string) {
	return s.hostName, s.clientName
}

// Listen binds the host's listener. Connect calls it when needed.
func (s *Session) Listen(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}
	var lc net.ListenConfig
	l, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return &ConnectionError{Role: RoleHost, Addr: s.cfg.Addr, Err: errors.Wrap(err, "listen")}
	}
	s.listener = l
	return nil
}

// Addr returns the listening address of a host, or the peer of a client
func (s *Session) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr()
	}
	if s.codec != nil {
		return s.codec.RemoteAddr()
	}
	return nil
}

// Connect establishes the single game connection: the host accepts exactly
// one client, the client dials the host.
func (s *Session) Connect(ctx context.Context) error {
	s.setState(StateConnecting)

	var conn net.Conn
	var err error
	if s.cfg.Role == RoleHost {
		conn, err = s.accept(ctx)
	} else {
		d := net.Dialer{Timeout: dialTimeout}
		conn, err = d.DialContext(ctx, "tcp", s.cfg.Addr)
		if err != nil {
			err = &ConnectionError{Role: RoleJoin, Addr: s.cfg.Addr, Err: errors.Wrap(err, "dial")}
		}
	}
	if err != nil {
		s.setState(StateDisconnected)
		return err
	}

	s.mu.Lock()
	s.codec = protocol.NewCodec(conn, s.cfg.Timeout)
	if s.closed {
		conn.Close()
	}
	s.mu.Unlock()

	s.log.Info("connected", zap.Stringer("peer", conn.RemoteAddr()))
	return nil
}

func (s *Session) accept(ctx context.Context) (net.Conn, error) {
	if err := s.Listen(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l == nil {
		return nil, &ConnectionError{Role: RoleHost, Addr: s.cfg.Addr, Err: net.ErrClosed}
	}
	s.renderer.Waiting(l.Addr().String())

	stop := context.AfterFunc(ctx, func() {
		l.Close()
	})
	defer stop()

	conn, err := l.Accept()

	// Only one client is ever accepted
	s.mu.Lock()
	l.Close()
	s.listener = nil
	closed := s.closed
	s.mu.Unlock()

	if err == nil && closed {
		conn.Close()
		err = net.ErrClosed
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ConnectionError{Role: RoleHost, Addr: s.cfg.Addr, Err: errors.Wrap(err, "accept")}
	}
	return conn, nil
}

// ExchangeNames swaps the fixed-width names. The host sends first and the
// client receives first; swapping that order stalls both peers until their
// timeouts fire.
func (s *Session) ExchangeNames() error {
	s.setState(StateNameExchange)

	if s.cfg.Role == RoleHost {
		if err := s.codec.WriteField(s.cfg.Name); err != nil {
			return s.peerError("send name", err)
		}
		peer, err := s.codec.ReadField()
		if err != nil {
			return s.peerError("receive name", err)
		}
		s.hostName, s.clientName = s.cfg.Name, peer
	} else {
		peer, err := s.codec.ReadField()
		if err != nil {
			return s.peerError("receive name", err)
		}
		if err := s.codec.WriteField(s.cfg.Name); err != nil {
			return s.peerError("send name", err)
		}
		s.hostName, s.clientName = peer, s.cfg.Name
	}

	s.log.Info("names exchanged", zap.String("host", s.hostName), zap.String("client", s.clientName))
	s.renderer.Names(s.hostName, s.clientName)
	s.setState(StatePlaying)
	return nil
}

// Tick runs one iteration of the playing state for this peer's role
func (s *Session) Tick(ctx context.Context) error {
	if s.cfg.Role == RoleHost {
		return s.hostTick(ctx)
	}
	return s.joinTick(ctx)
}

func (s *Session) hostTick(ctx context.Context) error {
	s.logGoal(s.match.Advance())

	action, err := s.localAction(ctx)
	if err != nil {
		return err
	}

	frame := &protocol.HostFrame{Action: action.String(), Ball: s.match.Ball.Snapshot()}
	if err := s.codec.WriteFrame(frame); err != nil {
		return s.peerError("send frame", err)
	}

	token, err := s.codec.ReadField()
	if err != nil {
		return s.peerError("receive action", err)
	}
	s.match.Apply(protocol.SideRight, protocol.ParseAction(token))
	return nil
}

func (s *Session) joinTick(ctx context.Context) error {
	action, err := s.localAction(ctx)
	if err != nil {
		return err
	}

	if err := s.codec.WriteField(action.String()); err != nil {
		return s.peerError("send action", err)
	}

	frame, err := s.codec.ReadFrame()
	if err != nil {
		return s.peerError("receive frame", err)
	}
	s.match.Apply(protocol.SideLeft, protocol.ParseAction(frame.Action))
	s.match.Ball.Restore(frame.Ball)

	s.logGoal(s.match.Advance())
	return nil
}

// localAction polls the source and applies the move to our own paddle.
// Moves that are not applied are reported to the peer as no action.
func (s *Session) localAction(ctx context.Context) (protocol.Action, error) {
	side := s.cfg.Role.Side()
	action := s.source.Action(ctx, control.ViewOf(s.match, side))

	if action == protocol.ActionQuit {
		s.log.Info("quit")
		s.setState(StateDisconnected)
		s.Close()
		return protocol.ActionNone, ErrQuit
	}
	if !s.match.Apply(side, action) {
		action = protocol.ActionNone
	}
	return action, nil
}

func (s *Session) logGoal(side protocol.Side) {
	if side == protocol.SideNone {
		return
	}
	left, right := s.match.Score()
	s.log.Info("goal", zap.Stringer("scorer", side), zap.Int("left", left), zap.Int("right", right))
}

func (s *Session) peerError(op string, err error) error {
	return &PeerIOError{State: s.State(), Op: op, Err: err}
}

// Run drives the whole session until quit, cancellation or disconnect.
// Draws happen after every tick; the tick interval caps the loop rate.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()

	if err := s.Connect(ctx); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() {
		s.Close()
	})
	defer stop()

	if err := s.ExchangeNames(); err != nil {
		return s.fail(ctx, err)
	}
	s.renderer.Draw(s.match)

	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		if err := s.Tick(ctx); err != nil {
			if errors.Is(err, ErrQuit) {
				return err
			}
			return s.fail(ctx, err)
		}
		s.renderer.Draw(s.match)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Session) fail(ctx context.Context, err error) error {
	s.setState(StateDisconnected)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.log.Warn("disconnected", zap.Error(err))
	return err
}

// Close tears down the connection and any listener. Safe to call repeatedly.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.listener != nil {
		err = s.listener.Close()
		s.listener = nil
	}
	if s.codec != nil {
		err = s.codec.Close()
	}
	return err
}

type nopRenderer struct{}

func (nopRenderer) Waiting(string) {}

func (nopRenderer) Names(string, string) {}

func (nopRenderer) Draw(*game.Match) {}
