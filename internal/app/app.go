package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/termspong/spong/internal/audio"
	"github.com/termspong/spong/internal/config"
	"github.com/termspong/spong/internal/control"
	"github.com/termspong/spong/internal/game"
	"github.com/termspong/spong/internal/session"
	"github.com/termspong/spong/internal/ui"
)

const keyBufferSize = 16

// App wires the terminal, a session and its action source together.
type App struct {
	cfg      *config.Config
	log      *zap.Logger
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *session.Session

	keys    chan *tcell.EventKey
	sigChan chan os.Signal
}

// NewApp creates a new App instance with the given configuration.
func NewApp(cfg *config.Config) *App {
	return &App{
		cfg:  cfg,
		log:  zap.NewNop(),
		keys: make(chan *tcell.EventKey, keyBufferSize),
	}
}

// Run is the main entry point for the application.
// It returns nil when the player quits or cancels, and the session's error
// after it has been shown on screen otherwise.
func (a *App) Run() error {
	log, err := NewLogger(a.cfg.LogFile)
	if err != nil {
		return err
	}
	a.log = log
	defer a.log.Sync()

	if !a.cfg.Mute {
		// The game works without sound
		if err := audio.Init(); err != nil {
			a.log.Warn("audio unavailable", zap.Error(err))
		}
	}

	screen, err := ui.InitScreen()
	if err != nil {
		a.cleanup()
		return errors.Wrap(err, "failed to initialize screen")
	}
	a.screen = screen

	w, h := screen.Size()
	if err := config.CheckScreen(w, h, ui.MinScreenWidth, ui.MinScreenHeight, ui.MsgScreenSmall); err != nil {
		a.cleanup()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.sigChan = make(chan os.Signal, 1)
	signal.Notify(a.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-a.sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	arena := game.DefaultArena()
	a.renderer = ui.NewRenderer(screen, arena)

	role := session.RoleJoin
	if a.cfg.IsHost {
		role = session.RoleHost
	}
	source := control.New(control.Options{
		Name:          a.cfg.PlayerName,
		AIName:        a.cfg.AIName,
		Atrociousness: a.cfg.Atrociousness,
		Tick:          a.cfg.Tick,
		Keys:          a.keys,
	})
	a.session = session.New(session.Config{
		Role:    role,
		Addr:    a.cfg.Addr(),
		Name:    a.cfg.PlayerName,
		Tick:    a.cfg.Tick,
		Timeout: a.cfg.Timeout(),
		Arena:   arena,
		Logger:  a.log,
	}, source, &cueRenderer{Renderer: a.renderer})

	a.log.Info("starting",
		zap.Stringer("role", role),
		zap.String("addr", a.cfg.Addr()),
		zap.Bool("ai", a.cfg.IsAI()),
	)

	go a.pumpEvents(cancel)

	runErr := a.finish(ctx, a.session.Run(ctx))
	a.cleanup()
	return runErr
}

// pumpEvents forwards key presses to the action source. Outside of play a
// quit key cancels the run instead, so a waiting host can be stopped.
func (a *App) pumpEvents(cancel context.CancelFunc) {
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		key, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		if ui.IsQuitKey(key.Key(), key.Rune()) && a.session.State() != session.StatePlaying {
			cancel()
		}
		select {
		case a.keys <- key:
		default:
			// Drop keys the source has not caught up with
		}
	}
}

// finish shows the outcome of a session and maps it to the process result
func (a *App) finish(ctx context.Context, err error) error {
	var connErr *session.ConnectionError
	var peerErr *session.PeerIOError

	switch {
	case err == nil, errors.Is(err, session.ErrQuit), errors.Is(err, context.Canceled):
		return nil

	case errors.As(err, &connErr):
		msg := ui.MsgCantJoin
		if connErr.Role == session.RoleHost {
			msg = ui.MsgCantHost
		}
		a.log.Error("connection failed", zap.Error(err))
		a.renderer.Message(msg)
		a.waitKey(ctx)
		return err

	case errors.As(err, &peerErr):
		a.log.Error("peer lost", zap.Error(err), zap.Bool("timeout", peerErr.Timeout()))
		a.renderer.Disconnected()
		a.waitKey(ctx)
		return err
	}

	return err
}

// waitKey blocks until the next key press or cancellation
func (a *App) waitKey(ctx context.Context) {
	for {
		select {
		case <-a.keys:
		default:
			select {
			case <-a.keys:
			case <-ctx.Done():
			}
			return
		}
	}
}

// cleanup shuts down all resources.
func (a *App) cleanup() {
	audio.Close()

	if a.session != nil {
		a.session.Close()
	}

	if a.screen != nil {
		a.screen.Fini()
	}

	if a.sigChan != nil {
		signal.Stop(a.sigChan)
	}
}

// cueRenderer plays a sound for each paddle hit, wall bounce or goal it draws
type cueRenderer struct {
	*ui.Renderer
	cues audio.Tracker
}

func (r *cueRenderer) Draw(m *game.Match) {
	r.Renderer.Draw(m)
	audio.Play(r.cues.Observe(m))
}
