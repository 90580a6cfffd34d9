package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/termspong/spong/internal/config"
	"github.com/termspong/spong/internal/game"
	"github.com/termspong/spong/internal/remote"
	"github.com/termspong/spong/internal/ui"
)

const shutdownTimeout = 5 * time.Second

// RemoteApp is the terminal remote controller
type RemoteApp struct {
	cfg      *config.RemoteConfig
	log      *zap.Logger
	screen   *ui.Screen
	renderer *ui.Renderer
	ctl      *remote.Controller
}

// NewRemoteApp creates a remote controller app
func NewRemoteApp(cfg *config.RemoteConfig) *RemoteApp {
	return &RemoteApp{cfg: cfg, log: zap.NewNop()}
}

// Run connects once and then handles keys until the user quits.
// Reconnecting after a drop is always up to the user.
func (a *RemoteApp) Run() error {
	log, err := NewLogger(a.cfg.LogFile)
	if err != nil {
		return err
	}
	a.log = log
	defer a.log.Sync()

	screen, err := ui.InitScreen()
	if err != nil {
		return errors.Wrap(err, "failed to initialize screen")
	}
	a.screen = screen
	defer a.screen.Fini()
	a.renderer = ui.NewRenderer(screen, game.DefaultArena())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.ctl = remote.NewController(remote.Config{
		Addr:   a.cfg.Addr(),
		Name:   a.cfg.Name,
		Logger: a.log,
		OnChange: func(s remote.Snapshot) {
			// Redraw on the UI goroutine
			a.screen.PostEvent(tcell.NewEventInterrupt(s))
		},
	})
	defer a.ctl.Close()

	a.render(a.ctl.Snapshot())
	go a.ctl.Connect(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			a.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-ctx.Done():
		}
	}()

	for {
		switch ev := a.screen.PollEvent().(type) {
		case nil:
			return nil

		case *tcell.EventInterrupt:
			s, ok := ev.Data().(remote.Snapshot)
			if !ok {
				return nil
			}
			a.render(s)

		case *tcell.EventKey:
			if !a.handleKey(ctx, ev) {
				return nil
			}

		case *tcell.EventResize:
			a.render(a.ctl.Snapshot())
		}
	}
}

// handleKey returns false when the user quits
func (a *RemoteApp) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	if ui.IsQuitKey(ev.Key(), ev.Rune()) {
		return false
	}
	if ui.IsConnectKey(ev.Key(), ev.Rune()) {
		go a.ctl.Connect(ctx)
		return true
	}
	if action := ui.KeyToAction(ev.Key(), ev.Rune()); action.IsMove() {
		a.ctl.Press(action)
	}
	return true
}

func (a *RemoteApp) render(s remote.Snapshot) {
	a.renderer.RenderRemote(Panel(a.cfg.Addr(), a.cfg.Name, s))
}

// Panel converts a controller snapshot into what the remote screen shows
func Panel(addr, name string, s remote.Snapshot) ui.RemotePanel {
	p := ui.RemotePanel{
		Addr:      addr,
		Name:      name,
		Host:      s.Host,
		Status:    s.Status.String(),
		Connected: s.Status == remote.StatusConnected,
	}
	if s.Last.IsMove() {
		p.Last = s.Last.String()
	}
	if s.Err != nil {
		p.Err = s.Err.Error()
	}
	return p
}

// RunWeb serves the browser remote until SIGINT or SIGTERM
func RunWeb(cfg *config.WebConfig) error {
	// No terminal UI here, so log to stderr unless a file is given
	log, err := zap.NewDevelopment()
	if cfg.LogFile != "" {
		log, err = NewLogger(cfg.LogFile)
	}
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	defer log.Sync()

	bridge := remote.NewBridge(remote.BridgeConfig{
		HostAddr: cfg.Addr(),
		Logger:   log,
	})
	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: bridge.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("web remote listening", zap.String("listen", cfg.Listen), zap.String("host", cfg.Addr()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
