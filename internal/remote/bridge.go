package remote

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/termspong/spong/internal/protocol"
)

//go:embed page.html
var pageHTML []byte

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// BridgeConfig configures a web bridge
type BridgeConfig struct {
	HostAddr string
	Tick     time.Duration
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Bridge serves a control page and gives each browser WebSocket its own
// controller connection to the game host.
type Bridge struct {
	cfg BridgeConfig
	log *zap.Logger

	mu      sync.Mutex
	clients map[string]*browserClient
}

type browserClient struct {
	id  string
	ws  *websocket.Conn
	wmu sync.Mutex
	ctl *Controller
}

// ClientMsg is sent by the browser
type ClientMsg struct {
	Type   string `json:"type"` // connect, press or disconnect
	Name   string `json:"name,omitempty"`
	Action string `json:"action,omitempty"`
}

// StatusMsg is sent to the browser after every status change
type StatusMsg struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Status string `json:"status"`
	Host   string `json:"host,omitempty"`
	Last   string `json:"last,omitempty"`
	Error  string `json:"error,omitempty"`
}

// NewBridge creates a bridge to the host at cfg.HostAddr
func NewBridge(cfg BridgeConfig) *Bridge {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Bridge{
		cfg:     cfg,
		log:     cfg.Logger.With(zap.String("host_addr", cfg.HostAddr)),
		clients: make(map[string]*browserClient),
	}
}

// Handler returns the bridge's HTTP routes
func (b *Bridge) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", b.handlePage)
	mux.HandleFunc("/ws", b.handleWS)
	mux.HandleFunc("/status", b.handleStatus)
	return mux
}

// Count returns the number of open browser connections
func (b *Bridge) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

func (b *Bridge) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	w.Write(pageHTML)
}

func (b *Bridge) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"host":    b.cfg.HostAddr,
		"clients": b.Count(),
	})
}

func (b *Bridge) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &browserClient{
		id: uuid.New().String()[:8],
		ws: conn,
	}
	log := b.log.With(zap.String("ws", client.id))

	b.mu.Lock()
	b.clients[client.id] = client
	b.mu.Unlock()
	log.Info("browser connected", zap.String("remote", r.RemoteAddr))

	defer func() {
		if client.ctl != nil {
			client.ctl.Close()
		}
		b.mu.Lock()
		delete(b.clients, client.id)
		b.mu.Unlock()
		log.Info("browser disconnected")
	}()

	client.send(StatusMsg{Type: "status", ID: client.id, Status: StatusDisconnected.String()})

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "connect":
			if client.ctl != nil {
				if client.ctl.Snapshot().Status != StatusDisconnected {
					continue
				}
				client.ctl.Close()
			}
			name := msg.Name
			if name == "" {
				name = "web"
			}
			client.ctl = NewController(Config{
				Addr:     b.cfg.HostAddr,
				Name:     name,
				Tick:     b.cfg.Tick,
				Timeout:  b.cfg.Timeout,
				Logger:   log,
				OnChange: client.onChange,
			})
			go client.ctl.Connect(ctx)

		case "press":
			if client.ctl != nil {
				client.ctl.Press(protocol.ParseAction(msg.Action))
			}

		case "disconnect":
			if client.ctl != nil {
				client.ctl.Disconnect()
			}
		}
	}
}

func (c *browserClient) onChange(s Snapshot) {
	msg := StatusMsg{
		Type:   "status",
		ID:     c.id,
		Status: s.Status.String(),
		Host:   s.Host,
	}
	if s.Last.IsMove() {
		msg.Last = s.Last.String()
	}
	if s.Err != nil {
		msg.Error = s.Err.Error()
	}
	c.send(msg)
}

func (c *browserClient) send(msg StatusMsg) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	c.ws.WriteJSON(msg)
}
