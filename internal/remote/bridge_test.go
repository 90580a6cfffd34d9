package remote

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestBridge(t *testing.T, hostAddr string) (*Bridge, *httptest.Server) {
	t.Helper()
	b := NewBridge(BridgeConfig{HostAddr: hostAddr, Tick: testTick, Timeout: testTimeout})
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return b, srv
}

func dialBridge(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

// readUntil reads status messages until one has the wanted status
func readUntil(t *testing.T, ws *websocket.Conn, want string) StatusMsg {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg StatusMsg
		if err := ws.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q: %v", want, err)
		}
		if msg.Status == want {
			return msg
		}
	}
}

func TestBridge_Page(t *testing.T) {
	_, srv := newTestBridge(t, "127.0.0.1:1")

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "/ws") {
		t.Error("page should open the websocket")
	}

	resp, err = http.Get(srv.URL + "/missing")
	if err != nil {
		t.Fatalf("GET /missing: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestBridge_ConnectAndPress(t *testing.T) {
	h := newFakeHost(t)
	b, srv := newTestBridge(t, h.Addr())
	ws := dialBridge(t, srv)

	first := readUntil(t, ws, "Disconnected")
	if len(first.ID) != 8 {
		t.Errorf("expected an 8 character id, got %q", first.ID)
	}
	if b.Count() != 1 {
		t.Errorf("expected 1 browser, got %d", b.Count())
	}

	if err := ws.WriteJSON(ClientMsg{Type: "connect", Name: "phone"}); err != nil {
		t.Fatalf("write connect: %v", err)
	}
	msg := readUntil(t, ws, "Connected")
	if msg.Host != "Felipe" {
		t.Errorf("expected host 'Felipe', got '%s'", msg.Host)
	}
	select {
	case name := <-h.name:
		if name != "phone" {
			t.Errorf("expected host to receive 'phone', got '%s'", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("host never received the name")
	}

	if err := ws.WriteJSON(ClientMsg{Type: "press", Action: "down"}); err != nil {
		t.Fatalf("write press: %v", err)
	}
	h.waitFor("down")

	ws.Close()
	deadline := time.Now().Add(2 * time.Second)
	for b.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if b.Count() != 0 {
		t.Errorf("expected browser to be removed, %d left", b.Count())
	}
}

func TestBridge_HostUnreachable(t *testing.T) {
	_, srv := newTestBridge(t, "127.0.0.1:1")
	ws := dialBridge(t, srv)
	readUntil(t, ws, "Disconnected")

	if err := ws.WriteJSON(ClientMsg{Type: "connect", Name: "phone"}); err != nil {
		t.Fatalf("write connect: %v", err)
	}
	readUntil(t, ws, "Connecting")
	msg := readUntil(t, ws, "Disconnected")
	if msg.Error == "" {
		t.Error("expected an error for an unreachable host")
	}
}
