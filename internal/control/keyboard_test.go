package control

import (
	"context"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/termspong/spong/internal/game"
	"github.com/termspong/spong/internal/protocol"
)

func TestKeyboard_NoInputIsNone(t *testing.T) {
	kb := NewKeyboard(make(chan *tcell.EventKey))

	if got := kb.Action(context.Background(), View{}); got != protocol.ActionNone {
		t.Errorf("expected none without pending keys, got %v", got)
	}
}

func TestKeyboard_OneKeyPerTick(t *testing.T) {
	keys := make(chan *tcell.EventKey, 4)
	keys <- tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)
	keys <- tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone)
	keys <- tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)
	keys <- tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)
	kb := NewKeyboard(keys)

	want := []protocol.Action{
		protocol.ActionUp,
		protocol.ActionDown,
		protocol.ActionNone,
		protocol.ActionQuit,
		protocol.ActionNone,
	}
	for i, w := range want {
		if got := kb.Action(context.Background(), View{}); got != w {
			t.Errorf("tick %d: got %v, want %v", i, got, w)
		}
	}
}

func TestKeyboard_ClosedChannel(t *testing.T) {
	keys := make(chan *tcell.EventKey)
	close(keys)

	if got := NewKeyboard(keys).Action(context.Background(), View{}); got != protocol.ActionNone {
		t.Errorf("expected none from closed channel, got %v", got)
	}
}

func TestNew_SelectsSource(t *testing.T) {
	if _, ok := New(Options{Name: "AI", AIName: "AI", Atrociousness: 10}).(*AI); !ok {
		t.Error("reserved name should select the AI")
	}
	if _, ok := New(Options{Name: "Ana", AIName: "AI"}).(*Keyboard); !ok {
		t.Error("other names should select the keyboard")
	}
	if _, ok := New(Options{Name: "", AIName: ""}).(*Keyboard); !ok {
		t.Error("empty AI name disables the AI")
	}
}

func TestViewOf(t *testing.T) {
	m := game.NewMatch(game.DefaultArena())
	m.Left.Y = 5
	m.Right.Y = 12
	m.Ball.Restore(protocol.BallState{X: 20, Y: 8, VX: 1, VY: -1})

	v := ViewOf(m, protocol.SideRight)
	if v.Column != m.Right.Column || v.Self != 12 || v.Opponent != 5 {
		t.Errorf("unexpected view %+v", v)
	}
	if v.Ball.X != 20 || v.Ball.VY != -1 {
		t.Errorf("unexpected ball in view %+v", v.Ball)
	}
}
