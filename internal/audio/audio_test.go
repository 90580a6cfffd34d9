package audio

import (
	"testing"
	"time"

	"github.com/termspong/spong/internal/game"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		prev Frame
		cur  Frame
		want Cue
	}{
		{"steady", Frame{VX: 1, VY: 1}, Frame{VX: 1, VY: 1}, CueNone},
		{"wall", Frame{VX: 1, VY: 1}, Frame{VX: 1, VY: -1}, CueWall},
		{"paddle", Frame{VX: -1, VY: 1}, Frame{VX: 1, VY: 1}, CuePaddle},
		{"paddle and wall", Frame{VX: -1, VY: 1}, Frame{VX: 1, VY: -1}, CuePaddle},
		{"straight return", Frame{VX: 1, VY: 0}, Frame{VX: -1, VY: 0}, CuePaddle},
		{"angle change only", Frame{VX: 1, VY: 0}, Frame{VX: 1, VY: 1}, CueNone},
		{"goal", Frame{VX: 1, VY: 1}, Frame{VX: -1, VY: -1, LeftScore: 1}, CueGoal},
		{"right goal", Frame{VX: -1}, Frame{VX: -1, RightScore: 1}, CueGoal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.prev, tt.cur); got != tt.want {
				t.Errorf("Detect = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTracker_Observe(t *testing.T) {
	m := game.NewMatch(game.DefaultArena())
	m.Ball.VX, m.Ball.VY = 1, 1
	var tr Tracker

	if c := tr.Observe(m); c != CueNone {
		t.Errorf("first observation should be silent, got %d", c)
	}

	m.Ball.VY = -1
	if c := tr.Observe(m); c != CueWall {
		t.Errorf("expected wall cue, got %d", c)
	}

	m.Left.Score++
	if c := tr.Observe(m); c != CueGoal {
		t.Errorf("expected goal cue, got %d", c)
	}
	if c := tr.Observe(m); c != CueNone {
		t.Errorf("expected no cue, got %d", c)
	}
}

func TestPlay_Uninitialized(t *testing.T) {
	// Without Init every cue is a no-op.
	for _, c := range []Cue{CueNone, CueWall, CuePaddle, CueGoal} {
		Play(c)
	}
}

func TestCueNotes(t *testing.T) {
	if len(cueNotes[CueNone]) != 0 {
		t.Error("CueNone must be silent")
	}
	for _, c := range []Cue{CueWall, CuePaddle, CueGoal} {
		if len(cueNotes[c]) == 0 {
			t.Errorf("cue %d has no notes", c)
		}
	}
	if len(cueNotes[CueGoal]) != 3 {
		t.Errorf("goal should be a three note run, got %d", len(cueNotes[CueGoal]))
	}
}

func TestNote_Square(t *testing.T) {
	n := note{freq: 441, dur: 10 * time.Millisecond}
	s := n.square()

	buf := make([][2]float64, 1000)
	total := 0
	for {
		got, ok := s.Stream(buf)
		for _, smp := range buf[:got] {
			if smp[0] != volume && smp[0] != -volume {
				t.Fatalf("unexpected sample %v", smp[0])
			}
		}
		total += got
		if !ok {
			break
		}
	}
	if want := sampleRate.N(n.dur); total != want {
		t.Errorf("expected %d samples, got %d", want, total)
	}
}
