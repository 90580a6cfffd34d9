package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/termspong/spong/internal/game"
)

const (
	sampleRate = beep.SampleRate(44100)
	volume     = 0.2
)

var output struct {
	sync.Mutex
	ready bool
}

// Init opens the speaker. Cues are silent until it succeeds.
func Init() error {
	output.Lock()
	defer output.Unlock()
	if output.ready {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/30)); err != nil {
		return err
	}
	output.ready = true
	return nil
}

// Close releases the speaker
func Close() {
	output.Lock()
	defer output.Unlock()
	if output.ready {
		speaker.Close()
		output.ready = false
	}
}

func ready() bool {
	output.Lock()
	defer output.Unlock()
	return output.ready
}

// Cue is a sound worth playing after a tick
type Cue int

const (
	CueNone Cue = iota
	CueWall
	CuePaddle
	CueGoal
)

// note is one square-wave beep
type note struct {
	freq float64
	dur  time.Duration
}

var cueNotes = map[Cue][]note{
	CueWall:   {{440, 30 * time.Millisecond}},
	CuePaddle: {{880, 50 * time.Millisecond}},
	CueGoal: {
		{660, 100 * time.Millisecond},
		{440, 100 * time.Millisecond},
		{330, 150 * time.Millisecond},
	},
}

// Play emits the notes for c, one after another. CueNone is silent.
func Play(c Cue) {
	notes := cueNotes[c]
	if len(notes) == 0 || !ready() {
		return
	}
	streams := make([]beep.Streamer, len(notes))
	for i, n := range notes {
		streams[i] = n.square()
	}
	speaker.Play(beep.Seq(streams...))
}

// square renders the note as an 8-bit style square wave
func (n note) square() beep.Streamer {
	left := sampleRate.N(n.dur)
	period := float64(sampleRate) / n.freq
	pos := 0.0

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			if left <= 0 {
				return i, false
			}
			v := volume
			if pos >= period/2 {
				v = -volume
			}
			samples[i][0], samples[i][1] = v, v
			if pos++; pos >= period {
				pos -= period
			}
			left--
		}
		return len(samples), true
	})
}

// Frame is the part of a match that cues are derived from
type Frame struct {
	VX, VY     int
	LeftScore  int
	RightScore int
}

// FrameOf captures the cue-relevant state of m
func FrameOf(m *game.Match) Frame {
	return Frame{
		VX:         m.Ball.VX,
		VY:         m.Ball.VY,
		LeftScore:  m.Left.Score,
		RightScore: m.Right.Score,
	}
}

// Detect compares two consecutive frames. A score change wins over a
// horizontal flip (paddle), which wins over a vertical flip (wall).
func Detect(prev, cur Frame) Cue {
	switch {
	case prev.LeftScore != cur.LeftScore || prev.RightScore != cur.RightScore:
		return CueGoal
	case flipped(prev.VX, cur.VX):
		return CuePaddle
	case flipped(prev.VY, cur.VY):
		return CueWall
	}
	return CueNone
}

func flipped(a, b int) bool {
	return (a < 0 && b > 0) || (a > 0 && b < 0)
}

// Tracker remembers the previous frame so each tick yields at most one cue
type Tracker struct {
	prev   Frame
	primed bool
}

// Observe returns the cue for m relative to the last observed match
func (t *Tracker) Observe(m *game.Match) Cue {
	cur := FrameOf(m)
	if !t.primed {
		t.prev, t.primed = cur, true
		return CueNone
	}
	c := Detect(t.prev, cur)
	t.prev = cur
	return c
}
