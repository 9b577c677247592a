package audio

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestScore(t *testing.T) {
	tests := []struct {
		cue    Cue
		tones  int
		length time.Duration
		first  float64
	}{
		{CueBoot, 3, 400 * time.Millisecond, 800},
		{CueKey, 1, 50 * time.Millisecond, 1000},
		{CueSelect, 1, 100 * time.Millisecond, 1500},
		{CueSwitch, 2, 150 * time.Millisecond, 600},
		{CueError, 1, 300 * time.Millisecond, 300},
		{CueScan, 5, 500 * time.Millisecond, 800},
	}
	for _, tt := range tests {
		t.Run(tt.cue.String(), func(t *testing.T) {
			score := Score(tt.cue)
			if len(score) != tt.tones {
				t.Fatalf("tones = %d, want %d", len(score), tt.tones)
			}
			if score[0].Frequency != tt.first {
				t.Errorf("first frequency = %v, want %v", score[0].Frequency, tt.first)
			}
			if got := Length(tt.cue); got != tt.length {
				t.Errorf("Length = %v, want %v", got, tt.length)
			}
		})
	}

	if Score(CueScan)[4].Frequency != 1200 {
		t.Error("scan should climb to 1200Hz")
	}
	if Score(CueError)[0].Wave != Sawtooth || Score(CueKey)[0].Wave != Square {
		t.Error("wave shapes changed")
	}
}

func TestParseCue(t *testing.T) {
	for _, c := range Cues {
		got, err := ParseCue(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCue(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCue("fanfare"); err == nil {
		t.Error("unknown cue parsed")
	}
}

func TestBellRingsSelectedCues(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf)
	clock := time.Unix(0, 0)
	b.now = func() time.Time { return clock }

	b.Play(CueKey)
	if buf.Len() != 0 {
		t.Error("key cue rang the bell")
	}

	b.Play(CueError)
	b.Play(CueSelect) // throttled
	clock = clock.Add(time.Second)
	b.Play(CueBoot)

	if got := buf.String(); got != "\a\a" {
		t.Errorf("bell output = %q, want two rings", got)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	var e Emitter = &r
	e.Play(CueSwitch)
	e.Play(CueScan)
	if diff := cmp.Diff([]Cue{CueSwitch, CueScan}, r.Cues()); diff != "" {
		t.Errorf("recorded (-want +got):\n%s", diff)
	}
	r.Reset()
	if len(r.Cues()) != 0 {
		t.Error("Reset kept cues")
	}
	Nop{}.Play(CueBoot)
}

func TestVolumeSweep(t *testing.T) {
	start, end := VolumeSweep(75)
	if start != 800 || end != 1200 {
		t.Errorf("VolumeSweep(75) = %v, %v", start, end)
	}
	if s, _ := VolumeSweep(500); s != 1000 {
		t.Errorf("volume not clamped: %v", s)
	}
}
