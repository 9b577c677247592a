// Package audio describes the short synthetic cues the desktop plays on UI
// events and provides emitters for them. Terminals cannot synthesize tones,
// so the emitters either ring the bell or record what would have played.
package audio

import (
	"fmt"
	"strings"
	"time"
)

// Cue names a UI sound.
type Cue int

const (
	CueBoot Cue = iota
	CueKey
	CueSelect
	CueSwitch
	CueError
	CueScan
)

// Cues lists every cue.
var Cues = []Cue{CueBoot, CueKey, CueSelect, CueSwitch, CueError, CueScan}

var cueNames = map[Cue]string{
	CueBoot:   "boot",
	CueKey:    "key",
	CueSelect: "select",
	CueSwitch: "switch",
	CueError:  "error",
	CueScan:   "scan",
}

func (c Cue) String() string {
	if name, ok := cueNames[c]; ok {
		return name
	}
	return fmt.Sprintf("cue(%d)", int(c))
}

// ParseCue returns the cue with the given name.
func ParseCue(name string) (Cue, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range cueNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("audio: unknown cue %q", name)
}

// Wave is an oscillator shape.
type Wave string

const (
	Sine     Wave = "sine"
	Square   Wave = "square"
	Sawtooth Wave = "sawtooth"
)

// Tone is one beep of a cue, started Delay after the cue begins.
type Tone struct {
	Frequency float64
	Duration  time.Duration
	Wave      Wave
	Delay     time.Duration
}

// Score returns the tones that make up c.
func Score(c Cue) []Tone {
	ms := time.Millisecond
	switch c {
	case CueBoot:
		return []Tone{
			{800, 100 * ms, Sine, 0},
			{1000, 100 * ms, Sine, 100 * ms},
			{1200, 200 * ms, Sine, 200 * ms},
		}
	case CueKey:
		return []Tone{{1000, 50 * ms, Square, 0}}
	case CueSelect:
		return []Tone{{1500, 100 * ms, Sine, 0}}
	case CueSwitch:
		return []Tone{
			{600, 100 * ms, Sine, 0},
			{800, 100 * ms, Sine, 50 * ms},
		}
	case CueError:
		return []Tone{{300, 300 * ms, Sawtooth, 0}}
	case CueScan:
		tones := make([]Tone, 5)
		for i := range tones {
			tones[i] = Tone{800 + float64(i)*100, 100 * ms, Sine, time.Duration(i) * 100 * ms}
		}
		return tones
	}
	return nil
}

// Length returns how long the cue plays from its first tone to the end of
// its last.
func Length(c Cue) time.Duration {
	var end time.Duration
	for _, t := range Score(c) {
		end = max(end, t.Delay+t.Duration)
	}
	return end
}

// VolumeSweep returns the start and end frequency of the whoosh played when
// the audio console volume changes.
func VolumeSweep(volume int) (float64, float64) {
	start := 200 + float64(min(max(volume, 0), 100))/100*800
	return start, start * 1.5
}
