package audio

import (
	"io"
	"slices"
	"sync"
	"time"
)

// Emitter plays cues. Implementations must not block the caller.
type Emitter interface {
	Play(Cue)
}

// Nop discards every cue.
type Nop struct{}

// Play does nothing.
func (Nop) Play(Cue) {}

// BellCues are the cues loud enough to ring the terminal bell.
var BellCues = []Cue{CueBoot, CueSelect, CueError}

// Bell rings the terminal bell for a subset of cues, at most once per
// Throttle.
type Bell struct {
	// Throttle is the minimum gap between two rings.
	Throttle time.Duration

	mu   sync.Mutex
	w    io.Writer
	cues []Cue
	last time.Time
	now  func() time.Time
}

// NewBell rings on w for the given cues, or BellCues when none are given.
func NewBell(w io.Writer, cues ...Cue) *Bell {
	if len(cues) == 0 {
		cues = BellCues
	}
	return &Bell{Throttle: 100 * time.Millisecond, w: w, cues: cues, now: time.Now}
}

// Play writes BEL when c is one of the bell cues.
func (b *Bell) Play(c Cue) {
	if !slices.Contains(b.cues, c) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	if !b.last.IsZero() && now.Sub(b.last) < b.Throttle {
		return
	}
	b.last = now
	_, _ = io.WriteString(b.w, "\a")
}

// Recorder remembers every cue it is asked to play.
type Recorder struct {
	mu   sync.Mutex
	cues []Cue
}

// Play records c.
func (r *Recorder) Play(c Cue) {
	r.mu.Lock()
	r.cues = append(r.cues, c)
	r.mu.Unlock()
}

// Cues returns the recorded cues in order.
func (r *Recorder) Cues() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.cues)
}

// Reset forgets the recorded cues.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.cues = nil
	r.mu.Unlock()
}
