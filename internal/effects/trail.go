package effects

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Gaurav-Gosain/navi/internal/bus"
)

// Dot is one trail cell ready to draw.
type Dot struct {
	X, Y  int
	Glyph string
	Color string
	// Fade runs from 1 for a fresh point down to 0 when it expires.
	Fade float64
}

type trailPoint struct {
	x, y int
	born time.Time
}

// Trail records recent pointer positions and renders them as fading glyphs.
// It follows trail.changed on the bus until Close is called.
type Trail struct {
	cfg    TrailConfig
	points []trailPoint
	rng    *rand.Rand
	cancel func()
}

// NewTrail creates a trail with cfg. When b is non-nil the trail picks up
// settings published on bus.TrailChanged.
func NewTrail(cfg TrailConfig, b *bus.Bus) *Trail {
	t := &Trail{cfg: cfg, rng: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6e617669))}
	if b != nil {
		t.cancel = b.Subscribe(bus.TrailChanged, func(p any) {
			if c, ok := p.(TrailConfig); ok {
				t.SetConfig(c)
			}
		})
	}
	return t
}

// Close stops following the bus.
func (t *Trail) Close() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Config returns the settings in effect.
func (t *Trail) Config() TrailConfig {
	return t.cfg
}

// SetConfig swaps the settings. Disabling the trail drops every point.
func (t *Trail) SetConfig(c TrailConfig) {
	t.cfg = c
	if !c.Enabled {
		t.points = nil
	}
	if len(t.points) > c.Length {
		t.points = t.points[:max(c.Length, 0)]
	}
}

// Enabled reports whether pointer motion should be recorded.
func (t *Trail) Enabled() bool {
	return t.cfg.Enabled
}

// Len returns the number of live points.
func (t *Trail) Len() int {
	return len(t.points)
}

// Interval is how often expired points should be pruned.
func (t *Trail) Interval() time.Duration {
	return time.Duration(max(t.cfg.Speed, 1)) * time.Millisecond
}

func (t *Trail) maxAge() time.Duration {
	return time.Duration(max(t.cfg.FadeSpeed*t.cfg.Length, 1)) * time.Millisecond
}

// Add records the pointer at x, y. Particle-heavy presets scatter a few
// extra points around the pointer.
func (t *Trail) Add(x, y int, now time.Time) {
	if !t.cfg.Enabled || t.cfg.Length <= 0 {
		return
	}
	count := max(t.cfg.ParticleCount/5, 1)
	fresh := make([]trailPoint, 0, count)
	for i := range count {
		p := trailPoint{x: x, y: y, born: now}
		if i > 0 {
			p.x += t.rng.IntN(3) - 1
			p.y += t.rng.IntN(3) - 1
		}
		fresh = append(fresh, p)
	}
	t.points = append(fresh, t.points...)
	if len(t.points) > t.cfg.Length {
		t.points = t.points[:t.cfg.Length]
	}
}

// Prune drops points older than FadeSpeed×Length milliseconds and reports
// whether any remain.
func (t *Trail) Prune(now time.Time) bool {
	limit := t.maxAge()
	kept := t.points[:0]
	for _, p := range t.points {
		if now.Sub(p.born) < limit {
			kept = append(kept, p)
		}
	}
	t.points = kept
	return len(t.points) > 0
}

// Dots returns the live points, newest first, inside a w×h area.
func (t *Trail) Dots(now time.Time, w, h int) []Dot {
	limit := t.maxAge()
	dots := make([]Dot, 0, len(t.points))
	for i, p := range t.points {
		if p.x < 0 || p.y < 0 || p.x >= w || p.y >= h {
			continue
		}
		fade := 1 - float64(now.Sub(p.born))/float64(limit)
		if fade <= 0 {
			continue
		}
		dots = append(dots, Dot{
			X:     p.x,
			Y:     p.y,
			Glyph: t.glyph(fade, i),
			Color: t.color(i, len(t.points)),
			Fade:  fade * t.cfg.Opacity,
		})
	}
	return dots
}

var trailGlyphs = map[TrailType][]string{
	TrailDots:      {"●", "•", "·"},
	TrailLines:     {"━", "─", "╌"},
	TrailParticles: {"✦", "∗", "·"},
	TrailStars:     {"★", "☆", "✧"},
	TrailFire:      {"▲", "▴", "˙"},
	TrailElectric:  {"ϟ", "╱", "╲"},
	TrailRainbow:   {"●", "•", "·"},
}

func (t *Trail) glyph(fade float64, i int) string {
	glyphs, ok := trailGlyphs[t.cfg.Type]
	if !ok {
		glyphs = trailGlyphs[TrailDots]
	}
	if t.cfg.Type == TrailElectric {
		return glyphs[i%len(glyphs)]
	}
	switch {
	case fade > 0.66:
		return glyphs[0]
	case fade > 0.33:
		return glyphs[1]
	}
	return glyphs[2]
}

func (t *Trail) color(i, total int) string {
	if t.cfg.Type == TrailRainbow && total > 0 {
		return fmt.Sprintf("hsl(%d, 100%%, 50%%)", i*360/total)
	}
	return t.cfg.Color
}
