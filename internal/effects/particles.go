package effects

import (
	"math/rand/v2"
	"time"
)

// ParticleColors are the hues used by the drift effect.
var ParticleColors = []string{"#00ff41", "#00d4ff", "#ff0040", "#ffaa00", "#ff41ff"}

const (
	maxParticles     = 50
	particleSpawnFor = 10 * time.Second
	particleGravity  = 0.05
)

type particle struct {
	x, y, vx, vy float64
	life, maxLife int
	color        string
}

// Particles is the drift of colored sparks shown after the special login.
// It spawns for ten seconds, then lets the remaining sparks burn out.
type Particles struct {
	w, h      int
	parts     []particle
	spawnStop time.Time
	rng       *rand.Rand
}

// NewParticles starts a drift over a w×h area.
func NewParticles(w, h int, now time.Time) *Particles {
	return &Particles{
		w:         w,
		h:         h,
		spawnStop: now.Add(particleSpawnFor),
		rng:       rand.New(rand.NewPCG(uint64(now.UnixNano()), 0x7061)),
	}
}

// Resize changes the drift area.
func (p *Particles) Resize(w, h int) {
	p.w, p.h = w, h
}

// Step advances every spark by one frame and spawns new ones while the
// spawn window is open. It reports whether anything is left to draw.
func (p *Particles) Step(now time.Time) bool {
	kept := p.parts[:0]
	for _, pt := range p.parts {
		pt.x += pt.vx
		pt.y += pt.vy
		pt.vy += particleGravity
		pt.life++
		if pt.life < pt.maxLife && pt.x > -2 && pt.x < float64(p.w+2) && pt.y > -2 && pt.y < float64(p.h+2) {
			kept = append(kept, pt)
		}
	}
	p.parts = kept

	if now.Before(p.spawnStop) && p.w > 0 && p.h > 0 {
		for len(p.parts) < maxParticles {
			p.parts = append(p.parts, p.spawn())
		}
	}
	return len(p.parts) > 0
}

func (p *Particles) spawn() particle {
	return particle{
		x:       p.rng.Float64() * float64(p.w),
		y:       p.rng.Float64() * float64(p.h),
		vx:      (p.rng.Float64() - 0.5) * 1.5,
		vy:      (p.rng.Float64() - 0.5) * 0.75,
		maxLife: 30 + p.rng.IntN(60),
		color:   ParticleColors[p.rng.IntN(len(ParticleColors))],
	}
}

// Len returns the number of live sparks.
func (p *Particles) Len() int {
	return len(p.parts)
}

// Dots returns the sparks that fall inside the drift area.
func (p *Particles) Dots() []Dot {
	dots := make([]Dot, 0, len(p.parts))
	for _, pt := range p.parts {
		x, y := int(pt.x), int(pt.y)
		if x < 0 || y < 0 || x >= p.w || y >= p.h {
			continue
		}
		fade := 1 - float64(pt.life)/float64(pt.maxLife)
		glyph := "·"
		if fade > 0.5 {
			glyph = "•"
		}
		dots = append(dots, Dot{X: x, Y: y, Glyph: glyph, Color: pt.color, Fade: fade})
	}
	return dots
}
