package effects

import (
	"math/rand/v2"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/navi/internal/ticker"
)

// Band is one horizontal strip of glitch noise.
type Band struct {
	X, Y int
	Text string
}

var noiseRunes = []rune("█▓▒░▚▞▖▗▘▝#%&@$")

// Glitch is a short visual pulse. Trigger raises the intensity and arms a
// one-shot reset; a newer pulse supersedes the reset of an older one.
type Glitch struct {
	intensity float64
	reset     *ticker.Task
	rng       *rand.Rand
}

// NewGlitch creates an idle glitch whose reset ticks carry id.
func NewGlitch(id string) *Glitch {
	return &Glitch{
		reset: ticker.Once(id, 0),
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x676c)),
	}
}

// Trigger sets the intensity and returns the command that clears it after d.
func (g *Glitch) Trigger(intensity float64, d time.Duration) tea.Cmd {
	g.intensity = intensity
	g.reset.SetInterval(d)
	return g.reset.Start()
}

// Handle clears the pulse when msg is its live reset tick.
func (g *Glitch) Handle(msg tea.Msg) bool {
	fired, _ := g.reset.Handle(msg)
	if fired {
		g.intensity = 0
	}
	return fired
}

// Stop cancels any pending reset and clears the pulse.
func (g *Glitch) Stop() {
	g.reset.Stop()
	g.intensity = 0
}

// Intensity returns the current pulse strength in [0, 1].
func (g *Glitch) Intensity() float64 {
	return g.intensity
}

// Active reports whether a pulse is showing.
func (g *Glitch) Active() bool {
	return g.intensity > 0
}

// Bands returns noise strips for a w×h screen. Stronger pulses produce more
// and wider strips; an idle glitch produces none.
func (g *Glitch) Bands(w, h int) []Band {
	if g.intensity <= 0 || w <= 0 || h <= 0 {
		return nil
	}
	n := max(int(g.intensity*float64(h)/4), 1)
	bands := make([]Band, 0, n)
	for range n {
		width := max(int(g.intensity*float64(w)*g.rng.Float64()), 1)
		x := g.rng.IntN(max(w-width, 0) + 1)
		var sb strings.Builder
		for range width {
			sb.WriteRune(noiseRunes[g.rng.IntN(len(noiseRunes))])
		}
		bands = append(bands, Band{X: x, Y: g.rng.IntN(h), Text: sb.String()})
	}
	return bands
}
