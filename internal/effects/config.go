// Package effects implements the cosmetic layers drawn over the desktop: the
// mouse trail, the glitch pulse and the particle drift shown after the
// special login.
package effects

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/navi/internal/bus"
	"github.com/Gaurav-Gosain/navi/internal/kv"
)

// TrailStorageKey is the key the trail settings are persisted under.
const TrailStorageKey = "trail-config"

// TrailType selects how trail points are drawn.
type TrailType string

const (
	TrailDots      TrailType = "dots"
	TrailLines     TrailType = "lines"
	TrailParticles TrailType = "particles"
	TrailStars     TrailType = "stars"
	TrailFire      TrailType = "fire"
	TrailElectric  TrailType = "electric"
	TrailRainbow   TrailType = "rainbow"
)

// TrailTypes lists every trail type in settings order.
var TrailTypes = []TrailType{
	TrailDots, TrailLines, TrailParticles, TrailStars, TrailFire, TrailElectric, TrailRainbow,
}

// TrailConfig is the persisted mouse trail configuration.
type TrailConfig struct {
	Type          TrailType `json:"type"`
	Length        int       `json:"length"`
	Size          int       `json:"size"`
	Opacity       float64   `json:"opacity"`
	Speed         int       `json:"speed"`
	Color         string    `json:"color"`
	FadeSpeed     int       `json:"fadeSpeed"`
	ParticleCount int       `json:"particleCount"`
	Enabled       bool      `json:"enabled"`
}

// DefaultTrailConfig returns the factory trail settings.
func DefaultTrailConfig() TrailConfig {
	return TrailConfig{
		Type:          TrailDots,
		Length:        20,
		Size:          4,
		Opacity:       0.8,
		Speed:         50,
		Color:         "#00ff41",
		FadeSpeed:     50,
		ParticleCount: 15,
		Enabled:       true,
	}
}

// Slider ranges offered by the settings overlay.
const (
	MinLength, MaxLength               = 5, 50
	MinSize, MaxSize                   = 1, 10
	MinOpacity, MaxOpacity             = 0.1, 1.0
	MinSpeed, MaxSpeed                 = 10, 100
	MinFadeSpeed, MaxFadeSpeed         = 10, 100
	MinParticleCount, MaxParticleCount = 5, 40
)

// Clamp pulls every numeric field into the settings ranges and replaces an
// unknown type with dots.
func (c TrailConfig) Clamp() TrailConfig {
	c.Length = min(max(c.Length, MinLength), MaxLength)
	c.Size = min(max(c.Size, MinSize), MaxSize)
	c.Opacity = min(max(c.Opacity, MinOpacity), MaxOpacity)
	c.Speed = min(max(c.Speed, MinSpeed), MaxSpeed)
	c.FadeSpeed = min(max(c.FadeSpeed, MinFadeSpeed), MaxFadeSpeed)
	c.ParticleCount = min(max(c.ParticleCount, MinParticleCount), MaxParticleCount)
	if !c.Type.Valid() {
		c.Type = TrailDots
	}
	return c
}

// Valid reports whether t is a known trail type.
func (t TrailType) Valid() bool {
	for _, known := range TrailTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Preset is a named set of trail settings. Applying a preset leaves the
// enabled flag alone.
type Preset struct {
	Name   string
	Config TrailConfig
}

// Presets are offered in the settings overlay and by `navi trail preset`.
var Presets = []Preset{
	{"Classic Dots", TrailConfig{Type: TrailDots, Length: 20, Size: 4, Opacity: 0.8, Speed: 50, Color: "#00ff41", FadeSpeed: 50, ParticleCount: 15}},
	{"Neon Lines", TrailConfig{Type: TrailLines, Length: 15, Size: 2, Opacity: 0.9, Speed: 30, Color: "#00d4ff", FadeSpeed: 40, ParticleCount: 10}},
	{"Particle Storm", TrailConfig{Type: TrailParticles, Length: 30, Size: 3, Opacity: 0.7, Speed: 70, Color: "#ff0040", FadeSpeed: 60, ParticleCount: 25}},
	{"Starfield", TrailConfig{Type: TrailStars, Length: 25, Size: 6, Opacity: 0.6, Speed: 40, Color: "#ffaa00", FadeSpeed: 30, ParticleCount: 20}},
	{"Fire Trail", TrailConfig{Type: TrailFire, Length: 18, Size: 5, Opacity: 0.8, Speed: 80, Color: "#ff4400", FadeSpeed: 70, ParticleCount: 12}},
	{"Electric", TrailConfig{Type: TrailElectric, Length: 12, Size: 3, Opacity: 0.9, Speed: 90, Color: "#44ff00", FadeSpeed: 80, ParticleCount: 8}},
	{"Rainbow", TrailConfig{Type: TrailRainbow, Length: 22, Size: 4, Opacity: 0.7, Speed: 60, Color: "#ff00ff", FadeSpeed: 50, ParticleCount: 18}},
}

// FindPreset looks a preset up by name, ignoring case, spaces and dashes.
func FindPreset(name string) (Preset, bool) {
	norm := func(s string) string {
		s = strings.ToLower(s)
		return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
	}
	want := norm(name)
	for _, p := range Presets {
		if norm(p.Name) == want {
			return p, true
		}
	}
	return Preset{}, false
}

// WithPreset returns c with the preset's settings applied.
func (c TrailConfig) WithPreset(p Preset) TrailConfig {
	enabled := c.Enabled
	c = p.Config
	c.Enabled = enabled
	return c
}

// TrailStore owns the persisted trail settings and announces changes on the
// bus under bus.TrailChanged.
type TrailStore struct {
	mu      sync.Mutex
	kv      kv.Store
	bus     *bus.Bus
	current TrailConfig
}

// OpenTrailStore loads the persisted settings, falling back to the defaults
// when absent or unreadable. b may be nil.
func OpenTrailStore(store kv.Store, b *bus.Bus) *TrailStore {
	return &TrailStore{kv: store, bus: b, current: loadTrail(store)}
}

// loadTrail decodes the stored settings over the defaults and pulls them into
// the slider ranges, so null, empty or partial documents stay usable.
func loadTrail(store kv.Store) TrailConfig {
	c := DefaultTrailConfig()
	if err := store.Load(TrailStorageKey, &c); err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Debug("trail: falling back to defaults", "err", err)
		}
		return DefaultTrailConfig()
	}
	if c.Color == "" {
		c.Color = DefaultTrailConfig().Color
	}
	return c.Clamp()
}

// Get returns the active settings.
func (s *TrailStore) Get() TrailConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the settings, persists them and publishes the change.
func (s *TrailStore) Set(c TrailConfig) error {
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()

	err := s.kv.Save(TrailStorageKey, c)
	if err != nil {
		err = fmt.Errorf("trail: persist: %w", err)
	}
	if s.bus != nil {
		s.bus.Publish(bus.TrailChanged, c)
	}
	return err
}

// Update applies fn to the current settings and stores the result.
func (s *TrailStore) Update(fn func(TrailConfig) TrailConfig) error {
	return s.Set(fn(s.Get()))
}

// Reset restores the factory settings.
func (s *TrailStore) Reset() error {
	return s.Set(DefaultTrailConfig())
}

// Reload re-reads the persisted settings and publishes them when they differ.
func (s *TrailStore) Reload() bool {
	c := loadTrail(s.kv)
	s.mu.Lock()
	changed := c != s.current
	s.current = c
	s.mu.Unlock()
	if changed && s.bus != nil {
		s.bus.Publish(bus.TrailChanged, c)
	}
	return changed
}
