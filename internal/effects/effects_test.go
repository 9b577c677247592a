package effects

import (
	"testing"
	"time"

	"github.com/Gaurav-Gosain/navi/internal/bus"
	"github.com/Gaurav-Gosain/navi/internal/kv"
	"github.com/Gaurav-Gosain/navi/internal/ticker"
	"github.com/google/go-cmp/cmp"
)

func TestTrailStoreFallback(t *testing.T) {
	partial := DefaultTrailConfig()
	partial.Type = TrailFire
	partial.Length = MaxLength

	tests := []struct {
		name string
		raw  string
		want TrailConfig
	}{
		{"missing", "", DefaultTrailConfig()},
		{"malformed", "garbage", DefaultTrailConfig()},
		{"null", "null", DefaultTrailConfig()},
		{"empty object", "{}", DefaultTrailConfig()},
		{"blank color", `{"color":""}`, DefaultTrailConfig()},
		{"partial out of range", `{"type":"fire","length":500}`, partial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := kv.NewMemStore()
			if tt.raw != "" {
				mem.SetRaw(TrailStorageKey, []byte(tt.raw))
			}
			if diff := cmp.Diff(tt.want, OpenTrailStore(mem, nil).Get()); diff != "" {
				t.Errorf("OpenTrailStore (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTrailStorePersistsAndPublishes(t *testing.T) {
	mem := kv.NewMemStore()
	b := bus.New()
	var published []TrailConfig
	b.Subscribe(bus.TrailChanged, func(p any) { published = append(published, p.(TrailConfig)) })

	s := OpenTrailStore(mem, b)
	p, _ := FindPreset("Neon Lines")
	want := s.Get().WithPreset(p)
	if err := s.Set(want); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(want, OpenTrailStore(mem, nil).Get()); diff != "" {
		t.Errorf("re-opened (-want +got):\n%s", diff)
	}
	if len(published) != 1 || published[0] != want {
		t.Errorf("published = %+v", published)
	}
}

func TestTrailStoreReload(t *testing.T) {
	mem := kv.NewMemStore()
	b := bus.New()
	s := OpenTrailStore(mem, b)
	count := 0
	b.Subscribe(bus.TrailChanged, func(any) { count++ })

	if s.Reload() {
		t.Error("Reload without change reported a change")
	}
	OpenTrailStore(mem, nil).Update(func(c TrailConfig) TrailConfig {
		c.Enabled = false
		return c
	})
	if !s.Reload() || s.Get().Enabled {
		t.Error("Reload missed external change")
	}
	if count != 1 {
		t.Errorf("published %d times, want 1", count)
	}
}

func TestPresetKeepsEnabledFlag(t *testing.T) {
	off := DefaultTrailConfig()
	off.Enabled = false
	p, ok := FindPreset("particle-storm")
	if !ok {
		t.Fatal("preset not found")
	}
	got := off.WithPreset(p)
	if got.Enabled {
		t.Error("preset re-enabled the trail")
	}
	if got.Type != TrailParticles || got.ParticleCount != 25 || got.Color != "#ff0040" {
		t.Errorf("preset not applied: %+v", got)
	}
	if _, ok := FindPreset("disco"); ok {
		t.Error("unknown preset found")
	}
}

func TestClamp(t *testing.T) {
	got := TrailConfig{Type: "laser", Length: 500, Size: 0, Opacity: 3, Speed: 1, FadeSpeed: 1000, ParticleCount: -1}.Clamp()
	want := TrailConfig{Type: TrailDots, Length: 50, Size: 1, Opacity: 1, Speed: 10, FadeSpeed: 100, ParticleCount: 5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Clamp (-want +got):\n%s", diff)
	}
}

func TestTrailKeepsLengthAndFades(t *testing.T) {
	cfg := DefaultTrailConfig()
	cfg.Length = 5
	cfg.ParticleCount = 5 // one point per motion
	tr := NewTrail(cfg, nil)
	now := time.Unix(0, 0)

	for i := range 10 {
		tr.Add(i, 1, now.Add(time.Duration(i)*time.Millisecond))
	}
	if tr.Len() != 5 {
		t.Fatalf("Len = %d, want 5", tr.Len())
	}

	dots := tr.Dots(now.Add(10*time.Millisecond), 80, 24)
	if len(dots) != 5 || dots[0].X != 9 {
		t.Errorf("dots = %+v, want newest first", dots)
	}

	// FadeSpeed 50 × Length 5 = 250ms lifetime.
	if tr.Prune(now.Add(time.Second)) {
		t.Error("points survived past their lifetime")
	}
}

func TestTrailFollowsBus(t *testing.T) {
	b := bus.New()
	tr := NewTrail(DefaultTrailConfig(), b)
	tr.Add(3, 3, time.Now())

	off := DefaultTrailConfig()
	off.Enabled = false
	b.Publish(bus.TrailChanged, off)
	if tr.Enabled() || tr.Len() != 0 {
		t.Error("disabling via the bus did not clear the trail")
	}

	tr.Close()
	b.Publish(bus.TrailChanged, DefaultTrailConfig())
	if tr.Enabled() {
		t.Error("closed trail still follows the bus")
	}
	if b.Subscribers(bus.TrailChanged) != 0 {
		t.Error("trail left its subscription behind")
	}
}

func TestTrailDisabledIgnoresMotion(t *testing.T) {
	cfg := DefaultTrailConfig()
	cfg.Enabled = false
	tr := NewTrail(cfg, nil)
	tr.Add(1, 1, time.Now())
	if tr.Len() != 0 {
		t.Error("disabled trail recorded motion")
	}
}

func TestRainbowColors(t *testing.T) {
	cfg := DefaultTrailConfig()
	cfg.Type = TrailRainbow
	cfg.ParticleCount = 5
	tr := NewTrail(cfg, nil)
	now := time.Now()
	tr.Add(1, 1, now)
	tr.Add(2, 1, now)

	dots := tr.Dots(now, 10, 10)
	if dots[0].Color != "hsl(0, 100%, 50%)" || dots[1].Color != "hsl(180, 100%, 50%)" {
		t.Errorf("rainbow colors = %q, %q", dots[0].Color, dots[1].Color)
	}
}

func TestGlitchPulse(t *testing.T) {
	g := NewGlitch("glitch")
	if g.Active() || g.Bands(80, 24) != nil {
		t.Fatal("new glitch is active")
	}

	g.Trigger(0.8, 500*time.Millisecond)
	first := ticker.TickMsg{ID: "glitch", Tag: 1}
	if g.Intensity() != 0.8 {
		t.Errorf("intensity = %v", g.Intensity())
	}
	if len(g.Bands(80, 24)) == 0 {
		t.Error("active glitch produced no bands")
	}

	// A program switch pulse supersedes the pending reset.
	g.Trigger(0.3, 200*time.Millisecond)
	if g.Handle(first) {
		t.Error("reset from the superseded pulse was accepted")
	}
	if g.Intensity() != 0.3 {
		t.Errorf("intensity = %v, want 0.3", g.Intensity())
	}

	if !g.Handle(ticker.TickMsg{ID: "glitch", Tag: 2}) {
		t.Fatal("live reset rejected")
	}
	if g.Active() {
		t.Error("glitch still active after reset")
	}
}

func TestGlitchBandsStayOnScreen(t *testing.T) {
	g := NewGlitch("g")
	g.Trigger(1, time.Second)
	for range 50 {
		for _, b := range g.Bands(40, 10) {
			if b.Y < 0 || b.Y >= 10 || b.X < 0 || b.X+len([]rune(b.Text)) > 40 {
				t.Fatalf("band out of bounds: %+v", b)
			}
		}
	}
}

func TestParticlesBurnOut(t *testing.T) {
	start := time.Unix(100, 0)
	p := NewParticles(80, 24, start)

	if !p.Step(start) || p.Len() != maxParticles {
		t.Fatalf("Len after first step = %d, want %d", p.Len(), maxParticles)
	}
	for _, d := range p.Dots() {
		if d.X < 0 || d.X >= 80 || d.Y < 0 || d.Y >= 24 {
			t.Fatalf("dot outside area: %+v", d)
		}
	}

	later := start.Add(time.Minute)
	alive := true
	for range 200 {
		alive = p.Step(later)
	}
	if alive || p.Len() != 0 {
		t.Errorf("particles still alive after the spawn window: %d", p.Len())
	}
}
