package app

import (
	"fmt"
	"slices"

	"charm.land/lipgloss/v2"
	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/effects"
)

// TrailRow is a control of the trail settings overlay.
type TrailRow int

const (
	TrailRowEnabled TrailRow = iota
	TrailRowPreset
	TrailRowType
	TrailRowLength
	TrailRowOpacity
	TrailRowFade
	TrailRowParticles
	trailRows
)

// TrailSettings is the state of the trail settings overlay. The settings
// themselves live in the trail store and are saved on every change.
type TrailSettings struct {
	Row TrailRow
	// Preset is the last preset applied from this overlay, -1 for none.
	Preset int
}

// NewTrailSettings opens on the enable toggle.
func NewTrailSettings() *TrailSettings {
	return &TrailSettings{Preset: -1}
}

// MoveRow selects another control.
func (s *TrailSettings) MoveRow(delta int) {
	n := int(trailRows)
	s.Row = TrailRow(((int(s.Row)+delta)%n + n) % n)
}

// AdjustTrail changes the selected trail setting by delta steps and saves it.
func (d *Desktop) AdjustTrail(delta int) {
	s := d.TrailPanel
	if s == nil {
		return
	}
	err := d.Trails.Update(func(c effects.TrailConfig) effects.TrailConfig {
		switch s.Row {
		case TrailRowEnabled:
			c.Enabled = !c.Enabled
		case TrailRowPreset:
			n := len(effects.Presets)
			s.Preset = ((s.Preset+delta)%n + n) % n
			c = c.WithPreset(effects.Presets[s.Preset])
		case TrailRowType:
			n := len(effects.TrailTypes)
			i := max(slices.Index(effects.TrailTypes, c.Type), 0)
			c.Type = effects.TrailTypes[((i+delta)%n+n)%n]
		case TrailRowLength:
			c.Length += delta
		case TrailRowOpacity:
			c.Opacity += float64(delta) * 0.1
		case TrailRowFade:
			c.FadeSpeed += delta * 10
		case TrailRowParticles:
			c.ParticleCount += delta
		}
		return c.Clamp()
	})
	if err != nil {
		log.Warn("trail settings not saved", "err", err)
	}
	d.Emitter.Play(audio.CueKey)
}

// ResetTrail restores the factory trail settings.
func (d *Desktop) ResetTrail() {
	if err := d.Trails.Reset(); err != nil {
		log.Warn("trail settings not saved", "err", err)
	}
	if d.TrailPanel != nil {
		d.TrailPanel.Preset = -1
	}
	d.Emitter.Play(audio.CueSelect)
}

func (d *Desktop) renderTrailSettings() string {
	s := d.TrailPanel
	c := d.Trails.Get()
	t := d.Theme()

	title := lipgloss.NewStyle().Foreground(t.SecondaryColor()).Bold(true)
	label := lipgloss.NewStyle().Foreground(t.TextColor())
	value := lipgloss.NewStyle().Foreground(t.PrimaryColor())
	dim := lipgloss.NewStyle().Foreground(t.Dim(0.5))
	mark := lipgloss.NewStyle().Foreground(t.AccentColor()).Bold(true)

	row := func(r TrailRow, name, v string) string {
		cursor := "  "
		if s.Row == r {
			cursor = mark.Render("▶ ")
		}
		return cursor + label.Render(fmt.Sprintf("%-18s", name)) + value.Render(v)
	}

	enabled := "[ ] OFF"
	if c.Enabled {
		enabled = "[x] ON"
	}
	preset := "‹ choose ›"
	if s.Preset >= 0 {
		preset = "‹ " + effects.Presets[s.Preset].Name + " ›"
	}
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("██")

	lines := []string{
		title.Render("TRAIL EFFECTS CONFIGURATION"),
		"",
		row(TrailRowEnabled, "Enable Trail", enabled),
		row(TrailRowPreset, "Preset", preset),
		row(TrailRowType, "Trail Type", "‹ "+string(c.Type)+" ›"),
		row(TrailRowLength, "Trail Length", fmt.Sprintf("%d", c.Length)),
		row(TrailRowOpacity, "Opacity", fmt.Sprintf("%.0f%%", c.Opacity*100)),
		row(TrailRowFade, "Fade Speed", fmt.Sprintf("%dms", c.FadeSpeed)),
		row(TrailRowParticles, "Particle Count", fmt.Sprintf("%d", c.ParticleCount)),
		"  " + label.Render(fmt.Sprintf("%-18s", "Trail Color")) + swatch + " " + value.Render(c.Color),
		"",
		dim.Render("↑/↓ select  ←/→ adjust  [R] RESET  [ESC] CLOSE"),
	}
	return d.dialog(lines)
}
