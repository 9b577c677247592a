package app

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/theme"
)

// PickerRow is a control of the theme picker.
type PickerRow int

const (
	RowHue PickerRow = iota
	RowSaturation
	RowLightness
	RowPreset
	pickerRows
)

// ThemePicker derives a palette from a hue, saturation and lightness, or
// picks one of the bubbletint presets.
type ThemePicker struct {
	Hue        float64
	Saturation float64
	Lightness  float64
	Row        PickerRow
	// Preset indexes theme.Presets; -1 means the HSL color is used.
	Preset int
}

// NewThemePicker starts on the stock green.
func NewThemePicker() *ThemePicker {
	return &ThemePicker{Hue: 120, Saturation: 100, Lightness: 50, Preset: -1}
}

// MoveRow selects another control.
func (p *ThemePicker) MoveRow(delta int) {
	n := int(pickerRows)
	p.Row = PickerRow(((int(p.Row)+delta)%n + n) % n)
}

// Adjust changes the selected control by delta steps. Hue wraps around the
// wheel; saturation and lightness stop at 0 and 100. Touching a slider
// leaves preset mode.
func (p *ThemePicker) Adjust(delta int) {
	switch p.Row {
	case RowHue:
		p.Hue = math.Mod(math.Mod(p.Hue+float64(delta*5), 360)+360, 360)
		p.Preset = -1
	case RowSaturation:
		p.Saturation = min(max(p.Saturation+float64(delta*5), 0), 100)
		p.Preset = -1
	case RowLightness:
		p.Lightness = min(max(p.Lightness+float64(delta*5), 0), 100)
		p.Preset = -1
	case RowPreset:
		n := len(theme.Presets) + 1
		p.Preset = ((p.Preset+1+delta)%n+n)%n - 1
	}
}

// Preview returns the palette Apply would install.
func (p *ThemePicker) Preview() theme.Theme {
	if p.Preset >= 0 && p.Preset < len(theme.Presets) {
		if t, ok := theme.FromTint(theme.Presets[p.Preset]); ok {
			return t
		}
	}
	return theme.FromHSL(p.Hue, p.Saturation, p.Lightness)
}

// ApplyPicker installs the previewed palette and closes the picker.
func (d *Desktop) ApplyPicker() {
	if d.Picker == nil {
		return
	}
	if err := d.Themes.Set(d.Picker.Preview()); err != nil {
		log.Warn("theme not saved", "err", err)
	}
	d.Emitter.Play(audio.CueSelect)
	d.Picker = nil
}

// ResetTheme restores the stock palette.
func (d *Desktop) ResetTheme() {
	if err := d.Themes.Reset(); err != nil {
		log.Warn("theme not saved", "err", err)
	}
	d.Emitter.Play(audio.CueSelect)
	d.Picker = nil
}

const (
	sliderWidth  = 36
	swatchBlocks = 6
)

func (d *Desktop) renderThemePicker() string {
	p := d.Picker
	t := d.Theme()
	preview := p.Preview()

	title := lipgloss.NewStyle().Foreground(t.SecondaryColor()).Bold(true)
	label := lipgloss.NewStyle().Foreground(t.TextColor())
	dim := lipgloss.NewStyle().Foreground(t.Dim(0.5))
	mark := lipgloss.NewStyle().Foreground(t.AccentColor()).Bold(true)

	cursor := func(r PickerRow) string {
		if p.Row == r {
			return mark.Render("▶ ")
		}
		return "  "
	}
	slider := func(r PickerRow, name string, value, maxValue float64, color func(float64) string) string {
		var sb strings.Builder
		pos := int(math.Round(value / maxValue * float64(sliderWidth-1)))
		for i := range sliderWidth {
			v := float64(i) / float64(sliderWidth-1) * maxValue
			cell := "█"
			if i == pos {
				cell = "┃"
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(theme.Parse(color(v))).Render(cell))
		}
		return cursor(r) + label.Render(fmt.Sprintf("%-4s", name)) + " " + sb.String()
	}

	hue := slider(RowHue, "HUE", p.Hue, 360, func(v float64) string {
		return fmt.Sprintf("hsl(%.0f, 100%%, 50%%)", v)
	})
	sat := slider(RowSaturation, "SAT", p.Saturation, 100, func(v float64) string {
		return fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", p.Hue, v, p.Lightness)
	})
	light := slider(RowLightness, "LUM", p.Lightness, 100, func(v float64) string {
		return fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", p.Hue, p.Saturation, v)
	})

	presetName := "custom (hsl)"
	if p.Preset >= 0 {
		presetName = theme.Presets[p.Preset]
	}
	preset := cursor(RowPreset) + label.Render("PRESET ") + mark.Render("‹ ") + label.Render(presetName) + mark.Render(" ›")

	swatch := func(c string) string {
		return lipgloss.NewStyle().Foreground(theme.Parse(c)).Render(strings.Repeat("█", swatchBlocks))
	}
	hex, _ := theme.Hex(preview.Primary)

	lines := []string{
		title.Render("THEME CONFIGURATION"),
		"",
		hue,
		sat,
		light,
		"",
		preset,
		"",
		swatch(preview.Primary) + " " + swatch(preview.Secondary) + " " + swatch(preview.Accent),
		label.Render("HEX: " + hex),
		label.Render(fmt.Sprintf("HSL: %.0f, %.0f%%, %.0f%%", p.Hue, p.Saturation, p.Lightness)),
		"",
		dim.Render("↑/↓ select  ←/→ adjust"),
		dim.Render("[ENTER] APPLY THEME  [R] RESET TO DEFAULT  [ESC] CLOSE"),
	}
	return d.dialog(lines)
}

// dialog wraps lines in a bordered, padded box.
func (d *Desktop) dialog(lines []string) string {
	t := d.Theme()
	return lipgloss.NewStyle().
		Border(d.border()).
		BorderForeground(t.PrimaryColor()).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
