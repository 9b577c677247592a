// Package theme holds the desktop color palette, persists it and tells
// interested components when it changes.
package theme

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme is the active palette. Colors are kept as CSS-style strings (hex,
// rgb() or hsl()); the *RGB companions hold the same colors decomposed into
// "r, g, b" for translucent compositing.
type Theme struct {
	Primary      string `json:"primary"`
	Secondary    string `json:"secondary"`
	Accent       string `json:"accent"`
	Background   string `json:"background"`
	Text         string `json:"text"`
	PrimaryRGB   string `json:"primaryRgb"`
	SecondaryRGB string `json:"secondaryRgb"`
	AccentRGB    string `json:"accentRgb"`
}

// Default returns the stock green-on-black palette.
func Default() Theme {
	return Theme{
		Primary:      "#00ff41",
		Secondary:    "#00d4ff",
		Accent:       "#ff0040",
		Background:   "#000000",
		Text:         "#00ff41",
		PrimaryRGB:   "0, 255, 65",
		SecondaryRGB: "0, 212, 255",
		AccentRGB:    "255, 0, 64",
	}
}

// FromHSL derives a full palette from one picked color, the way the theme
// picker does: the secondary color sits 60° around the wheel at 80%
// saturation and lightness, the accent is the complement at 120% lightness.
// h is in degrees, s and l in percent.
func FromHSL(h, s, l float64) Theme {
	h = math.Mod(math.Mod(h, 360)+360, 360)
	secH := math.Mod(h+60, 360)
	accH := math.Mod(h+180, 360)

	primary := hslString(h, s, l)
	return Theme{
		Primary:      primary,
		Secondary:    hslString(secH, s*0.8, l*0.8),
		Accent:       hslString(accH, s, math.Min(l*1.2, 90)),
		Background:   "#000000",
		Text:         primary,
		PrimaryRGB:   rgbString(hslToRGB(h, s, l)),
		SecondaryRGB: rgbString(hslToRGB(secH, s*0.8, l*0.8)),
		AccentRGB:    rgbString(hslToRGB(accH, s, l*1.2)),
	}
}

var (
	tintOnce sync.Once
	// bubbletint keeps the selected tint in package state.
	tintMu sync.Mutex
)

// Presets lists the bubbletint palettes offered by the theme picker.
var Presets = []string{
	"dracula",
	"nord",
	"gruvbox_dark",
	"tokyo_night",
	"catppuccin_mocha",
	"monokai_pro",
	"solarized_dark_higher_contrast",
	"cyberpunk",
}

// FromTint builds a palette from a bubbletint theme id. It returns false
// when the id is unknown.
func FromTint(id string) (Theme, bool) {
	tintMu.Lock()
	defer tintMu.Unlock()

	tintOnce.Do(func() { tint.NewDefaultRegistry() })
	if !tint.SetTintID(id) {
		return Theme{}, false
	}
	t := tint.Current()
	if t == nil {
		return Theme{}, false
	}

	primary := ColorToString(t.BrightGreen)
	secondary := ColorToString(t.BrightCyan)
	accent := ColorToString(t.BrightRed)
	return Theme{
		Primary:      primary,
		Secondary:    secondary,
		Accent:       accent,
		Background:   ColorToString(t.Bg),
		Text:         ColorToString(t.Fg),
		PrimaryRGB:   rgbString(colorRGB(t.BrightGreen)),
		SecondaryRGB: rgbString(colorRGB(t.BrightCyan)),
		AccentRGB:    rgbString(colorRGB(t.BrightRed)),
	}, true
}

// Valid reports whether every color of the palette parses.
func (t Theme) Valid() bool {
	for _, c := range []string{t.Primary, t.Secondary, t.Accent, t.Background, t.Text} {
		if _, ok := parse(c); !ok {
			return false
		}
	}
	return true
}

// PrimaryColor returns the primary color for rendering.
func (t Theme) PrimaryColor() color.Color { return Parse(t.Primary) }

// SecondaryColor returns the secondary color for rendering.
func (t Theme) SecondaryColor() color.Color { return Parse(t.Secondary) }

// AccentColor returns the accent color for rendering.
func (t Theme) AccentColor() color.Color { return Parse(t.Accent) }

// BackgroundColor returns the background color for rendering.
func (t Theme) BackgroundColor() color.Color { return Parse(t.Background) }

// TextColor returns the text color for rendering.
func (t Theme) TextColor() color.Color { return Parse(t.Text) }

// Dim returns the primary color blended toward the background, used for
// unfocused chrome.
func (t Theme) Dim(amount float64) color.Color {
	fg, ok := parse(t.Primary)
	if !ok {
		return lipgloss.NoColor{}
	}
	bg, ok := parse(t.Background)
	if !ok {
		bg = colorful.Color{}
	}
	return lipgloss.Color(fg.BlendRgb(bg, amount).Clamped().Hex())
}

// Parse converts a CSS-style color string into a color. Values the renderer
// cannot understand fall back to the terminal default color.
func Parse(s string) color.Color {
	c, ok := parse(s)
	if !ok {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(c.Hex())
}

// Hex normalizes a CSS-style color string to #rrggbb.
func Hex(s string) (string, bool) {
	c, ok := parse(s)
	if !ok {
		return "", false
	}
	return c.Hex(), true
}

// ColorToString converts a color.Color to a hex string.
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	cf, _ := colorful.MakeColor(c)
	return cf.Clamped().Hex()
}

func colorRGB(c color.Color) (int, int, int) {
	if c == nil {
		return 0, 0, 0
	}
	cf, _ := colorful.MakeColor(c)
	r, g, b := cf.Clamped().RGB255()
	return int(r), int(g), int(b)
}

func rgbString(r, g, b int) string {
	return fmt.Sprintf("%d, %d, %d", r, g, b)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func hslString(h, s, l float64) string {
	return fmt.Sprintf("hsl(%s, %s%%, %s%%)", formatNumber(h), formatNumber(s), formatNumber(l))
}

// hsl builds a color from degrees and percentages. Saturation and lightness
// are clamped to [0, 100].
func hsl(h, s, l float64) colorful.Color {
	h = math.Mod(math.Mod(h, 360)+360, 360)
	s = min(max(s, 0), 100) / 100
	l = min(max(l, 0), 100) / 100
	return colorful.Hsl(h, s, l).Clamped()
}

// hslToRGB converts degrees and percentages to 8-bit channels.
func hslToRGB(h, s, l float64) (int, int, int) {
	r, g, b := hsl(h, s, l).RGB255()
	return int(r), int(g), int(b)
}

// parse reads #rgb, #rrggbb, rgb(r, g, b) and hsl(h, s%, l%).
func parse(s string) (colorful.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "#"):
		if (len(s) != 4 && len(s) != 7) || strings.TrimLeft(s[1:], "0123456789abcdef") != "" {
			return colorful.Color{}, false
		}
		c, err := colorful.Hex(s)
		return c, err == nil
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		parts, ok := splitArgs(s[len("rgb(") : len(s)-1])
		if !ok {
			return colorful.Color{}, false
		}
		var ch [3]float64
		for i, p := range parts {
			v, err := strconv.Atoi(p)
			if err != nil {
				return colorful.Color{}, false
			}
			ch[i] = float64(min(max(v, 0), 255)) / 255
		}
		return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, true
	case strings.HasPrefix(s, "hsl(") && strings.HasSuffix(s, ")"):
		parts, ok := splitArgs(s[len("hsl(") : len(s)-1])
		if !ok {
			return colorful.Color{}, false
		}
		var v [3]float64
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
			if err != nil {
				return colorful.Color{}, false
			}
			v[i] = f
		}
		return hsl(v[0], v[1], v[2]), true
	}
	return colorful.Color{}, false
}

// splitArgs splits the three comma separated arguments of rgb() and hsl().
func splitArgs(s string) ([]string, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}
