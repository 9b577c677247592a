package programs

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/navi/internal/theme"
)

// warnColor is used for corrupted, suspicious and killed entries regardless
// of the active theme.
var warnColor = lipgloss.Color("#ff0040")

type styles struct {
	header   lipgloss.Style
	text     lipgloss.Style
	dim      lipgloss.Style
	accent   lipgloss.Style
	warn     lipgloss.Style
	selected lipgloss.Style
}

func newStyles(t theme.Theme) styles {
	return styles{
		header:   lipgloss.NewStyle().Foreground(t.SecondaryColor()).Bold(true),
		text:     lipgloss.NewStyle().Foreground(t.TextColor()),
		dim:      lipgloss.NewStyle().Foreground(t.Dim(0.5)),
		accent:   lipgloss.NewStyle().Foreground(t.AccentColor()),
		warn:     lipgloss.NewStyle().Foreground(warnColor),
		selected: lipgloss.NewStyle().Foreground(t.BackgroundColor()).Background(t.PrimaryColor()),
	}
}

// clip keeps the first height lines, each truncated to width cells.
func clip(lines []string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = ansi.Truncate(l, width, "")
	}
	return strings.Join(out, "\n")
}

// tail keeps the last height lines, each truncated to width cells.
func tail(lines []string, width, height int) string {
	if len(lines) > height && height > 0 {
		lines = lines[len(lines)-height:]
	}
	return clip(lines, width, height)
}

// bar renders a horizontal gauge of width cells filled to pct percent.
func bar(width int, pct float64) string {
	if width <= 0 {
		return ""
	}
	pct = min(max(pct, 0), 100)
	filled := int(pct / 100 * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// programHeader is the title line shared by the non-terminal panels.
func programHeader(s styles, title string, width int) string {
	back := s.dim.Render("[ESC] RETURN")
	gap := max(width-lipgloss.Width(title)-lipgloss.Width(back), 1)
	return s.header.Render(title) + strings.Repeat(" ", gap) + back
}

// rowAt maps a panel-local y to an index in a list rendered from top.
func rowAt(y, top, n int) (int, bool) {
	i := y - top
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}
