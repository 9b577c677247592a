package app

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/navi/internal/wm"
)

// Region is a part of a window frame.
type Region int

const (
	RegionNone Region = iota
	RegionTitle
	RegionMinimize
	RegionClose
	RegionResize
	RegionBorder
	RegionContent
)

func (r Region) String() string {
	switch r {
	case RegionTitle:
		return "title"
	case RegionMinimize:
		return "minimize"
	case RegionClose:
		return "close"
	case RegionResize:
		return "resize"
	case RegionBorder:
		return "border"
	case RegionContent:
		return "content"
	}
	return "none"
}

// Title bar buttons sit right before the top-right corner: "[_][x]".
const (
	minimizeButton = "[_]"
	closeButton    = "[x]"
	buttonsWidth   = len(minimizeButton) + len(closeButton)
)

// FrameRegion returns the part of w's frame under p.
func FrameRegion(w wm.Window, p wm.Point) Region {
	if !w.Contains(p) {
		return RegionNone
	}
	x, y := p.X-w.Position.X, p.Y-w.Position.Y
	width, height := w.Size.Width, w.Size.Height
	closeX := width - 1 - len(closeButton)
	minimizeX := closeX - len(minimizeButton)

	switch {
	case y == 0 && x >= closeX && x < width-1:
		return RegionClose
	case y == 0 && x >= minimizeX && x < closeX:
		return RegionMinimize
	case y == 0:
		return RegionTitle
	case y == height-1 && x >= width-2:
		return RegionResize
	case x == 0 || x == width-1 || y == height-1:
		return RegionBorder
	}
	return RegionContent
}

// ContentPoint converts a screen position inside w to panel-local cells.
func ContentPoint(w wm.Window, p wm.Point) wm.Point {
	return wm.Point{X: p.X - w.Position.X - 1, Y: p.Y - w.Position.Y - 1}
}

// ContentSize is the panel area of w, inside the border.
func ContentSize(w wm.Window) wm.Size {
	return wm.Size{Width: max(w.Size.Width-2, 0), Height: max(w.Size.Height-2, 0)}
}

// border returns the configured window border.
func (d *Desktop) border() lipgloss.Border {
	if d.Config.Appearance.ASCIIOnly {
		return lipgloss.ASCIIBorder()
	}
	switch d.Config.Appearance.BorderStyle {
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	}
	return lipgloss.RoundedBorder()
}

func (d *Desktop) resizeHandle() string {
	if d.Config.Appearance.ASCIIOnly {
		return "/"
	}
	return "◢"
}

// renderWindow draws the frame of w around its panel.
func (d *Desktop) renderWindow(w wm.Window, focused bool) string {
	t := d.Theme()
	b := d.border()
	var frameColor color.Color = t.Dim(0.55)
	if focused {
		frameColor = t.PrimaryColor()
	}
	frame := lipgloss.NewStyle().Foreground(frameColor)
	titleStyle := lipgloss.NewStyle().Foreground(t.TextColor())
	if focused {
		titleStyle = lipgloss.NewStyle().Foreground(t.BackgroundColor()).Background(frameColor).Bold(true)
	}
	buttonStyle := lipgloss.NewStyle().Foreground(t.SecondaryColor())

	width, height := w.Size.Width, w.Size.Height
	inner := ContentSize(w)

	// ┌─ TITLE ────[_][x]┐
	title := ansi.Truncate(w.Title, max(width-buttonsWidth-6, 0), "…")
	fill := max(width-buttonsWidth-5-ansi.StringWidth(title), 0)
	top := frame.Render(b.TopLeft+b.Top+" ") +
		titleStyle.Render(title) +
		frame.Render(" "+strings.Repeat(b.Top, fill)) +
		buttonStyle.Render(minimizeButton) +
		lipgloss.NewStyle().Foreground(t.AccentColor()).Render(closeButton) +
		frame.Render(b.TopRight)

	body := ""
	if p, ok := d.panels[w.ID]; ok {
		body = p.View(inner.Width, inner.Height)
	}
	content := strings.Split(body, "\n")

	lines := make([]string, 0, height)
	lines = append(lines, top)
	left, right := frame.Render(b.Left), frame.Render(b.Right)
	for i := range inner.Height {
		line := ""
		if i < len(content) {
			line = ansi.Truncate(content[i], inner.Width, "")
		}
		pad := inner.Width - ansi.StringWidth(line)
		lines = append(lines, left+line+strings.Repeat(" ", max(pad, 0))+right)
	}
	lines = append(lines, frame.Render(b.BottomLeft+strings.Repeat(b.Bottom, max(width-2, 0)))+
		lipgloss.NewStyle().Foreground(t.SecondaryColor()).Render(d.resizeHandle()))
	return strings.Join(lines, "\n")
}

// clipToArea cuts a rendered block so that, drawn at (x, y), it stays inside
// a width x height area. Positions are never negative on the desktop.
func clipToArea(content string, x, y, width, height int) string {
	if x >= width || y >= height {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) > height-y {
		lines = lines[:height-y]
	}
	maxWidth := width - x
	for i, l := range lines {
		if ansi.StringWidth(l) > maxWidth {
			lines[i] = ansi.Truncate(l, maxWidth, "")
		}
	}
	return strings.Join(lines, "\n")
}
