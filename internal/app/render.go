package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/effects"
	"github.com/Gaurav-Gosain/navi/internal/session"
	"github.com/Gaurav-Gosain/navi/internal/wm"
)

// Layer ids used for hit testing on the composited screen.
const (
	LayerTaskbar   = "taskbar"
	LayerStartMenu = "start-menu"
	LayerOverlay   = "overlay"
)

// View renders the current screen.
func (d *Desktop) View() tea.View {
	var view tea.View
	view.SetContent(d.Render())

	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	view.ReportFocus = true
	return view
}

// Render returns the screen for the current phase as a string.
func (d *Desktop) Render() string {
	switch d.Session.Phase() {
	case session.PhaseLoggedOut:
		return d.renderLogin()
	case session.PhaseBooting:
		return d.renderBoot()
	}
	return d.GetCanvas().Render()
}

// GetCanvas composes the desktop layers onto a screen-sized canvas.
func (d *Desktop) GetCanvas() *lipgloss.Canvas {
	canvas := lipgloss.NewCanvas(max(d.Width, 1), max(d.Height, 1))
	canvas.Compose(d.Compositor())
	return canvas
}

// Compositor returns the desktop layers in stacking order. Window layers
// carry the window id, so Hit reports the window under a cell.
func (d *Desktop) Compositor() *lipgloss.Compositor {
	area := desktopArea(d.screen())
	layers := []*lipgloss.Layer{d.wallpaper()}

	if d.Particles != nil {
		layers = append(layers, dotLayers(d.Particles.Dots(), 1)...)
	}

	if mgr := d.Manager(); mgr != nil {
		stack := mgr.Stack()
		for i, w := range stack {
			content := clipToArea(d.renderWindow(w, i == len(stack)-1), w.Position.X, w.Position.Y, area.Width, area.Height)
			if content == "" {
				continue
			}
			layers = append(layers, lipgloss.NewLayer(content).
				X(w.Position.X).
				Y(w.Position.Y).
				Z(int(w.Z)).
				ID(w.ID))
		}
	}

	if d.effectsEnabled() && d.Trail.Enabled() {
		layers = append(layers, dotLayers(d.Trail.Dots(d.now(), d.Width, area.Height), config.ZIndexTrail)...)
	}

	layers = append(layers, lipgloss.NewLayer(d.renderTaskbar()).
		X(0).Y(d.taskbarY()).Z(config.ZIndexTaskbar).ID(LayerTaskbar))
	if d.StartMenuOpen {
		o := d.startMenuOrigin()
		layers = append(layers, lipgloss.NewLayer(d.renderStartMenu()).
			X(o.X).Y(o.Y).Z(config.ZIndexTaskbar+1).ID(LayerStartMenu))
	}

	switch {
	case d.Picker != nil:
		layers = append(layers, d.centered(d.renderThemePicker(), config.ZIndexOverlay))
	case d.TrailPanel != nil:
		layers = append(layers, d.centered(d.renderTrailSettings(), config.ZIndexOverlay))
	case d.ShowHelp:
		layers = append(layers, d.centered(d.renderHelp(), config.ZIndexHelp))
	}

	if d.Glitch.Active() {
		accent := lipgloss.NewStyle().Foreground(d.Theme().AccentColor())
		for i, b := range d.Glitch.Bands(d.Width, d.Height) {
			layers = append(layers, lipgloss.NewLayer(accent.Render(b.Text)).
				X(b.X).Y(b.Y).Z(config.ZIndexGlitch+i))
		}
	}
	return lipgloss.NewCompositor(layers...)
}

func (d *Desktop) screen() wm.Size {
	return wm.Size{Width: d.Width, Height: d.Height}
}

func (d *Desktop) centered(content string, z int) *lipgloss.Layer {
	w, h := lipgloss.Width(content), lipgloss.Height(content)
	return lipgloss.NewLayer(content).
		X(max((d.Width-w)/2, 0)).
		Y(max((d.Height-config.TaskbarHeight-h)/2, 0)).
		Z(z).
		ID(LayerOverlay)
}

func dotLayers(dots []effects.Dot, z int) []*lipgloss.Layer {
	layers := make([]*lipgloss.Layer, 0, len(dots))
	for _, dot := range dots {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(dot.Color))
		if dot.Fade < 0.4 {
			style = style.Faint(true)
		}
		layers = append(layers, lipgloss.NewLayer(style.Render(dot.Glyph)).X(dot.X).Y(dot.Y).Z(z))
	}
	return layers
}

var wallpaperText = []string{
	"C O P L A N D   O S   E N T E R P R I S E",
	"",
	"present day. present time.",
}

func (d *Desktop) wallpaper() *lipgloss.Layer {
	t := d.Theme()
	dim := lipgloss.NewStyle().Foreground(t.Dim(0.7))
	hint := "open the START menu or press " + d.Keybinds.GetKeysForDisplay(config.ActionToggleHelp) + " for help"

	lines := make([]string, 0, len(wallpaperText)+2)
	for _, l := range wallpaperText {
		lines = append(lines, dim.Render(l))
	}
	lines = append(lines, "", dim.Render(hint))

	width := 0
	for _, l := range lines {
		width = max(width, ansi.StringWidth(l))
	}
	for i, l := range lines {
		lines[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, l)
	}
	area := desktopArea(d.screen())
	return lipgloss.NewLayer(strings.Join(lines, "\n")).
		X(max((area.Width-width)/2, 0)).
		Y(max((area.Height-len(lines))/2, 0)).
		Z(0)
}
