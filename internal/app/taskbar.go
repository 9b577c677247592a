package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/wm"
)

// TaskbarTarget is what a taskbar cell belongs to.
type TaskbarTarget int

const (
	TargetNone TaskbarTarget = iota
	TargetStart
	TargetWindow
)

const (
	startButtonWidth = 9
	windowButtonsX   = startButtonWidth + 1
	clockFormat      = "15:04:05"
	traySeparator    = " │ "
)

// StartMenuItem is one entry of the start menu. It either opens a program or
// runs a desktop action.
type StartMenuItem struct {
	Label   string
	Program wm.Program
	Action  string
}

// StartMenu lists the start menu entries in display order.
var StartMenu = func() []StartMenuItem {
	items := make([]StartMenuItem, 0, len(wm.Programs)+3)
	for _, p := range wm.Programs {
		items = append(items, StartMenuItem{Label: p.Label(), Program: p})
	}
	return append(items,
		StartMenuItem{Label: "Theme Settings", Action: config.ActionThemePicker},
		StartMenuItem{Label: "Trail Settings", Action: config.ActionTrailSettings},
		StartMenuItem{Label: "Help", Action: config.ActionToggleHelp},
	)
}()

// startMenuHeaderRows is the border, header and separator above the items.
const startMenuHeaderRows = 3

func (d *Desktop) taskbarY() int {
	return d.Height - config.TaskbarHeight
}

func (d *Desktop) trayText() string {
	var parts []string
	if !d.Config.Appearance.HideStats {
		parts = append(parts, d.Stats.String())
	}
	if !d.Config.Appearance.HideClock {
		parts = append(parts, d.now().Format(clockFormat))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, traySeparator) + " "
}

// visibleButtons returns how many window buttons fit beside the tray.
func (d *Desktop) visibleButtons() int {
	avail := d.Width - windowButtonsX - ansi.StringWidth(d.trayText()) - 1
	if avail <= 0 {
		return 0
	}
	return (avail + 1) / (config.TaskbarItemWidth + 1)
}

// TaskbarAt returns what the taskbar shows at column x, with the window id
// for window buttons.
func (d *Desktop) TaskbarAt(x int) (TaskbarTarget, string) {
	if x >= 0 && x < startButtonWidth {
		return TargetStart, ""
	}
	if x < windowButtonsX {
		return TargetNone, ""
	}
	slot := config.TaskbarItemWidth + 1
	i := (x - windowButtonsX) / slot
	if (x-windowButtonsX)%slot == config.TaskbarItemWidth {
		return TargetNone, ""
	}
	ids := d.WindowIDs()
	if i >= len(ids) || i >= d.visibleButtons() {
		return TargetNone, ""
	}
	return TargetWindow, ids[i]
}

func (d *Desktop) renderTaskbar() string {
	t := d.Theme()
	bar := lipgloss.NewStyle().Foreground(t.TextColor())
	start := lipgloss.NewStyle().Foreground(t.BackgroundColor()).Background(t.PrimaryColor()).Bold(true)
	if d.StartMenuOpen {
		start = start.Background(t.SecondaryColor())
	}
	active := lipgloss.NewStyle().Foreground(t.BackgroundColor()).Background(t.SecondaryColor())
	idle := lipgloss.NewStyle().Foreground(t.SecondaryColor())
	minimized := lipgloss.NewStyle().Foreground(t.Dim(0.5))

	glyph := "◈"
	if d.Config.Appearance.ASCIIOnly {
		glyph = "*"
	}
	var sb strings.Builder
	sb.WriteString(start.Render(" " + glyph + " START "))
	sb.WriteString(" ")

	focused, _ := d.Focused()
	if mgr := d.Manager(); mgr != nil {
		for i, w := range mgr.Windows() {
			if i >= d.visibleButtons() {
				break
			}
			if i > 0 {
				sb.WriteString(" ")
			}
			label := ansi.Truncate(w.Title, config.TaskbarItemWidth-2, "…")
			label = " " + label + strings.Repeat(" ", config.TaskbarItemWidth-1-ansi.StringWidth(label))
			switch {
			case w.Minimized:
				sb.WriteString(minimized.Render(label))
			case w.ID == focused.ID:
				sb.WriteString(active.Render(label))
			default:
				sb.WriteString(idle.Render(label))
			}
		}
	}

	left := sb.String()
	tray := d.trayText()
	gap := d.Width - ansi.StringWidth(left) - ansi.StringWidth(tray)
	if gap < 0 {
		return ansi.Truncate(left, d.Width, "")
	}
	return left + strings.Repeat(" ", gap) + bar.Render(tray)
}

// startMenuOrigin is the top-left cell of the start menu popup.
func (d *Desktop) startMenuOrigin() wm.Point {
	height := len(StartMenu) + startMenuHeaderRows + 1
	return wm.Point{X: 0, Y: max(d.taskbarY()-height, 0)}
}

// StartMenuItemAt returns the index of the start menu entry under p.
func (d *Desktop) StartMenuItemAt(p wm.Point) (int, bool) {
	if !d.StartMenuOpen {
		return 0, false
	}
	o := d.startMenuOrigin()
	i := p.Y - o.Y - startMenuHeaderRows
	if p.X <= o.X || p.X >= o.X+config.StartMenuWidth-1 || i < 0 || i >= len(StartMenu) {
		return 0, false
	}
	return i, true
}

// InStartMenu reports whether p falls on the start menu popup.
func (d *Desktop) InStartMenu(p wm.Point) bool {
	if !d.StartMenuOpen {
		return false
	}
	o := d.startMenuOrigin()
	return p.X >= o.X && p.X < o.X+config.StartMenuWidth && p.Y >= o.Y && p.Y < d.taskbarY()
}

// MoveMenuSelection moves the highlighted start menu entry.
func (d *Desktop) MoveMenuSelection(delta int) {
	n := len(StartMenu)
	d.MenuSelection = ((d.MenuSelection+delta)%n + n) % n
}

// RunStartMenuItem closes the menu and runs entry i.
func (d *Desktop) RunStartMenuItem(i int) tea.Cmd {
	if i < 0 || i >= len(StartMenu) {
		return nil
	}
	d.StartMenuOpen = false
	item := StartMenu[i]
	if item.Program != wm.ProgramUnknown {
		return d.OpenProgram(item.Program)
	}
	switch item.Action {
	case config.ActionThemePicker:
		d.OpenThemePicker()
	case config.ActionTrailSettings:
		d.OpenTrailSettings()
	case config.ActionToggleHelp:
		d.ToggleHelp()
	}
	return nil
}

func (d *Desktop) renderStartMenu() string {
	t := d.Theme()
	b := d.border()
	frame := lipgloss.NewStyle().Foreground(t.PrimaryColor())
	header := lipgloss.NewStyle().Foreground(t.SecondaryColor()).Bold(true)
	item := lipgloss.NewStyle().Foreground(t.TextColor())
	selected := lipgloss.NewStyle().Foreground(t.BackgroundColor()).Background(t.PrimaryColor())

	inner := config.StartMenuWidth - 2
	row := func(s string, style lipgloss.Style) string {
		s = ansi.Truncate(s, inner, "…")
		s += strings.Repeat(" ", inner-ansi.StringWidth(s))
		return frame.Render(b.Left) + style.Render(s) + frame.Render(b.Right)
	}

	lines := []string{
		frame.Render(b.TopLeft + strings.Repeat(b.Top, inner) + b.TopRight),
		row(" COPLAND OS ENTERPRISE", header),
		frame.Render(b.Left + strings.Repeat(b.Top, inner) + b.Right),
	}
	for i, it := range StartMenu {
		style := item
		if i == d.MenuSelection {
			style = selected
		}
		lines = append(lines, row("  "+it.Label, style))
	}
	lines = append(lines, frame.Render(b.BottomLeft+strings.Repeat(b.Bottom, inner)+b.BottomRight))
	return strings.Join(lines, "\n")
}
