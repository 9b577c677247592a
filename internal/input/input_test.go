package input

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/Gaurav-Gosain/navi/internal/app"
	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/kv"
	"github.com/Gaurav-Gosain/navi/internal/session"
	"github.com/Gaurav-Gosain/navi/internal/wm"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newDesktop(t *testing.T) *app.Desktop {
	t.Helper()
	return newDesktopBooting(t, "0s")
}

func newDesktopBooting(t *testing.T, boot string) *app.Desktop {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Session.BootDuration = boot
	cfg.Appearance.NoEffects = true
	d := app.New(app.Options{
		Config:   cfg,
		Store:    kv.NewMemStore(),
		Emitter:  &audio.Recorder{},
		Now:      func() time.Time { return epoch },
		Viewport: wm.Size{Width: 120, Height: 40},
	})
	t.Cleanup(d.Close)
	return d
}

func typeText(d *app.Desktop, s string) {
	for _, r := range s {
		HandleInput(tea.KeyPressMsg{Code: r, Text: string(r)}, d)
	}
}

func press(d *app.Desktop, code rune) tea.Cmd {
	_, cmd := HandleInput(tea.KeyPressMsg{Code: code}, d)
	return cmd
}

func loggedIn(t *testing.T) *app.Desktop {
	t.Helper()
	d := newDesktop(t)
	typeText(d, "navi")
	press(d, tea.KeyEnter)
	typeText(d, "wired")
	press(d, tea.KeyEnter)
	if got := d.Session.Phase(); got != session.PhaseDesktop {
		t.Fatalf("phase after login = %v, want %v", got, session.PhaseDesktop)
	}
	return d
}

func click(d *app.Desktop, x, y int) tea.Cmd {
	_, cmd := HandleInput(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft}, d)
	return cmd
}

func TestLoginKeys(t *testing.T) {
	d := newDesktop(t)

	typeText(d, "lain")
	if d.Login.Username != "lain" {
		t.Fatalf("username = %q, want %q", d.Login.Username, "lain")
	}
	press(d, tea.KeyBackspace)
	typeText(d, "n")
	press(d, tea.KeyEnter)
	if d.Login.Focus != app.FieldPassword {
		t.Fatalf("focus after enter = %v, want password", d.Login.Focus)
	}
	typeText(d, "root")
	press(d, tea.KeyEnter)

	if d.Session.Phase() != session.PhaseDesktop {
		t.Fatalf("phase = %v, want desktop", d.Session.Phase())
	}
	if !d.Session.Special() {
		t.Error("lain/root should be the special login")
	}
}

func TestLoginRejectsBlankCredentials(t *testing.T) {
	d := newDesktop(t)

	press(d, tea.KeyEnter) // username -> password
	press(d, tea.KeyEnter) // submit
	press(d, tea.KeyEnter)

	if got := d.Session.Attempts(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
	if !d.Login.Denied {
		t.Error("form should be marked denied")
	}
	if d.Session.Phase() != session.PhaseLoggedOut {
		t.Errorf("phase = %v, want logged out", d.Session.Phase())
	}
}

func TestLoginFocusCycles(t *testing.T) {
	d := newDesktop(t)

	tests := []struct {
		code rune
		want app.Field
	}{
		{tea.KeyTab, app.FieldPassword},
		{tea.KeyDown, app.FieldShowPassword},
		{tea.KeyTab, app.FieldSubmit},
		{tea.KeyTab, app.FieldUsername},
		{tea.KeyUp, app.FieldSubmit},
	}
	for _, tt := range tests {
		press(d, tt.code)
		if d.Login.Focus != tt.want {
			t.Fatalf("focus = %v, want %v", d.Login.Focus, tt.want)
		}
	}
}

func TestCtrlCQuits(t *testing.T) {
	d := newDesktop(t)
	_, cmd := HandleInput(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}, d)
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestBootingIgnoresInput(t *testing.T) {
	d := newDesktopBooting(t, "10s")
	typeText(d, "navi")
	press(d, tea.KeyEnter)
	typeText(d, "wired")
	press(d, tea.KeyEnter)
	if got := d.Session.Phase(); got != session.PhaseBooting {
		t.Fatalf("phase after login = %v, want %v", got, session.PhaseBooting)
	}
	form := d.Login

	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{"open terminal", tea.KeyPressMsg{Code: 't', Mod: tea.ModAlt}},
		{"start menu", tea.KeyPressMsg{Code: 'o', Mod: tea.ModAlt}},
		{"help", tea.KeyPressMsg{Code: tea.KeyF1}},
		{"quit binding", tea.KeyPressMsg{Code: 'q', Mod: tea.ModCtrl}},
		{"text", tea.KeyPressMsg{Code: 'x', Text: "x"}},
		{"backspace", tea.KeyPressMsg{Code: tea.KeyBackspace}},
		{"enter", tea.KeyPressMsg{Code: tea.KeyEnter}},
		{"paste", tea.PasteMsg{Content: "lain"}},
		{"taskbar click", tea.MouseClickMsg{X: 2, Y: 39, Button: tea.MouseLeft}},
		{"centre click", tea.MouseClickMsg{X: 60, Y: 20, Button: tea.MouseLeft}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, cmd := HandleInput(tt.msg, d); cmd != nil {
				t.Errorf("returned a command while booting")
			}
			if got := d.Session.Phase(); got != session.PhaseBooting {
				t.Errorf("phase = %v, want %v", got, session.PhaseBooting)
			}
			if d.Manager() != nil {
				t.Error("window manager exists while booting")
			}
			if d.StartMenuOpen || d.ShowHelp || d.Picker != nil || d.TrailPanel != nil {
				t.Error("overlay opened while booting")
			}
			if diff := cmp.Diff(form, d.Login); diff != "" {
				t.Errorf("login form changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatcherCoversEveryAction(t *testing.T) {
	for action := range config.ActionDescriptions {
		if !dispatcher.HasAction(action) {
			t.Errorf("no handler for %q", action)
		}
	}
}

func TestWindowActions(t *testing.T) {
	d := loggedIn(t)

	dispatcher.Dispatch(config.ActionOpenTerminal, tea.KeyPressMsg{}, d)
	dispatcher.Dispatch(config.ActionOpenMemory, tea.KeyPressMsg{}, d)
	if got := d.Manager().Len(); got != 2 {
		t.Fatalf("windows = %d, want 2", got)
	}

	dispatcher.Dispatch(config.ActionMinimizeWindow, tea.KeyPressMsg{}, d)
	if got := len(d.Manager().Stack()); got != 1 {
		t.Errorf("visible windows after minimize = %d, want 1", got)
	}

	dispatcher.Dispatch(config.ActionCloseWindow, tea.KeyPressMsg{}, d)
	if got := d.Manager().Len(); got != 1 {
		t.Errorf("windows after close = %d, want 1", got)
	}
	if _, ok := d.Panel(d.WindowIDs()[0]); !ok {
		t.Error("remaining window lost its panel")
	}
}

func TestOverlayKeys(t *testing.T) {
	d := loggedIn(t)

	dispatcher.Dispatch(config.ActionThemePicker, tea.KeyPressMsg{}, d)
	if d.Picker == nil {
		t.Fatal("theme picker did not open")
	}
	press(d, tea.KeyRight)
	if d.Picker.Hue != 125 {
		t.Errorf("hue = %v, want 125", d.Picker.Hue)
	}
	press(d, tea.KeyEscape)
	if d.Picker != nil {
		t.Error("esc should close the picker")
	}

	dispatcher.Dispatch(config.ActionToggleHelp, tea.KeyPressMsg{}, d)
	press(d, tea.KeyRight)
	if d.HelpSection != 1 {
		t.Errorf("help section = %d, want 1", d.HelpSection)
	}
	press(d, tea.KeyEscape)
	if d.ShowHelp {
		t.Error("esc should close help")
	}
}

func TestStartMenuKeys(t *testing.T) {
	d := loggedIn(t)

	dispatcher.Dispatch(config.ActionStartMenu, tea.KeyPressMsg{}, d)
	if !d.StartMenuOpen {
		t.Fatal("start menu did not open")
	}
	press(d, tea.KeyDown)
	press(d, tea.KeyEnter)

	if d.StartMenuOpen {
		t.Error("running an item should close the menu")
	}
	w, ok := d.Focused()
	if !ok {
		t.Fatal("no window opened from the start menu")
	}
	if w.Program != app.StartMenu[1].Program {
		t.Errorf("opened %v, want %v", w.Program, app.StartMenu[1].Program)
	}
}

func TestClickFrameButtons(t *testing.T) {
	d := loggedIn(t)
	dispatcher.Dispatch(config.ActionOpenTerminal, tea.KeyPressMsg{}, d)
	w, _ := d.Focused()

	click(d, w.Position.X+w.Size.Width-6, w.Position.Y)
	got, _ := d.Manager().Get(w.ID)
	if !got.Minimized {
		t.Fatal("minimize button did not minimize")
	}

	d.ActivateWindow(w.ID)
	click(d, w.Position.X+w.Size.Width-3, w.Position.Y)
	if d.Manager().Len() != 0 {
		t.Error("close button did not close the window")
	}
}

func TestDragTitleBar(t *testing.T) {
	d := loggedIn(t)
	dispatcher.Dispatch(config.ActionOpenTerminal, tea.KeyPressMsg{}, d)
	w, _ := d.Focused()

	start := w.Position
	click(d, start.X+2, start.Y)
	HandleInput(tea.MouseMotionMsg{X: start.X + 7, Y: start.Y + 3}, d)
	HandleInput(tea.MouseReleaseMsg{X: start.X + 7, Y: start.Y + 3}, d)

	got, _ := d.Manager().Get(w.ID)
	want := wm.Point{X: start.X + 5, Y: start.Y + 3}
	if got.Position != want {
		t.Errorf("position = %+v, want %+v", got.Position, want)
	}
	if d.Manager().Pointer().Active() {
		t.Error("release should end the drag")
	}
}

func TestTaskbarClicks(t *testing.T) {
	d := loggedIn(t)

	click(d, 1, d.Height-1)
	if !d.StartMenuOpen {
		t.Fatal("start button did not open the menu")
	}
	click(d, 1, d.Height-1)
	if d.StartMenuOpen {
		t.Fatal("start button did not close the menu")
	}

	dispatcher.Dispatch(config.ActionOpenTerminal, tea.KeyPressMsg{}, d)
	w, _ := d.Focused()
	target, id := d.TaskbarAt(11)
	if target != app.TargetWindow || id != w.ID {
		t.Fatalf("TaskbarAt(11) = %v %q, want window %q", target, id, w.ID)
	}
	click(d, 11, d.Height-1)
	got, _ := d.Manager().Get(w.ID)
	if !got.Minimized {
		t.Error("clicking the focused window's button should minimize it")
	}
}

func TestClickOutsideOverlayCloses(t *testing.T) {
	d := loggedIn(t)
	d.OpenTrailSettings()

	click(d, 0, 0)
	if d.TrailPanel != nil {
		t.Error("click beside the overlay should close it")
	}
}
