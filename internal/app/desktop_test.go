package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"

	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/effects"
	"github.com/Gaurav-Gosain/navi/internal/kv"
	"github.com/Gaurav-Gosain/navi/internal/session"
	"github.com/Gaurav-Gosain/navi/internal/theme"
	"github.com/Gaurav-Gosain/navi/internal/ticker"
	"github.com/Gaurav-Gosain/navi/internal/wm"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestDesktop(t *testing.T, mutate func(*config.UserConfig)) (*Desktop, *testClock) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Session.BootDuration = "0s"
	cfg.Appearance.NoEffects = true
	if mutate != nil {
		mutate(cfg)
	}
	clock := &testClock{now: epoch}
	d := New(Options{
		Config:   cfg,
		Store:    kv.NewMemStore(),
		Emitter:  &audio.Recorder{},
		Now:      clock.Now,
		Viewport: wm.Size{Width: 120, Height: 40},
	})
	t.Cleanup(d.Close)
	return d, clock
}

func login(t *testing.T, d *Desktop, user, pass string) {
	t.Helper()
	d.Login.Focus = FieldUsername
	d.Type(user)
	d.Login.Focus = FieldPassword
	d.Type(pass)
	d.Submit()
}

func onDesktop(t *testing.T) *Desktop {
	t.Helper()
	d, _ := newTestDesktop(t, nil)
	login(t, d, "navi", "wired")
	if got := d.Session.Phase(); got != session.PhaseDesktop {
		t.Fatalf("phase = %v, want %v", got, session.PhaseDesktop)
	}
	return d
}

func TestFrameRegion(t *testing.T) {
	w := wm.Window{
		Position: wm.Point{X: 10, Y: 5},
		Size:     wm.Size{Width: 30, Height: 10},
	}
	tests := []struct {
		name string
		p    wm.Point
		want Region
	}{
		{"outside", wm.Point{X: 9, Y: 5}, RegionNone},
		{"title", wm.Point{X: 15, Y: 5}, RegionTitle},
		{"minimize", wm.Point{X: 33, Y: 5}, RegionMinimize},
		{"close", wm.Point{X: 37, Y: 5}, RegionClose},
		{"left border", wm.Point{X: 10, Y: 8}, RegionBorder},
		{"bottom border", wm.Point{X: 20, Y: 14}, RegionBorder},
		{"resize handle", wm.Point{X: 39, Y: 14}, RegionResize},
		{"content", wm.Point{X: 15, Y: 8}, RegionContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FrameRegion(w, tt.p); got != tt.want {
				t.Errorf("FrameRegion(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestContentPoint(t *testing.T) {
	w := wm.Window{Position: wm.Point{X: 10, Y: 5}, Size: wm.Size{Width: 30, Height: 10}}
	if diff := cmp.Diff(wm.Point{X: 4, Y: 2}, ContentPoint(w, wm.Point{X: 15, Y: 8})); diff != "" {
		t.Errorf("ContentPoint mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wm.Size{Width: 28, Height: 8}, ContentSize(w)); diff != "" {
		t.Errorf("ContentSize mismatch (-want +got):\n%s", diff)
	}
}

func TestLoginFlow(t *testing.T) {
	t.Run("blank credentials are rejected", func(t *testing.T) {
		d, _ := newTestDesktop(t, nil)
		if cmd := d.Submit(); cmd != nil {
			t.Error("rejected login returned a command")
		}
		if !d.Login.Denied {
			t.Error("Denied not set after a rejected login")
		}
		if d.Session.Attempts() != 1 {
			t.Errorf("Attempts = %d, want 1", d.Session.Attempts())
		}
		if d.Session.Phase() != session.PhaseLoggedOut {
			t.Errorf("phase = %v, want logged out", d.Session.Phase())
		}
	})

	t.Run("boot screen runs until its duration passes", func(t *testing.T) {
		d, clock := newTestDesktop(t, func(c *config.UserConfig) {
			c.Session.BootDuration = "2s"
		})
		login(t, d, "navi", "wired")
		if d.Session.Phase() != session.PhaseBooting {
			t.Fatalf("phase = %v, want booting", d.Session.Phase())
		}

		tick := ticker.TickMsg{ID: taskBoot, Tag: d.bootTask.Tag()}
		d.Update(tick)
		if d.Session.Phase() != session.PhaseBooting {
			t.Fatalf("boot ended early")
		}

		clock.now = epoch.Add(2 * time.Second)
		d.Update(ticker.TickMsg{ID: taskBoot, Tag: d.bootTask.Tag()})
		if d.Session.Phase() != session.PhaseDesktop {
			t.Fatalf("phase = %v, want desktop", d.Session.Phase())
		}
		if d.bootTask.Running() {
			t.Error("boot task still running on the desktop")
		}
		if d.noiseTask.Running() {
			t.Error("login noise still running on the desktop")
		}
	})

	t.Run("special login", func(t *testing.T) {
		d, _ := newTestDesktop(t, nil)
		login(t, d, "lain", "root")
		if !d.Session.Special() {
			t.Error("lain/root should be the special login")
		}
	})
}

func TestLoginEditing(t *testing.T) {
	d, _ := newTestDesktop(t, nil)
	d.Type("lain")
	d.Backspace()
	if d.Login.Username != "lai" {
		t.Errorf("Username = %q, want %q", d.Login.Username, "lai")
	}

	d.Type(strings.Repeat("x", maxCredentialLen))
	if got := ansi.StringWidth(d.Login.Username); got != 3 {
		t.Errorf("over-long input accepted, width %d", got)
	}

	if d.Activate() {
		t.Error("enter in the username field should not submit")
	}
	if d.Login.Focus != FieldPassword {
		t.Errorf("Focus = %v, want password", d.Login.Focus)
	}

	d.MoveFocus(-2)
	if d.Login.Focus != FieldSubmit {
		t.Errorf("Focus = %v, want submit after wrapping", d.Login.Focus)
	}
}

func TestTaskbarAt(t *testing.T) {
	d := onDesktop(t)
	d.OpenProgram(wm.ProgramTerminal)
	d.OpenProgram(wm.ProgramMemory)
	ids := d.WindowIDs()

	slot := config.TaskbarItemWidth + 1
	tests := []struct {
		name   string
		x      int
		target TaskbarTarget
		id     string
	}{
		{"start button", 0, TargetStart, ""},
		{"gap after start", windowButtonsX - 1, TargetNone, ""},
		{"first window", windowButtonsX, TargetWindow, ids[0]},
		{"gap between buttons", windowButtonsX + config.TaskbarItemWidth, TargetNone, ""},
		{"second window", windowButtonsX + slot, TargetWindow, ids[1]},
		{"past the last window", windowButtonsX + 2*slot, TargetNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, id := d.TaskbarAt(tt.x)
			if target != tt.target || id != tt.id {
				t.Errorf("TaskbarAt(%d) = (%v, %q), want (%v, %q)", tt.x, target, id, tt.target, tt.id)
			}
		})
	}
}

func TestActivateWindow(t *testing.T) {
	d := onDesktop(t)
	d.OpenProgram(wm.ProgramTerminal)
	d.OpenProgram(wm.ProgramMemory)
	ids := d.WindowIDs()
	a, b := ids[0], ids[1]

	d.ActivateWindow(b)
	if w, _ := d.Manager().Get(b); !w.Minimized {
		t.Fatal("activating the topmost window should minimize it")
	}

	d.ActivateWindow(b)
	if w, _ := d.Manager().Get(b); w.Minimized {
		t.Fatal("activating a minimized window should restore it")
	}
	if top, _ := d.Focused(); top.ID != b {
		t.Errorf("focused = %s, want restored window %s", top.ID, b)
	}

	d.ActivateWindow(a)
	if top, _ := d.Focused(); top.ID != a {
		t.Errorf("focused = %s, want %s", top.ID, a)
	}
	if w, _ := d.Manager().Get(a); w.Minimized {
		t.Error("activating a background window should not minimize it")
	}
}

func TestCycleFocus(t *testing.T) {
	d := onDesktop(t)
	d.OpenProgram(wm.ProgramTerminal)
	d.OpenProgram(wm.ProgramMemory)
	ids := d.WindowIDs()

	d.CycleFocus()
	if top, _ := d.Focused(); top.ID != ids[0] {
		t.Errorf("focused = %s, want the bottom window %s", top.ID, ids[0])
	}

	d.MinimizeWindow(ids[0])
	d.MinimizeWindow(ids[1])
	d.CycleFocus()
	w, _ := d.Manager().Get(ids[0])
	if w.Minimized {
		t.Error("cycling with nothing visible should restore the oldest window")
	}
}

func TestPanelOpensAreDeferred(t *testing.T) {
	d := onDesktop(t)
	desktopHost{d}.Open(wm.ProgramNetwork)
	if d.Manager().Len() != 0 {
		t.Fatal("window opened before the message finished")
	}

	d.Update(HostStatsMsg{CPU: 10, Mem: 20})
	if d.Manager().Len() != 1 {
		t.Fatalf("Len = %d after drain, want 1", d.Manager().Len())
	}
	w, _ := d.Focused()
	if w.Program != wm.ProgramNetwork {
		t.Errorf("opened %v, want %v", w.Program, wm.ProgramNetwork)
	}
	if _, ok := d.Panel(w.ID); !ok {
		t.Error("no panel mounted for the new window")
	}
}

func TestCloseWindowUnmountsPanel(t *testing.T) {
	d := onDesktop(t)
	d.OpenProgram(wm.ProgramSystem)
	w, _ := d.Focused()
	d.CloseWindow(w.ID)
	if _, ok := d.Panel(w.ID); ok {
		t.Error("panel still mounted after close")
	}
	if d.Manager().Len() != 0 {
		t.Errorf("Len = %d, want 0", d.Manager().Len())
	}
}

func TestSwitchPulse(t *testing.T) {
	d, _ := newTestDesktop(t, func(c *config.UserConfig) {
		c.Appearance.NoEffects = false
	})
	login(t, d, "navi", "wired")

	d.Update(HostStatsMsg{})
	if d.Glitch.Active() {
		t.Fatal("glitch active before anything happened")
	}

	d.OpenProgram(wm.ProgramTerminal)
	d.Update(HostStatsMsg{})
	if !d.Glitch.Active() {
		t.Error("opening a program should fire a switch pulse")
	}
	if got := d.Glitch.Intensity(); got != config.SwitchPulseIntensity {
		t.Errorf("Intensity = %v, want %v", got, config.SwitchPulseIntensity)
	}
}

func TestThemePicker(t *testing.T) {
	p := NewThemePicker()
	p.Adjust(-25)
	if p.Hue != 355 {
		t.Errorf("Hue = %v, want 355 after wrapping", p.Hue)
	}

	p.MoveRow(1)
	p.Adjust(3)
	if p.Saturation != 100 {
		t.Errorf("Saturation = %v, want clamped at 100", p.Saturation)
	}

	p.MoveRow(2)
	if p.Row != RowPreset {
		t.Fatalf("Row = %v, want preset", p.Row)
	}
	p.Adjust(-1)
	if p.Preset != len(theme.Presets)-1 {
		t.Errorf("Preset = %d, want wrap to the last preset", p.Preset)
	}
	p.Adjust(1)
	if p.Preset != -1 {
		t.Errorf("Preset = %d, want -1 after wrapping back", p.Preset)
	}
}

func TestApplyPicker(t *testing.T) {
	d := onDesktop(t)
	d.OpenThemePicker()
	d.Picker.Hue = 200
	want := d.Picker.Preview()
	d.ApplyPicker()

	if d.Picker != nil {
		t.Error("picker still open after apply")
	}
	if diff := cmp.Diff(want, d.Theme()); diff != "" {
		t.Errorf("theme mismatch (-want +got):\n%s", diff)
	}
}

func TestAdjustTrail(t *testing.T) {
	d := onDesktop(t)
	d.OpenTrailSettings()

	d.AdjustTrail(1)
	if d.Trails.Get().Enabled {
		t.Error("first row should toggle the trail off")
	}

	d.TrailPanel.Row = TrailRowLength
	for range 100 {
		d.AdjustTrail(1)
	}
	if got := d.Trails.Get().Length; got != effects.MaxLength {
		t.Errorf("Length = %d, want clamped at %d", got, effects.MaxLength)
	}

	d.TrailPanel.Row = TrailRowPreset
	d.AdjustTrail(1)
	if got := d.Trails.Get().Type; got != effects.Presets[0].Config.Type {
		t.Errorf("Type = %v, want first preset's %v", got, effects.Presets[0].Config.Type)
	}
	if d.Trails.Get().Enabled {
		t.Error("applying a preset should keep the trail disabled")
	}

	d.ResetTrail()
	if diff := cmp.Diff(effects.DefaultTrailConfig(), d.Trails.Get()); diff != "" {
		t.Errorf("trail after reset mismatch (-want +got):\n%s", diff)
	}
}

func TestRunStartMenuItem(t *testing.T) {
	d := onDesktop(t)
	for i, item := range StartMenu {
		if item.Action == config.ActionThemePicker {
			d.StartMenuOpen = true
			d.RunStartMenuItem(i)
			if d.Picker == nil {
				t.Error("theme settings entry did not open the picker")
			}
			if d.StartMenuOpen {
				t.Error("start menu still open")
			}
		}
	}

	d.CloseOverlay()
	d.RunStartMenuItem(0)
	w, ok := d.Focused()
	if !ok || w.Program != StartMenu[0].Program {
		t.Errorf("first entry opened %v, want %v", w.Program, StartMenu[0].Program)
	}

	if cmd := d.RunStartMenuItem(len(StartMenu)); cmd != nil {
		t.Error("out of range entry returned a command")
	}
}

func TestMoveMenuSelectionWraps(t *testing.T) {
	d := onDesktop(t)
	d.MoveMenuSelection(-1)
	if d.MenuSelection != len(StartMenu)-1 {
		t.Errorf("MenuSelection = %d, want %d", d.MenuSelection, len(StartMenu)-1)
	}
	d.MoveMenuSelection(1)
	if d.MenuSelection != 0 {
		t.Errorf("MenuSelection = %d, want 0", d.MenuSelection)
	}
}

func TestHostStats(t *testing.T) {
	var s HostStats
	idle := s.String()

	for i := range 15 {
		s.Record(HostStatsMsg{CPU: float64(i * 10), Mem: 150})
	}
	if len(s.CPUHistory) != cpuHistoryLen {
		t.Errorf("history length = %d, want %d", len(s.CPUHistory), cpuHistoryLen)
	}
	if s.CPU() != 100 {
		t.Errorf("CPU = %v, want clamped at 100", s.CPU())
	}
	if s.Mem != 100 {
		t.Errorf("Mem = %v, want clamped at 100", s.Mem)
	}
	if ansi.StringWidth(s.String()) != ansi.StringWidth(idle) {
		t.Errorf("tray width changed: %q vs %q", s.String(), idle)
	}

	before := s
	s.Record(HostStatsMsg{Err: errors.New("no /proc")})
	if diff := cmp.Diff(before, s); diff != "" {
		t.Errorf("failed sample changed the readout (-want +got):\n%s", diff)
	}
}

func TestRenderEveryPhase(t *testing.T) {
	d, clock := newTestDesktop(t, func(c *config.UserConfig) {
		c.Session.BootDuration = "1s"
	})
	if out := d.Render(); !strings.Contains(ansi.Strip(out), "█") {
		t.Error("login screen has no logo")
	}

	login(t, d, "navi", "wired")
	if out := d.Render(); out == "" {
		t.Error("boot screen rendered nothing")
	}

	clock.now = epoch.Add(time.Second)
	d.Update(ticker.TickMsg{ID: taskBoot, Tag: d.bootTask.Tag()})
	d.OpenProgram(wm.ProgramTerminal)
	out := ansi.Strip(d.Render())
	if !strings.Contains(out, "START") {
		t.Error("desktop has no taskbar")
	}
}

func TestCloseStopsTimers(t *testing.T) {
	d, _ := newTestDesktop(t, nil)
	d.Init()
	login(t, d, "navi", "wired")
	d.OpenProgram(wm.ProgramSystem)

	d.Close()
	for _, task := range []*ticker.Task{d.statsTask, d.noiseTask, d.bootTask, d.effectsTask} {
		if task.Running() {
			t.Errorf("task %s still running after Close", task.ID())
		}
	}
	if len(d.panels) != 0 {
		t.Errorf("%d panels still mounted after Close", len(d.panels))
	}
}

// watchedStore is a MemStore whose watcher callback the test drives by hand.
type watchedStore struct {
	*kv.MemStore
	notify func(key string)
}

func (s *watchedStore) Watch(_ context.Context, fn func(key string)) error {
	s.notify = fn
	return nil
}

func TestCloseReleasesStoreListener(t *testing.T) {
	store := &watchedStore{MemStore: kv.NewMemStore()}
	cfg := config.DefaultConfig()
	cfg.Appearance.NoEffects = true
	d := New(Options{
		Config:   cfg,
		Store:    store,
		Emitter:  &audio.Recorder{},
		Now:      func() time.Time { return epoch },
		Viewport: wm.Size{Width: 120, Height: 40},
	})
	if store.notify == nil {
		t.Fatal("desktop did not watch the store")
	}

	store.notify(theme.StorageKey)
	if diff := cmp.Diff(StoreChangedMsg{Key: theme.StorageKey}, ListenForStoreChanges(d.storeEvents)()); diff != "" {
		t.Errorf("before close (-want +got):\n%s", diff)
	}

	pending := ListenForStoreChanges(d.storeEvents)
	done := make(chan tea.Msg, 1)
	go func() { done <- pending() }()

	d.Close()
	select {
	case msg := <-done:
		if msg != nil {
			t.Errorf("pending listener got %#v after close, want nil", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("pending listener still blocked after close")
	}

	store.notify(effects.TrailStorageKey)
	d.Close()
	if msg := ListenForStoreChanges(d.storeEvents)(); msg != nil {
		t.Errorf("listener after close = %#v, want nil", msg)
	}
}
