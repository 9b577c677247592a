package input

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/navi/internal/app"
	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/programs"
	"github.com/Gaurav-Gosain/navi/internal/session"
	"github.com/Gaurav-Gosain/navi/internal/wm"
)

// handleMouseClick handles mouse click events
func handleMouseClick(msg tea.MouseClickMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	mouse := msg.Mouse()
	p := wm.Point{X: mouse.X, Y: mouse.Y}
	if mouse.Button != tea.MouseLeft {
		return d, nil
	}

	switch d.Session.Phase() {
	case session.PhaseLoggedOut:
		return handleLoginClick(p, d)
	case session.PhaseDesktop:
		return handleDesktopClick(p, d)
	}
	return d, nil
}

func handleLoginClick(p wm.Point, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	field, ok := d.LoginFieldAt(p)
	if !ok {
		return d, nil
	}
	switch field {
	case app.FieldShowPassword:
		d.Login.Focus = field
		d.ToggleShowPassword()
	case app.FieldSubmit:
		d.Login.Focus = field
		return d, d.Submit()
	default:
		d.Login.Focus = field
	}
	return d, nil
}

func handleDesktopClick(p wm.Point, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	// A modal overlay swallows the click; clicking beside it dismisses it
	if d.OverlayOpen() {
		if hit := d.Compositor().Hit(p.X, p.Y); hit.Empty() || hit.ID() != app.LayerOverlay {
			d.CloseOverlay()
		}
		return d, nil
	}

	if p.Y >= d.Height-config.TaskbarHeight {
		switch target, id := d.TaskbarAt(p.X); target {
		case app.TargetStart:
			d.ToggleStartMenu()
		case app.TargetWindow:
			d.StartMenuOpen = false
			d.ActivateWindow(id)
		}
		return d, nil
	}

	if d.StartMenuOpen {
		if i, ok := d.StartMenuItemAt(p); ok {
			return d, d.RunStartMenuItem(i)
		}
		if d.InStartMenu(p) {
			return d, nil
		}
		d.StartMenuOpen = false
	}

	mgr := d.Manager()
	w, ok := mgr.WindowAt(p)
	if !ok {
		return d, nil
	}

	region := app.FrameRegion(w, p)
	log.Debug("window click", "id", w.ID, "region", region)
	switch region {
	case app.RegionClose:
		d.CloseWindow(w.ID)
	case app.RegionMinimize:
		d.MinimizeWindow(w.ID)
	case app.RegionTitle:
		mgr.BeginDrag(w.ID, p)
	case app.RegionResize:
		mgr.BeginResize(w.ID, p)
	case app.RegionContent:
		d.FocusWindow(w.ID)
		cp := app.ContentPoint(w, p)
		return d, d.UpdatePanel(w.ID, programs.ClickMsg{X: cp.X, Y: cp.Y})
	default:
		d.FocusWindow(w.ID)
	}
	return d, nil
}

// handleMouseMotion feeds the pointer router and the cursor trail.
func handleMouseMotion(msg tea.MouseMotionMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	mouse := msg.Mouse()
	p := wm.Point{X: mouse.X, Y: mouse.Y}
	d.TrackPointer(p)
	if mgr := d.Manager(); mgr != nil {
		mgr.Pointer().Motion(p)
	}
	return d, nil
}

// handleMouseRelease ends any drag or resize in progress.
func handleMouseRelease(msg tea.MouseReleaseMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	mouse := msg.Mouse()
	if mgr := d.Manager(); mgr != nil {
		mgr.Pointer().Release(wm.Point{X: mouse.X, Y: mouse.Y})
	}
	return d, nil
}

// handleMouseWheel scrolls the start menu and help tabs.
func handleMouseWheel(msg tea.MouseWheelMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	if d.Session.Phase() != session.PhaseDesktop {
		return d, nil
	}
	delta := 0
	switch msg.Mouse().Button {
	case tea.MouseWheelUp:
		delta = -1
	case tea.MouseWheelDown:
		delta = 1
	default:
		return d, nil
	}
	switch {
	case d.ShowHelp:
		d.MoveHelpSection(delta)
	case d.StartMenuOpen:
		d.MoveMenuSelection(delta)
	}
	return d, nil
}
