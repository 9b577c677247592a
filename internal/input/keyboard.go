package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/navi/internal/app"
	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/session"
)

// HandleKeyPress routes a key by session phase. ctrl+c always quits.
func HandleKeyPress(msg tea.KeyPressMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return d, tea.Quit
	}
	switch d.Session.Phase() {
	case session.PhaseLoggedOut:
		return handleLoginKey(msg, d)
	case session.PhaseDesktop:
		return handleDesktopKey(msg, d)
	}
	// Keys are ignored while booting.
	return d, nil
}

func handleLoginKey(msg tea.KeyPressMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	switch msg.String() {
	case "ctrl+q":
		return d, tea.Quit
	case "tab", "down":
		d.MoveFocus(1)
	case "shift+tab", "up":
		d.MoveFocus(-1)
	case "backspace":
		d.Backspace()
	case "enter":
		if d.Activate() {
			return d, d.Submit()
		}
	case "space":
		if d.Login.Focus == app.FieldShowPassword {
			d.ToggleShowPassword()
			return d, nil
		}
		d.Type(" ")
	default:
		if msg.Text != "" && msg.Mod&(tea.ModCtrl|tea.ModAlt) == 0 {
			d.Type(msg.Text)
		}
	}
	return d, nil
}

func handleDesktopKey(msg tea.KeyPressMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	key := msg.String()

	// Overlays take priority over everything else
	switch {
	case d.Picker != nil:
		return handlePickerKey(key, d)
	case d.TrailPanel != nil:
		return handleTrailKey(key, d)
	case d.ShowHelp:
		return handleHelpKey(key, d)
	case d.StartMenuOpen:
		if handled, cmd := handleStartMenuKey(key, d); handled {
			return d, cmd
		}
	}

	if action := d.Keybinds.GetAction(key); action != "" && dispatcher.HasAction(action) {
		return dispatcher.Dispatch(action, msg, d)
	}
	if key == "esc" && d.CloseOverlay() {
		return d, nil
	}

	if w, ok := d.Focused(); ok {
		return d, d.UpdatePanel(w.ID, msg)
	}
	return d, nil
}

func handlePickerKey(key string, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	switch key {
	case "esc":
		d.CloseOverlay()
	case "up", "k":
		d.Picker.MoveRow(-1)
	case "down", "j", "tab":
		d.Picker.MoveRow(1)
	case "left", "h":
		d.Picker.Adjust(-1)
	case "right", "l":
		d.Picker.Adjust(1)
	case "enter":
		d.ApplyPicker()
	case "r":
		d.ResetTheme()
	}
	return d, nil
}

func handleTrailKey(key string, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	switch key {
	case "esc", "enter":
		d.CloseOverlay()
	case "up", "k":
		d.TrailPanel.MoveRow(-1)
	case "down", "j", "tab":
		d.TrailPanel.MoveRow(1)
	case "left", "h":
		d.AdjustTrail(-1)
	case "right", "l", "space":
		d.AdjustTrail(1)
	case "r":
		d.ResetTrail()
	}
	return d, nil
}

func handleHelpKey(key string, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	switch {
	case key == "esc" || key == "q" || d.Keybinds.GetAction(key) == config.ActionToggleHelp:
		d.ToggleHelp()
	case key == "left" || key == "h" || key == "shift+tab":
		d.MoveHelpSection(-1)
	case key == "right" || key == "l" || key == "tab":
		d.MoveHelpSection(1)
	}
	return d, nil
}

// handleStartMenuKey reports whether the open start menu consumed the key.
// Unhandled keys fall through to the global bindings.
func handleStartMenuKey(key string, d *app.Desktop) (bool, tea.Cmd) {
	switch key {
	case "esc":
		d.CloseOverlay()
	case "up", "k":
		d.MoveMenuSelection(-1)
	case "down", "j":
		d.MoveMenuSelection(1)
	case "enter", "space":
		return true, d.RunStartMenuItem(d.MenuSelection)
	default:
		return false, nil
	}
	return true, nil
}

func handlePaste(msg tea.PasteMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	switch d.Session.Phase() {
	case session.PhaseLoggedOut:
		d.Type(msg.Content)
	case session.PhaseDesktop:
		if d.OverlayOpen() {
			return d, nil
		}
		if w, ok := d.Focused(); ok {
			return d, d.UpdatePanel(w.ID, msg)
		}
	}
	return d, nil
}
