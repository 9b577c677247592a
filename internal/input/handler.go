// Package input routes keyboard and mouse events to the navi desktop.
package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/navi/internal/app"
)

// HandleInput is the app.InputHandler for navi. Register it with
// app.SetInputHandler before starting the program.
func HandleInput(msg tea.Msg, d *app.Desktop) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return HandleKeyPress(msg, d)
	case tea.PasteMsg:
		return handlePaste(msg, d)
	case tea.MouseClickMsg:
		return handleMouseClick(msg, d)
	case tea.MouseMotionMsg:
		return handleMouseMotion(msg, d)
	case tea.MouseReleaseMsg:
		return handleMouseRelease(msg, d)
	case tea.MouseWheelMsg:
		return handleMouseWheel(msg, d)
	}
	return d, nil
}
