package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/navi/internal/app"
	"github.com/Gaurav-Gosain/navi/internal/config"
)

// ActionHandler is a function that handles a specific action
type ActionHandler func(msg tea.KeyPressMsg, d *app.Desktop) (*app.Desktop, tea.Cmd)

// ActionDispatcher maps action names to handler functions
type ActionDispatcher struct {
	handlers map[string]ActionHandler
}

// NewActionDispatcher creates a new action dispatcher with all handlers registered
func NewActionDispatcher() *ActionDispatcher {
	d := &ActionDispatcher{
		handlers: make(map[string]ActionHandler),
	}
	d.registerHandlers()
	return d
}

// registerHandlers registers all action handlers
func (d *ActionDispatcher) registerHandlers() {
	// Session actions: program launchers and the glitch pulse
	for _, action := range []string{
		config.ActionOpenTerminal,
		config.ActionOpenMemory,
		config.ActionOpenNetwork,
		config.ActionOpenSystem,
		config.ActionOpenAudio,
		config.ActionOpenWired,
		config.ActionGlitch,
	} {
		d.Register(action, makeSessionHandler(action))
	}

	// Window Management actions
	d.Register(config.ActionCloseWindow, handleCloseWindow)
	d.Register(config.ActionMinimizeWindow, handleMinimizeWindow)
	d.Register(config.ActionNextWindow, handleNextWindow)

	// Overlays
	d.Register(config.ActionThemePicker, handleThemePicker)
	d.Register(config.ActionTrailSettings, handleTrailSettings)
	d.Register(config.ActionStartMenu, handleStartMenu)
	d.Register(config.ActionToggleHelp, handleToggleHelp)
	d.Register(config.ActionQuit, handleQuit)
}

// Register adds an action handler
func (d *ActionDispatcher) Register(action string, handler ActionHandler) {
	d.handlers[action] = handler
}

// Dispatch executes the handler for a given action
func (d *ActionDispatcher) Dispatch(action string, msg tea.KeyPressMsg, desk *app.Desktop) (*app.Desktop, tea.Cmd) {
	if handler, ok := d.handlers[action]; ok {
		return handler(msg, desk)
	}
	return desk, nil
}

// HasAction checks if an action is registered
func (d *ActionDispatcher) HasAction(action string) bool {
	_, ok := d.handlers[action]
	return ok
}

// Actions returns the names of every registered action.
func (d *ActionDispatcher) Actions() []string {
	actions := make([]string, 0, len(d.handlers))
	for action := range d.handlers {
		actions = append(actions, action)
	}
	return actions
}

var dispatcher = NewActionDispatcher()

func makeSessionHandler(action string) ActionHandler {
	return func(_ tea.KeyPressMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
		cmd, _ := d.TriggerAction(action)
		return d, cmd
	}
}

func handleCloseWindow(_ tea.KeyPressMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	if w, ok := d.Focused(); ok {
		d.CloseWindow(w.ID)
	}
	return d, nil
}

func handleMinimizeWindow(_ tea.KeyPressMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	if w, ok := d.Focused(); ok {
		d.MinimizeWindow(w.ID)
	}
	return d, nil
}

func handleNextWindow(_ tea.KeyPressMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	d.CycleFocus()
	return d, nil
}

func handleThemePicker(_ tea.KeyPressMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	d.OpenThemePicker()
	return d, nil
}

func handleTrailSettings(_ tea.KeyPressMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	d.OpenTrailSettings()
	return d, nil
}

func handleStartMenu(_ tea.KeyPressMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	d.ToggleStartMenu()
	return d, nil
}

func handleToggleHelp(_ tea.KeyPressMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	d.ToggleHelp()
	return d, nil
}

func handleQuit(_ tea.KeyPressMsg, d *app.Desktop) (*app.Desktop, tea.Cmd) {
	return d, tea.Quit
}
