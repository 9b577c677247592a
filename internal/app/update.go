package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/navi/internal/effects"
	"github.com/Gaurav-Gosain/navi/internal/session"
	"github.com/Gaurav-Gosain/navi/internal/theme"
	"github.com/Gaurav-Gosain/navi/internal/ticker"
)

// StoreChangedMsg reports that a persisted document was written, possibly by
// another navi process.
type StoreChangedMsg struct {
	Key string
}

// InputHandler is a function type that handles input messages.
// This allows the Update method to delegate to the input package without creating a circular dependency.
type InputHandler func(msg tea.Msg, d *Desktop) (tea.Model, tea.Cmd)

// inputHandler is the registered input handler function.
var inputHandler InputHandler

// SetInputHandler registers the input handler function.
// This must be called during initialization before the Update loop runs.
func SetInputHandler(handler InputHandler) {
	inputHandler = handler
}

// Init starts the login screen timers and the settings watcher.
// Mouse tracking and focus reporting are configured in View.
func (d *Desktop) Init() tea.Cmd {
	cmds := []tea.Cmd{
		d.noiseTask.Start(),
		ListenForStoreChanges(d.storeEvents),
	}
	d.rollLoginNoise()
	return tea.Batch(cmds...)
}

// ListenForStoreChanges turns watcher events into messages. A nil channel
// yields no command.
func ListenForStoreChanges(events <-chan string) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		key, ok := <-events
		if !ok {
			return nil
		}
		return StoreChangedMsg{Key: key}
	}
}

// Update handles all incoming messages and updates the desktop state.
func (d *Desktop) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := d.update(msg)
	return model, tea.Batch(cmd, d.drain())
}

func (d *Desktop) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.Resize(msg.Width, msg.Height)
		return d, nil

	case ticker.TickMsg:
		return d, d.handleTick(msg)

	case HostStatsMsg:
		d.Stats.Record(msg)
		return d, nil

	case StoreChangedMsg:
		switch msg.Key {
		case theme.StorageKey:
			if d.Themes.Reload() {
				log.Debug("theme reloaded from disk")
			}
		case effects.TrailStorageKey:
			if d.Trails.Reload() {
				log.Debug("trail settings reloaded from disk")
			}
		}
		return d, ListenForStoreChanges(d.storeEvents)

	case tea.KeyPressMsg, tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg, tea.MouseWheelMsg, tea.PasteMsg:
		if inputHandler != nil {
			return inputHandler(msg, d)
		}
		return d, nil
	}
	return d, nil
}

func (d *Desktop) handleTick(msg ticker.TickMsg) tea.Cmd {
	if d.Glitch.Handle(msg) {
		return nil
	}
	if fired, next := d.noiseTask.Handle(msg); fired {
		d.rollLoginNoise()
		return next
	}
	if fired, next := d.bootTask.Handle(msg); fired {
		if d.Session.Advance(d.now()) {
			return d.enterDesktop()
		}
		return next
	}
	if fired, next := d.statsTask.Handle(msg); fired {
		return tea.Batch(next, SampleHostStats())
	}
	if fired, next := d.effectsTask.Handle(msg); fired {
		now := d.now()
		d.Trail.Prune(now)
		if d.Particles != nil {
			d.Particles.Step(now)
		}
		return next
	}
	if d.Session.Phase() != session.PhaseDesktop {
		return nil
	}
	return d.routeTick(msg)
}

const loginNoiseRunes = "!@#$%^&*()_+-=[]{}|;:,.<>?"

func (d *Desktop) rollLoginNoise() {
	b := make([]byte, 15)
	for i := range b {
		b[i] = loginNoiseRunes[d.rng.IntN(len(loginNoiseRunes))]
	}
	d.loginNoise = string(b)
}

// FilterMouseMotion is a tea.WithFilter function that drops mouse motion
// unless a drag is running or the trail is drawing.
func FilterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	if d, ok := model.(*Desktop); ok && !d.WantsMotion() {
		return nil
	}
	return msg
}
