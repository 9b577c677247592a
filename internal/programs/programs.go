// Package programs implements the content panels shown inside desktop windows.
//
// A panel never touches its window record. Everything it may ask of the
// desktop goes through Host: opening another program, showing the theme
// picker, or playing an audio cue. Timers are ticker tasks owned by the panel
// and stopped in Close.
package programs

import (
	"fmt"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/theme"
	"github.com/Gaurav-Gosain/navi/internal/wm"
)

// Host is the desktop as seen from a panel.
type Host interface {
	// Open launches a new window running p.
	Open(p wm.Program)
	// OpenThemePicker shows the theme color picker overlay.
	OpenThemePicker()
	// Play emits an audio cue.
	Play(c audio.Cue)
}

// Panel is the content of one program window.
type Panel interface {
	// Init returns the commands that start the panel's timers.
	Init() tea.Cmd
	// Update handles keys (only while focused), ClickMsg and ticker messages.
	Update(msg tea.Msg) (Panel, tea.Cmd)
	// View renders the panel into at most width x height cells.
	View(width, height int) string
	// Close stops every timer the panel owns.
	Close()
}

// ClickMsg is a primary click inside the panel, in panel-local cells.
type ClickMsg struct {
	X int
	Y int
}

// Env carries the dependencies shared by every panel.
type Env struct {
	Host  Host
	Theme func() theme.Theme
	Rand  *rand.Rand
	Now   func() time.Time
}

func (e Env) withDefaults() Env {
	if e.Host == nil {
		e.Host = nopHost{}
	}
	if e.Theme == nil {
		e.Theme = theme.Default
	}
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6e617669))
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	return e
}

type nopHost struct{}

func (nopHost) Open(wm.Program) {}

func (nopHost) OpenThemePicker() {}

func (nopHost) Play(audio.Cue) {}

// Constructor builds a panel. id is unique per window and scopes the panel's
// timer messages.
type Constructor func(id string, env Env) Panel

var registry = map[wm.Program]Constructor{
	wm.ProgramTerminal: func(id string, env Env) Panel { return NewTerminal(id, env) },
	wm.ProgramMemory:   func(id string, env Env) Panel { return NewMemoryBank(id, env) },
	wm.ProgramNetwork:  func(id string, env Env) Panel { return NewNetworkScanner(id, env) },
	wm.ProgramSystem:   func(id string, env Env) Panel { return NewSystemMonitor(id, env) },
	wm.ProgramAudio:    func(id string, env Env) Panel { return NewAudioConsole(id, env) },
	wm.ProgramWired:    func(id string, env Env) Panel { return NewWiredBrowser(id, env) },
}

// New returns the panel for p. Programs without a registered panel get an
// UnknownPanel.
func New(p wm.Program, id string, env Env) Panel {
	env = env.withDefaults()
	ctor, ok := registry[p]
	if !ok {
		return &UnknownPanel{Program: p, env: env}
	}
	return ctor(id, env)
}

// UnknownPanel is shown for a program tag with no panel.
type UnknownPanel struct {
	Program wm.Program
	env     Env
}

func (u *UnknownPanel) Init() tea.Cmd { return nil }

func (u *UnknownPanel) Update(tea.Msg) (Panel, tea.Cmd) { return u, nil }

func (u *UnknownPanel) Close() {}

func (u *UnknownPanel) View(width, height int) string {
	s := newStyles(u.env.Theme())
	return clip([]string{
		s.warn.Render("UNKNOWN PROGRAM"),
		s.dim.Render(fmt.Sprintf("no panel for %q", u.Program.String())),
	}, width, height)
}
