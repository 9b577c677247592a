package session

import (
	"strings"

	"github.com/Gaurav-Gosain/navi/internal/wm"
)

// Action names bound to global shortcuts.
const (
	ActionGlitch     = "glitch"
	openActionPrefix = "open_"
)

// OpenAction returns the action that opens p, e.g. "open_terminal".
func OpenAction(p wm.Program) string {
	return openActionPrefix + p.String()
}

// Result describes what a triggered action did.
type Result struct {
	// Opened is set when the action opened a window.
	Opened *wm.Window
	// Glitch is set when the action asks for a glitch pulse.
	Glitch bool
}

// Trigger runs a session-level action. It returns false when the action is
// not one the session handles or the desktop is not up yet, so the caller
// can let the key through.
func (s *Session) Trigger(action string) (Result, bool) {
	if s.phase != PhaseDesktop {
		return Result{}, false
	}
	if action == ActionGlitch {
		return Result{Glitch: true}, true
	}
	tag, ok := strings.CutPrefix(action, openActionPrefix)
	if !ok {
		return Result{}, false
	}
	p, err := wm.ParseProgram(tag)
	if err != nil {
		return Result{}, false
	}
	w := s.mgr.Open(p)
	return Result{Opened: &w}, true
}
