// Package session sequences the desktop from the login gate through the boot
// screen to the desktop, and routes global shortcuts once the desktop is up.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/Gaurav-Gosain/navi/internal/wm"
)

// Phase is where the session is in its lifecycle. Phases only move forward.
type Phase int

const (
	PhaseLoggedOut Phase = iota
	PhaseBooting
	PhaseDesktop
)

func (p Phase) String() string {
	switch p {
	case PhaseBooting:
		return "booting"
	case PhaseDesktop:
		return "desktop"
	}
	return "logged-out"
}

var (
	// ErrEmptyCredentials rejects a login with a blank username or password.
	ErrEmptyCredentials = errors.New("session: username and password are required")
	// ErrNotLoggedOut is returned by Login once a login has been accepted.
	ErrNotLoggedOut = errors.New("session: already logged in")
)

// WarningThreshold is the number of failed attempts after which the login
// screen shows the security warning.
const WarningThreshold = 2

const (
	specialUser     = "lain"
	specialPassword = "root"
)

// Config holds what the session needs to build the desktop.
type Config struct {
	BootDuration time.Duration
	Geometry     wm.Geometry
	Viewport     wm.Size
	// ManagerOptions are passed to wm.NewManager when the desktop starts.
	ManagerOptions []wm.Option
}

// Session is the top-level controller of one desktop.
type Session struct {
	cfg       Config
	phase     Phase
	attempts  int
	user      string
	special   bool
	bootStart time.Time
	mgr       *wm.Manager
}

// New creates a session at the login gate.
func New(cfg Config) *Session {
	return &Session{cfg: cfg}
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Attempts returns how many logins were rejected.
func (s *Session) Attempts() int {
	return s.attempts
}

// Warning reports whether the failed attempt count is above the threshold.
func (s *Session) Warning() bool {
	return s.attempts > WarningThreshold
}

// User returns the accepted username.
func (s *Session) User() string {
	return s.user
}

// Special reports whether the recognized login was used. It only unlocks
// extra effects.
func (s *Session) Special() bool {
	return s.special
}

// BootDuration returns how long the boot phase lasts.
func (s *Session) BootDuration() time.Duration {
	return s.cfg.BootDuration
}

// Login submits credentials at the gate. Both fields must be non-blank after
// trimming; a rejected login bumps the attempt counter and leaves the session
// logged out. Retries are unlimited.
func (s *Session) Login(username, password string, now time.Time) error {
	if s.phase != PhaseLoggedOut {
		return ErrNotLoggedOut
	}
	user := strings.TrimSpace(username)
	if user == "" || strings.TrimSpace(password) == "" {
		s.attempts++
		return ErrEmptyCredentials
	}

	s.user = user
	s.special = strings.EqualFold(user, specialUser) && password == specialPassword
	s.phase = PhaseBooting
	s.bootStart = now
	return nil
}

// BootProgress returns how far the boot phase has come, from 0 to 1.
func (s *Session) BootProgress(now time.Time) float64 {
	switch s.phase {
	case PhaseLoggedOut:
		return 0
	case PhaseDesktop:
		return 1
	}
	if s.cfg.BootDuration <= 0 {
		return 1
	}
	return min(max(float64(now.Sub(s.bootStart))/float64(s.cfg.BootDuration), 0), 1)
}

// Advance moves a booting session to the desktop once the boot duration has
// elapsed at now. It reports whether the phase changed.
func (s *Session) Advance(now time.Time) bool {
	if s.phase != PhaseBooting || now.Sub(s.bootStart) < s.cfg.BootDuration {
		return false
	}
	s.enterDesktop()
	return true
}

// CompleteBoot ends the boot phase unconditionally.
func (s *Session) CompleteBoot() bool {
	if s.phase != PhaseBooting {
		return false
	}
	s.enterDesktop()
	return true
}

func (s *Session) enterDesktop() {
	opts := append([]wm.Option{wm.WithViewport(s.cfg.Viewport)}, s.cfg.ManagerOptions...)
	s.mgr = wm.NewManager(s.cfg.Geometry, opts...)
	s.phase = PhaseDesktop
}

// Manager returns the window manager, or nil before the desktop starts.
func (s *Session) Manager() *wm.Manager {
	return s.mgr
}

// SetViewport records the screen size and re-clamps open windows.
func (s *Session) SetViewport(size wm.Size) {
	s.cfg.Viewport = size
	if s.mgr != nil {
		s.mgr.SetViewport(size)
	}
}
