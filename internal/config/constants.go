// Package config provides configuration constants, keybinding management, and user settings.
package config

import (
	"time"

	"github.com/Gaurav-Gosain/navi/internal/wm"
)

// =============================================================================
// Window Defaults (terminal cells)
// =============================================================================

const (
	// DefaultWindowWidth is the width of a freshly opened program window
	DefaultWindowWidth = 64

	// DefaultWindowHeight is the height of a freshly opened program window
	DefaultWindowHeight = 18

	// MinWindowWidth is the minimum width a window can be resized to
	MinWindowWidth = 40

	// MinWindowHeight is the minimum height a window can be resized to
	MinWindowHeight = 12

	// MinVisibleWidth is how much of a window must stay on screen horizontally
	MinVisibleWidth = 20

	// MinVisibleHeight is how much of a window must stay on screen vertically
	MinVisibleHeight = 3

	// CascadeStepX is the horizontal offset between successively opened windows
	CascadeStepX = 4

	// CascadeStepY is the vertical offset between successively opened windows
	CascadeStepY = 2

	// InitialZ is the first stacking value handed out by the window manager
	InitialZ = 1000
)

// CellGeometry returns the window manager geometry used by the terminal desktop.
func CellGeometry() wm.Geometry {
	return wm.Geometry{
		MinSize:       wm.Size{Width: MinWindowWidth, Height: MinWindowHeight},
		DefaultSize:   wm.Size{Width: DefaultWindowWidth, Height: DefaultWindowHeight},
		CascadeOrigin: wm.Point{X: 2, Y: 1},
		CascadeStep:   wm.Point{X: CascadeStepX, Y: CascadeStepY},
		MinVisible:    wm.Size{Width: MinVisibleWidth, Height: MinVisibleHeight},
		InitialZ:      InitialZ,
	}
}

// =============================================================================
// Session Timing
// =============================================================================

const (
	// DefaultBootDuration is how long the boot screen stays up after login
	DefaultBootDuration = 3 * time.Second

	// GlitchPulseDuration is how long the glitch shortcut keeps the overlay up
	GlitchPulseDuration = 500 * time.Millisecond

	// SwitchPulseDuration is the short glitch shown when a program opens
	SwitchPulseDuration = 200 * time.Millisecond

	// GlitchPulseIntensity is the intensity of the glitch shortcut
	GlitchPulseIntensity = 0.8

	// SwitchPulseIntensity is the intensity of the program switch pulse
	SwitchPulseIntensity = 0.3

	// LoginWarningThreshold is the failed attempt count above which the login
	// screen shows the security protocol warning
	LoginWarningThreshold = 2
)

// =============================================================================
// Timeouts and Intervals
// =============================================================================

const (
	// CursorBlinkInterval is the blink rate of the terminal panel cursor
	CursorBlinkInterval = 500 * time.Millisecond

	// TypingInterval is the per-character delay of the welcome banner
	TypingInterval = 50 * time.Millisecond

	// LoginNoiseInterval is the refresh rate of the login screen glitch text
	LoginNoiseInterval = 150 * time.Millisecond

	// MemoryNoiseInterval is the refresh rate of the memory bank glitch text
	MemoryNoiseInterval = 100 * time.Millisecond

	// ScanStepInterval is the interval between network scan progress steps
	ScanStepInterval = 200 * time.Millisecond

	// MonitorRefreshInterval is the interval between system monitor refreshes
	MonitorRefreshInterval = 2 * time.Second

	// VisualizerInterval is the refresh rate of the audio console visualizer
	VisualizerInterval = 100 * time.Millisecond

	// HostStatsInterval is the interval between host cpu/mem samples
	HostStatsInterval = time.Second

	// EffectsInterval drives the trail and particle fades
	EffectsInterval = 50 * time.Millisecond
)

// =============================================================================
// FPS and Refresh Rates
// =============================================================================

const (
	// NormalFPS is the normal refresh rate during regular operation
	NormalFPS = 60

	// InteractionFPS is the refresh rate during user interactions (drag/resize)
	InteractionFPS = 30
)

// =============================================================================
// UI Layout Dimensions
// =============================================================================

const (
	// TaskbarHeight is the height of the taskbar at the bottom
	TaskbarHeight = 1

	// TaskbarItemWidth is the maximum width of a window button in the taskbar
	TaskbarItemWidth = 18

	// StartMenuWidth is the width of the start menu popup
	StartMenuWidth = 30

	// MaxLogMessages is the number of log entries kept for the log overlay
	MaxLogMessages = 200
)

// =============================================================================
// Z Layers for overlays (windows use the window manager's counter)
// =============================================================================

const (
	// ZIndexTrail is the layer for the mouse trail
	ZIndexTrail = 1 << 30

	// ZIndexTaskbar is the layer for the taskbar and start menu
	ZIndexTaskbar = ZIndexTrail + 10

	// ZIndexOverlay is the layer for dialogs (theme picker, trail settings)
	ZIndexOverlay = ZIndexTaskbar + 10

	// ZIndexHelp is the layer for the help overlay
	ZIndexHelp = ZIndexOverlay + 10

	// ZIndexGlitch is the topmost glitch layer
	ZIndexGlitch = ZIndexHelp + 10
)

// =============================================================================
// Effect toggles
// =============================================================================

// EffectsEnabled controls cosmetic pulses (glitch, particles, trail).
var EffectsEnabled = true

// GetGlitchPulseDuration returns the glitch duration, or zero when effects are off.
func GetGlitchPulseDuration() time.Duration {
	if !EffectsEnabled {
		return 0
	}
	return GlitchPulseDuration
}

// GetSwitchPulseDuration returns the program switch pulse duration, or zero when effects are off.
func GetSwitchPulseDuration() time.Duration {
	if !EffectsEnabled {
		return 0
	}
	return SwitchPulseDuration
}
