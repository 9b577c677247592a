// Package wm implements the desktop window manager: window records, stacking
// order, cascade placement and pointer-driven move/resize sessions.
package wm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProgram is returned when a program tag is not one of the known kinds.
var ErrUnknownProgram = errors.New("unknown program")

// Program identifies which panel a window hosts.
type Program int

const (
	// ProgramUnknown is the zero value and never names a real panel.
	ProgramUnknown Program = iota
	// ProgramTerminal is the command terminal.
	ProgramTerminal
	// ProgramMemory is the memory bank viewer.
	ProgramMemory
	// ProgramNetwork is the network scanner.
	ProgramNetwork
	// ProgramSystem is the system monitor.
	ProgramSystem
	// ProgramAudio is the audio console.
	ProgramAudio
	// ProgramWired is the wired browser.
	ProgramWired
)

// Programs lists every openable program in start menu order.
var Programs = []Program{
	ProgramTerminal,
	ProgramWired,
	ProgramMemory,
	ProgramNetwork,
	ProgramSystem,
	ProgramAudio,
}

var programNames = map[Program]string{
	ProgramTerminal: "terminal",
	ProgramMemory:   "memory",
	ProgramNetwork:  "network",
	ProgramSystem:   "system",
	ProgramAudio:    "audio",
	ProgramWired:    "wired",
}

var programTitles = map[Program]string{
	ProgramTerminal: "TERMINAL_001.EXE",
	ProgramMemory:   "MEMORY_BANK.SYS",
	ProgramNetwork:  "NETWORK_SCANNER.EXE",
	ProgramSystem:   "SYSTEM_MONITOR.EXE",
	ProgramAudio:    "AUDIO_CONSOLE.EXE",
	ProgramWired:    "WIRED_BROWSER.EXE",
}

var programLabels = map[Program]string{
	ProgramTerminal: "Terminal",
	ProgramMemory:   "Memory Bank",
	ProgramNetwork:  "Network Scanner",
	ProgramSystem:   "System Monitor",
	ProgramAudio:    "Audio Console",
	ProgramWired:    "Browse the Wired",
}

// ParseProgram maps a tag such as "terminal" or "wired-browser" to a Program.
func ParseProgram(tag string) (Program, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "wired-browser" || tag == "browser" {
		return ProgramWired, nil
	}
	for p, name := range programNames {
		if name == tag {
			return p, nil
		}
	}
	return ProgramUnknown, fmt.Errorf("%w: %q", ErrUnknownProgram, tag)
}

// String returns the program tag.
func (p Program) String() string {
	if name, ok := programNames[p]; ok {
		return name
	}
	return "unknown"
}

// Title returns the window title for the program.
func (p Program) Title() string {
	if title, ok := programTitles[p]; ok {
		return title
	}
	return "UNKNOWN.EXE"
}

// Label returns the human readable name used by the start menu.
func (p Program) Label() string {
	if label, ok := programLabels[p]; ok {
		return label
	}
	return "Unknown"
}

// Valid reports whether p names a real program.
func (p Program) Valid() bool {
	_, ok := programNames[p]
	return ok
}
