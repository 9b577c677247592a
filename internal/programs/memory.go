package programs

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/ticker"
	"github.com/Gaurav-Gosain/navi/internal/wm"
)

// Memory is one file in the memory bank.
type Memory struct {
	Title     string
	Content   string
	Corrupted bool
	SizeKB    int
}

var memories = []Memory{
	{
		Title:   "PROTOCOL_07.DAT",
		Content: "Everyone is connected. Everyone is alone. The boundary between self and other becomes meaningless in the Wired.",
	},
	{
		Title:     "FRAGMENT_12.MEM",
		Content:   "I am not the Lain of the real world. I am the Lain of the Wired. We are all connected.",
		Corrupted: true,
	},
	{
		Title:   "ECHO_999.LOG",
		Content: "Present day, present time. The distinction between reality and virtuality fades. What is real?",
	},
	{
		Title:     "DELETED_FILE.ERR",
		Content:   "████ ████ ████ MEMORY CORRUPTION DETECTED ████ ████ ████",
		Corrupted: true,
	},
}

const (
	glitchChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"
	memoryTop   = 2
)

// MemoryBank lists the memory files and shows the selected one.
type MemoryBank struct {
	env        Env
	files      []Memory
	cursor     int
	selected   int
	glitch     string
	corruption int
	noise      *ticker.Task
}

// NewMemoryBank returns a memory bank with nothing selected.
func NewMemoryBank(id string, env Env) *MemoryBank {
	env = env.withDefaults()
	m := &MemoryBank{
		env:      env,
		files:    make([]Memory, len(memories)),
		selected: -1,
		noise:    ticker.New(id+"/noise", config.MemoryNoiseInterval),
	}
	for i, f := range memories {
		f.SizeKB = env.Rand.IntN(999)
		m.files[i] = f
	}
	m.corruption = env.Rand.IntN(47)
	m.scramble()
	return m
}

func (m *MemoryBank) Init() tea.Cmd {
	return m.noise.Start()
}

func (m *MemoryBank) Close() {
	m.noise.Stop()
}

// Selected returns the open memory, if any.
func (m *MemoryBank) Selected() (Memory, bool) {
	if m.selected < 0 {
		return Memory{}, false
	}
	return m.files[m.selected], true
}

// Toggle opens memory i, or closes it when it is already open.
func (m *MemoryBank) Toggle(i int) {
	if i < 0 || i >= len(m.files) {
		return
	}
	m.env.Host.Play(audio.CueSelect)
	m.cursor = i
	if m.selected == i {
		m.selected = -1
		return
	}
	m.selected = i
}

func (m *MemoryBank) scramble() {
	var b strings.Builder
	for range 20 {
		b.WriteByte(glitchChars[m.env.Rand.IntN(len(glitchChars))])
	}
	m.glitch = b.String()
}

func (m *MemoryBank) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if ok, cmd := m.noise.Handle(msg); ok {
		m.scramble()
		return m, cmd
	}

	switch msg := msg.(type) {
	case ClickMsg:
		if i, ok := rowAt(msg.Y, memoryTop, len(m.files)); ok {
			m.Toggle(i)
		}
	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			m.cursor = max(m.cursor-1, 0)
		case "down", "j":
			m.cursor = min(m.cursor+1, len(m.files)-1)
		case "enter", "space":
			m.Toggle(m.cursor)
		case "esc":
			m.env.Host.Open(wm.ProgramTerminal)
		}
	}
	return m, nil
}

func (m *MemoryBank) artifacts() string {
	b := make([]byte, 10)
	for i := range b {
		b[i] = byte(33 + m.env.Rand.IntN(94))
	}
	return string(b)
}

func (m *MemoryBank) View(width, height int) string {
	s := newStyles(m.env.Theme())

	out := []string{programHeader(s, "MEMORY BANK_SYSTEM", width), ""}
	for i, f := range m.files {
		name := f.Title
		if f.Corrupted {
			name = "[!] " + name
		}
		line := fmt.Sprintf(" %-22s %4dKB", name, f.SizeKB)
		switch {
		case i == m.selected:
			line = s.selected.Render(line)
		case f.Corrupted:
			line = s.warn.Render(line)
		default:
			line = s.text.Render(line)
		}
		if i == m.cursor {
			line = s.accent.Render(">") + line
		} else {
			line = " " + line
		}
		out = append(out, line)
	}

	out = append(out, "",
		s.dim.Render(fmt.Sprintf("ACTIVE MEMORIES: %d", len(m.files))),
		s.dim.Render(fmt.Sprintf("CORRUPTION LEVEL: %d%%", m.corruption)),
		s.accent.Render("GLITCH: "+m.glitch),
		"",
	)

	if f, ok := m.Selected(); ok {
		out = append(out, s.header.Render("VIEWING: "+f.Title))
		out = append(out, wrap(f.Content, width-2)...)
		if f.Corrupted {
			out = append(out,
				s.warn.Render("WARNING: MEMORY INTEGRITY COMPROMISED"),
				s.warn.Render(m.artifacts()),
			)
		}
	} else {
		out = append(out,
			s.header.Render("SELECT A MEMORY TO VIEW CONTENTS"),
			s.dim.Render("Click on any memory entry to access its contents."),
			s.dim.Render("Corrupted files may contain unexpected data."),
		)
	}
	return clip(out, width, height)
}

// wrap breaks text into lines of at most width cells on word boundaries.
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	return strings.Split(ansi.Wordwrap(text, width, ""), "\n")
}
