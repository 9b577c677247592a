package programs

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/ticker"
	"github.com/Gaurav-Gosain/navi/internal/wm"
)

const (
	// Prompt precedes the input line.
	Prompt = "navi@copland:~$ "

	welcomeText = "Welcome to NAVI COPLAND OS v2.025\nNEURAL INTERFACE ONLINE\nType 'help' for available commands..."
)

type command struct {
	name string
	help string
	run  func(t *Terminal, args []string) []string
}

// commands is the terminal command table in help order.
var commands = []command{
	{"memory", "Access neural memory bank system", openCommand(wm.ProgramMemory, "Accessing memory bank...")},
	{"network", "Launch network scanner and node analyzer", openCommand(wm.ProgramNetwork, "Launching network scanner...")},
	{"system", "View real-time system monitor", openCommand(wm.ProgramSystem, "Opening system monitor...")},
	{"audio", "Open audio console and waveform analyzer", openCommand(wm.ProgramAudio, "Initializing audio console...")},
	{"wired", "Browse the Wired", openCommand(wm.ProgramWired, "Connecting to the Wired browser...")},
	{"theme", "Open color theme configuration panel", func(t *Terminal, _ []string) []string {
		t.env.Host.OpenThemePicker()
		return []string{"Opening theme configuration..."}
	}},
	{"status", "Display comprehensive system status", func(t *Terminal, _ []string) []string {
		r := t.env.Rand
		return []string{
			"SYSTEM STATUS:",
			fmt.Sprintf("  CPU: %d%%", r.IntN(100)),
			fmt.Sprintf("  MEMORY: %d%%", r.IntN(100)),
			"  NETWORK: CONNECTED",
			"  WIRED STATUS: ACTIVE",
			fmt.Sprintf("  NEURAL SYNC: %d%%", r.IntN(100)),
		}
	}},
	{"time", "Show current system time and date", func(t *Terminal, _ []string) []string {
		now := t.env.Now()
		return []string{
			"Current time: " + now.Format("1/2/2006, 3:04:05 PM"),
			fmt.Sprintf("Unix timestamp: %d", now.Unix()),
		}
	}},
	{"uptime", "Display system uptime statistics", func(t *Terminal, _ []string) []string {
		r := t.env.Rand
		return []string{
			fmt.Sprintf("System uptime: %d:%d:%d", r.IntN(999), r.IntN(60), r.IntN(60)),
			"Last boot: Neural interface initialization",
		}
	}},
	{"whoami", "Reveal current user authentication details", lines(
		"Current user: AUTHENTICATED",
		"Access level: NEURAL_INTERFACE",
		"Connection: WIRED_PROTOCOL_7",
	)},
	{"echo", "Echo input text back to terminal", func(_ *Terminal, args []string) []string {
		return []string{strings.Join(args, " ")}
	}},
	{"matrix", "Enter the matrix simulation", lines(
		"There is no spoon.",
		"The Matrix has you...",
		"Follow the white rabbit.",
		"Wake up, Neo...",
	)},
	{"reality", "Question the nature of reality", lines(
		"What is real?",
		"How do you define 'real'?",
		"If you're talking about what you can feel...",
		"...what you can smell, taste and see...",
		"...then 'real' is simply electrical signals interpreted by your brain.",
	)},
	{"clear", "Clear terminal screen buffer", func(t *Terminal, _ []string) []string {
		t.history = nil
		return nil
	}},
	{"who", "Mysterious identity query", lines(
		"You are...",
		"Are you connected?",
		"Everyone is connected.",
		"No one exists alone.",
	)},
	{"connect", "Establish connection to the Wired", lines(
		"Establishing connection to the Wired...",
		"Connection successful.",
		"You are now part of something larger.",
	)},
	{"lain", "Special user authentication protocol", lines(
		"I am here.",
		"I have always been here.",
		"Present day, present time.",
	)},
}

func lines(out ...string) func(*Terminal, []string) []string {
	return func(*Terminal, []string) []string {
		return out
	}
}

func openCommand(p wm.Program, msg string) func(*Terminal, []string) []string {
	return func(t *Terminal, _ []string) []string {
		t.env.Host.Open(p)
		return []string{msg}
	}
}

func lookupCommand(name string) (command, bool) {
	if name == "help" {
		return command{name: "help", run: func(*Terminal, []string) []string { return helpText() }}, true
	}
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func helpText() []string {
	rows := make([][]string, 0, len(commands))
	for _, c := range commands {
		rows = append(rows, []string{c.name, c.help})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("COMMAND", "ACTION").
		Rows(rows...)

	out := []string{"NAVI COPLAND OS v2.025 - AVAILABLE SYSTEM COMMANDS", ""}
	out = append(out, strings.Split(t.Render(), "\n")...)
	return append(out, "", "Type any command to execute. Use ALT+[T/M/N/S/A/W] for quick navigation.")
}

// Terminal is the command shell panel.
type Terminal struct {
	env      Env
	history  []string
	input    string
	typed    int
	cursorOn bool
	blink    *ticker.Task
	typing   *ticker.Task
}

// NewTerminal returns a terminal whose welcome banner types itself out.
func NewTerminal(id string, env Env) *Terminal {
	return &Terminal{
		env:      env.withDefaults(),
		cursorOn: true,
		blink:    ticker.New(id+"/cursor", config.CursorBlinkInterval),
		typing:   ticker.New(id+"/typing", config.TypingInterval),
	}
}

func (t *Terminal) Init() tea.Cmd {
	return tea.Batch(t.blink.Start(), t.typing.Start())
}

func (t *Terminal) Close() {
	ticker.Group{t.blink, t.typing}.Stop()
}

// History returns the output lines below the welcome banner.
func (t *Terminal) History() []string {
	return t.history
}

// Input returns the line being edited.
func (t *Terminal) Input() string {
	return t.input
}

// Welcome returns the part of the banner typed so far.
func (t *Terminal) Welcome() string {
	return string([]rune(welcomeText)[:t.typed])
}

func (t *Terminal) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if ok, cmd := t.blink.Handle(msg); ok {
		t.cursorOn = !t.cursorOn
		return t, cmd
	}
	if ok, cmd := t.typing.Handle(msg); ok {
		t.typed++
		if t.typed >= utf8.RuneCountInString(welcomeText) {
			t.typed = utf8.RuneCountInString(welcomeText)
			t.typing.Stop()
			return t, nil
		}
		return t, cmd
	}

	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "enter":
			t.Exec(t.input)
			t.input = ""
		case "backspace":
			if r := []rune(t.input); len(r) > 0 {
				t.input = string(r[:len(r)-1])
			}
		case "ctrl+u":
			t.input = ""
		case "ctrl+l":
			t.history = nil
		default:
			if msg.Text != "" && msg.Mod&(tea.ModCtrl|tea.ModAlt) == 0 {
				t.input += msg.Text
			}
		}
	}
	return t, nil
}

// Exec runs one command line and appends the echo and its output to the
// history.
func (t *Terminal) Exec(line string) {
	t.env.Host.Play(audio.CueKey)

	fields := strings.Fields(line)
	if len(fields) == 0 {
		t.history = append(t.history, "> ")
		return
	}

	c, ok := lookupCommand(strings.ToLower(fields[0]))
	if !ok {
		t.history = append(t.history, "> "+line, "Command not found: "+line)
		return
	}
	echo := "> " + line
	out := c.run(t, fields[1:])
	if c.name == "clear" {
		return
	}
	t.history = append(t.history, echo)
	t.history = append(t.history, out...)
}

func (t *Terminal) View(width, height int) string {
	s := newStyles(t.env.Theme())

	var out []string
	for _, l := range strings.Split(t.Welcome(), "\n") {
		out = append(out, s.header.Render(l))
	}
	for _, l := range t.history {
		if strings.HasPrefix(l, "> ") {
			out = append(out, s.accent.Render(l))
		} else {
			out = append(out, s.text.Render(l))
		}
	}

	cursor := " "
	if t.cursorOn {
		cursor = "█"
	}
	out = append(out, s.header.Render(Prompt)+s.text.Render(t.input)+s.text.Render(cursor))
	return tail(out, width, height)
}
