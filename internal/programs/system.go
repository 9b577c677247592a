package programs

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/ticker"
	"github.com/Gaurav-Gosain/navi/internal/wm"
)

var processNames = []string{
	"lain.exe", "wired_client.dll", "neural_interface.sys", "memory_core.bin",
	"protocol7.daemon", "reality_check.exe", "ego_boundary.dll", "connection_mgr.sys",
	"identity_parser.exe", "consciousness.bin", "collective_unconscious.dll",
	"deus_interface.sys", "knights_protocol.exe", "alice_mirror.dll",
}

var processStatuses = []string{"running", "sleeping", "zombie", "unknown"}

// Process is one mock entry in the process table.
type Process struct {
	PID    int
	Name   string
	CPU    float64
	Memory float64
	Status string
}

const (
	processCount   = 12
	processListTop = 8
)

// SystemMonitor shows random load gauges and a killable process table.
type SystemMonitor struct {
	env      Env
	procs    []Process
	cpu      float64
	memory   float64
	network  float64
	uptime   int
	cursor   int
	selected int
	refresh  *ticker.Task
}

// NewSystemMonitor returns a monitor with twelve generated processes.
func NewSystemMonitor(id string, env Env) *SystemMonitor {
	env = env.withDefaults()
	m := &SystemMonitor{
		env:      env,
		selected: -1,
		uptime:   env.Rand.IntN(999),
		refresh:  ticker.New(id+"/refresh", config.MonitorRefreshInterval),
	}
	for i := range processCount {
		m.procs = append(m.procs, Process{
			PID:    1000 + i,
			Name:   processNames[i%len(processNames)],
			CPU:    env.Rand.Float64() * 100,
			Memory: env.Rand.Float64() * 512,
			Status: processStatuses[env.Rand.IntN(len(processStatuses))],
		})
	}
	return m
}

func (m *SystemMonitor) Init() tea.Cmd {
	return m.refresh.Start()
}

func (m *SystemMonitor) Close() {
	m.refresh.Stop()
}

// Processes returns the current process table.
func (m *SystemMonitor) Processes() []Process {
	return m.procs
}

// Selected returns the selected process, if any.
func (m *SystemMonitor) Selected() (Process, bool) {
	if m.selected < 0 || m.selected >= len(m.procs) {
		return Process{}, false
	}
	return m.procs[m.selected], true
}

// Toggle selects process i, or clears the selection when it is already selected.
func (m *SystemMonitor) Toggle(i int) {
	if i < 0 || i >= len(m.procs) {
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

// Kill removes the process with the given pid and clears the selection.
func (m *SystemMonitor) Kill(pid int) {
	m.env.Host.Play(audio.CueError)
	m.procs = slices.DeleteFunc(m.procs, func(p Process) bool { return p.PID == pid })
	m.selected = -1
	m.cursor = min(m.cursor, max(len(m.procs)-1, 0))
}

func (m *SystemMonitor) tick() {
	r := m.env.Rand
	m.cpu = r.Float64() * 100
	m.memory = r.Float64() * 100
	m.network = r.Float64() * 100
	for i := range m.procs {
		m.procs[i].CPU = max(0, m.procs[i].CPU+(r.Float64()-0.5)*20)
		m.procs[i].Memory = max(0, m.procs[i].Memory+(r.Float64()-0.5)*50)
	}
}

func (m *SystemMonitor) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if ok, cmd := m.refresh.Handle(msg); ok {
		m.tick()
		return m, cmd
	}

	switch msg := msg.(type) {
	case ClickMsg:
		if i, ok := rowAt(msg.Y, processListTop, len(m.procs)); ok {
			m.Toggle(i)
		}
	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			m.cursor = max(m.cursor-1, 0)
		case "down", "j":
			m.cursor = min(m.cursor+1, max(len(m.procs)-1, 0))
		case "enter", "space":
			m.Toggle(m.cursor)
		case "x", "delete":
			if p, ok := m.Selected(); ok {
				m.Kill(p.PID)
			}
		case "esc":
			m.env.Host.Open(wm.ProgramTerminal)
		}
	}
	return m, nil
}

func (m *SystemMonitor) View(width, height int) string {
	s := newStyles(m.env.Theme())
	gauge := func(label string, v float64) string {
		return s.dim.Render(fmt.Sprintf("%-8s", label)) +
			s.text.Render(bar(min(width-14, 30), v)) +
			s.dim.Render(fmt.Sprintf(" %3d%%", int(v)))
	}

	out := []string{
		programHeader(s, "SYSTEM_MONITOR.EXE", width),
		"",
		gauge("CPU", m.cpu),
		gauge("MEMORY", m.memory),
		gauge("NETWORK", m.network),
		s.dim.Render(fmt.Sprintf("UPTIME: %d:42:17  PROCESSES: %d  THREADS: %d  WIRED STATUS: CONNECTED",
			m.uptime, len(m.procs), len(m.procs)*3)),
		"",
		s.header.Render(fmt.Sprintf("  %-6s %-26s %5s %8s  %s", "PID", "PROCESS NAME", "CPU%", "MEM(MB)", "STATUS")),
	}
	for i, p := range m.procs {
		line := fmt.Sprintf("%-6d %-26s %4d%% %6dMB  %s",
			p.PID, p.Name, int(p.CPU), int(p.Memory), strings.ToUpper(p.Status))
		switch {
		case i == m.selected:
			line = s.selected.Render(line)
		case p.Status == "zombie":
			line = s.warn.Render(line)
		default:
			line = s.text.Render(line)
		}
		prefix := "  "
		if i == m.cursor {
			prefix = s.accent.Render("> ")
		}
		out = append(out, prefix+line)
	}
	out = append(out, "")

	p, ok := m.Selected()
	if !ok {
		out = append(out, s.header.Render("SELECT A PROCESS FOR DETAILS"))
		return clip(out, width, height)
	}
	out = append(out,
		s.header.Render("PROCESS DETAILS: "+p.Name),
		s.text.Render(fmt.Sprintf("PID %d  CPU %d%%  MEMORY %dMB  %s", p.PID, int(p.CPU), int(p.Memory), strings.ToUpper(p.Status))),
		s.accent.Render("[X] TERMINATE PROCESS"),
	)
	if strings.Contains(p.Name, "lain") {
		out = append(out,
			s.warn.Render("∿ ANOMALY DETECTED ∿"),
			s.warn.Render("Termination may result in unexpected system responses."),
		)
	}
	return clip(out, width, height)
}
