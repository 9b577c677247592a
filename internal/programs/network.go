package programs

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/navi/internal/audio"
	"github.com/Gaurav-Gosain/navi/internal/config"
	"github.com/Gaurav-Gosain/navi/internal/ticker"
	"github.com/Gaurav-Gosain/navi/internal/wm"
)

// NodeStatus is the state reported for a discovered node.
type NodeStatus string

const (
	NodeActive     NodeStatus = "active"
	NodeUnknown    NodeStatus = "unknown"
	NodeSuspicious NodeStatus = "suspicious"
)

var nodeStatuses = []NodeStatus{NodeActive, NodeUnknown, NodeSuspicious}

var hostnames = []string{
	"LAIN.local", "alice.wired", "chisa.node", "deus.sys", "protocol7.net",
	"knights.temp", "arisu.dev", "masami.ghost", "taro.wire", "tachibana.log",
}

// Node is one host found by a scan.
type Node struct {
	ID       string
	IP       string
	Hostname string
	Status   NodeStatus
	Ports    []int
}

const (
	scanButtonRow = 2
	nodeListTop   = 5
)

// NetworkScanner shows a list of fake hosts and re-rolls it on every scan.
type NetworkScanner struct {
	env      Env
	nodes    []Node
	cursor   int
	selected int
	scanning bool
	progress float64
	scan     *ticker.Task
}

// NewNetworkScanner returns a scanner with a freshly generated node list.
func NewNetworkScanner(id string, env Env) *NetworkScanner {
	n := &NetworkScanner{
		env:      env.withDefaults(),
		selected: -1,
		scan:     ticker.New(id+"/scan", config.ScanStepInterval),
	}
	n.nodes = n.generate()
	return n
}

func (n *NetworkScanner) generate() []Node {
	r := n.env.Rand
	nodes := make([]Node, len(hostnames))
	for i, h := range hostnames {
		ports := make([]int, r.IntN(5)+1)
		for j := range ports {
			ports[j] = r.IntN(65535)
		}
		nodes[i] = Node{
			ID:       fmt.Sprintf("node_%d", i+1),
			IP:       fmt.Sprintf("192.168.%d.%d", r.IntN(255), r.IntN(255)),
			Hostname: h,
			Status:   nodeStatuses[r.IntN(len(nodeStatuses))],
			Ports:    ports,
		}
	}
	return nodes
}

func (n *NetworkScanner) Init() tea.Cmd { return nil }

func (n *NetworkScanner) Close() {
	n.scan.Stop()
}

// Nodes returns the discovered nodes.
func (n *NetworkScanner) Nodes() []Node {
	return n.nodes
}

// Scanning reports whether a scan is in progress, and how far it got.
func (n *NetworkScanner) Scanning() (bool, float64) {
	return n.scanning, n.progress
}

// StartScan begins a scan. It does nothing while one is already running.
func (n *NetworkScanner) StartScan() tea.Cmd {
	if n.scanning {
		return nil
	}
	n.scanning = true
	n.progress = 0
	n.env.Host.Play(audio.CueScan)
	return n.scan.Start()
}

// Toggle selects node i, or clears the selection when it is already selected.
func (n *NetworkScanner) Toggle(i int) {
	if i < 0 || i >= len(n.nodes) {
		return
	}
	n.env.Host.Play(audio.CueSelect)
	n.cursor = i
	if n.selected == i {
		n.selected = -1
		return
	}
	n.selected = i
}

func (n *NetworkScanner) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if ok, cmd := n.scan.Handle(msg); ok {
		if n.progress >= 100 {
			n.scan.Stop()
			n.scanning = false
			n.progress = 100
			n.nodes = n.generate()
			n.selected = -1
			return n, nil
		}
		n.progress += n.env.Rand.Float64() * 15
		return n, cmd
	}

	switch msg := msg.(type) {
	case ClickMsg:
		if msg.Y == scanButtonRow {
			return n, n.StartScan()
		}
		if i, ok := rowAt(msg.Y, nodeListTop, len(n.nodes)); ok {
			n.Toggle(i)
		}
	case tea.KeyPressMsg:
		switch msg.String() {
		case "s":
			return n, n.StartScan()
		case "up", "k":
			n.cursor = max(n.cursor-1, 0)
		case "down", "j":
			n.cursor = min(n.cursor+1, len(n.nodes)-1)
		case "enter", "space":
			n.Toggle(n.cursor)
		case "esc":
			n.env.Host.Open(wm.ProgramTerminal)
		}
	}
	return n, nil
}

func (n *NetworkScanner) View(width, height int) string {
	s := newStyles(n.env.Theme())

	button := s.selected.Render("[ START SCAN ]")
	progress := ""
	if n.scanning {
		button = s.dim.Render("[ SCANNING... ]")
		progress = s.text.Render(bar(min(width-8, 30), n.progress)) +
			s.dim.Render(fmt.Sprintf(" %d%%", int(min(n.progress, 100))))
	}

	out := []string{
		programHeader(s, "NETWORK_SCANNER.EXE", width),
		"",
		button,
		progress,
		s.header.Render(fmt.Sprintf("DISCOVERED NODES: %d", len(n.nodes))),
	}
	for i, node := range n.nodes {
		dot := s.text.Render("●")
		switch node.Status {
		case NodeSuspicious:
			dot = s.warn.Render("●")
		case NodeUnknown:
			dot = s.dim.Render("●")
		}
		line := fmt.Sprintf(" %-14s %-16s %d ports", node.Hostname, node.IP, len(node.Ports))
		if i == n.selected {
			line = s.selected.Render(line)
		} else {
			line = s.text.Render(line)
		}
		prefix := " "
		if i == n.cursor {
			prefix = s.accent.Render(">")
		}
		out = append(out, prefix+dot+line)
	}
	out = append(out, "")

	if n.selected < 0 {
		out = append(out,
			s.header.Render("SELECT A NODE TO VIEW DETAILS"),
			s.dim.Render("Initiate a network scan to discover connected devices."),
		)
		return clip(out, width, height)
	}

	node := n.nodes[n.selected]
	ports := make([]string, len(node.Ports))
	for i, p := range node.Ports {
		ports[i] = fmt.Sprint(p)
	}
	out = append(out,
		s.header.Render("NODE ANALYSIS: "+node.Hostname),
		s.text.Render("IP ADDRESS: "+node.IP),
		s.text.Render("STATUS:     "+strings.ToUpper(string(node.Status))),
		s.text.Render("OPEN PORTS: "+strings.Join(ports, ", ")),
	)
	if node.Status == NodeSuspicious {
		out = append(out,
			s.warn.Render("⚠ ANOMALY DETECTED"),
			s.warn.Render("Connection patterns suggest non-human behavior."),
		)
	}
	out = append(out,
		"",
		s.dim.Render("[YOU] ──── [ROUTER] ──── [WIRED]"),
		s.dim.Render("  └──── "+node.Hostname+" ────┘"),
	)
	return clip(out, width, height)
}
