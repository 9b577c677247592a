package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// cpuHistoryLen is the number of samples shown in the taskbar graph.
const cpuHistoryLen = 10

// HostStatsMsg carries one sample of the host's cpu and memory usage.
type HostStatsMsg struct {
	CPU float64
	Mem float64
	Err error
}

// HostStats is the taskbar tray readout.
type HostStats struct {
	CPUHistory []float64
	Mem        float64
	Valid      bool
}

// SampleHostStats reads cpu and memory usage off the update loop. The cpu
// figure is the usage since the previous call.
func SampleHostStats() tea.Cmd {
	return func() tea.Msg {
		var msg HostStatsMsg
		pct, err := cpu.Percent(0, false)
		if err != nil {
			msg.Err = fmt.Errorf("cpu usage: %w", err)
			return msg
		}
		if len(pct) > 0 {
			msg.CPU = pct[0]
		}
		vm, err := mem.VirtualMemory()
		if err != nil {
			msg.Err = fmt.Errorf("memory usage: %w", err)
			return msg
		}
		msg.Mem = vm.UsedPercent
		return msg
	}
}

// Record folds a sample into the readout. Failed samples are logged and
// leave the previous values in place.
func (s *HostStats) Record(msg HostStatsMsg) {
	if msg.Err != nil {
		log.Debug("host stats unavailable", "err", msg.Err)
		return
	}
	s.CPUHistory = append(s.CPUHistory, min(max(msg.CPU, 0), 100))
	if len(s.CPUHistory) > cpuHistoryLen {
		s.CPUHistory = s.CPUHistory[len(s.CPUHistory)-cpuHistoryLen:]
	}
	s.Mem = min(max(msg.Mem, 0), 100)
	s.Valid = true
}

// CPU returns the latest cpu sample.
func (s *HostStats) CPU() float64 {
	if len(s.CPUHistory) == 0 {
		return 0
	}
	return s.CPUHistory[len(s.CPUHistory)-1]
}

var graphBlocks = []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// Graph returns a fixed-width cpu bar graph, padded on the left until the
// history fills up.
func (s *HostStats) Graph() string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", cpuHistoryLen-len(s.CPUHistory)))
	for _, usage := range s.CPUHistory {
		level := min(int(usage/12.5), len(graphBlocks)-1)
		sb.WriteString(graphBlocks[level])
	}
	return sb.String()
}

// String renders the tray text, always the same width so the taskbar does
// not shift.
func (s *HostStats) String() string {
	if !s.Valid {
		return fmt.Sprintf("CPU:%s  --%% MEM  --%%", strings.Repeat(" ", cpuHistoryLen))
	}
	return fmt.Sprintf("CPU:%s %3.0f%% MEM %3.0f%%", s.Graph(), s.CPU(), s.Mem)
}
