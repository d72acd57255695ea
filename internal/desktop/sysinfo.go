package desktop

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

const cpuHistoryLen = 10

type clockTickMsg time.Time

type sysinfoMsg struct {
	cpu float64
	mem float64
	err error
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// sampleSysinfo reads CPU usage since the previous call and memory usage.
func sampleSysinfo() tea.Msg {
	var msg sysinfoMsg
	pct, err := cpu.Percent(0, false)
	if err != nil {
		msg.err = err
		return msg
	}
	if len(pct) > 0 {
		msg.cpu = pct[0]
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		msg.err = err
		return msg
	}
	msg.mem = vm.UsedPercent
	return msg
}

func (m *Model) recordSysinfo(msg sysinfoMsg) {
	if msg.err != nil {
		m.log.Debug("sysinfo sample failed", "err", msg.err)
		return
	}
	if len(m.cpuHistory) >= cpuHistoryLen {
		m.cpuHistory = m.cpuHistory[1:]
	}
	m.cpuHistory = append(m.cpuHistory, min(max(msg.cpu, 0), 100))
	m.memPercent = msg.mem
}

var cpuBars = []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// cpuGraph renders the history as a fixed-width bar graph followed by the
// latest value.
func cpuGraph(history []float64) string {
	current := 0.0
	if len(history) > 0 {
		current = history[len(history)-1]
	}
	if len(history) > cpuHistoryLen {
		history = history[len(history)-cpuHistoryLen:]
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", cpuHistoryLen-len(history)))
	for _, usage := range history {
		// 100/8 = 12.5
		b.WriteString(cpuBars[min(int(usage/12.5), len(cpuBars)-1)])
	}
	return fmt.Sprintf("CPU %s %3.0f%%", b.String(), current)
}
