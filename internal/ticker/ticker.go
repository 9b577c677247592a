// Package ticker provides timer tasks scoped to the component that owns them.
//
// A Task tags every tick it schedules with a generation number. Stopping the
// task bumps the generation, so ticks already in flight are recognised as
// stale and dropped instead of re-arming the timer. Components start their
// tasks when mounted and stop them when unmounted; nothing keeps running
// after the owner is gone.
package ticker

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// TickMsg is delivered when a task's timer fires.
type TickMsg struct {
	ID   string
	Tag  int
	Time time.Time
}

// Task is a repeating or one-shot timer owned by a single component.
type Task struct {
	id       string
	interval time.Duration
	once     bool
	tag      int
	running  bool
}

// New returns a stopped task that fires every interval once started.
func New(id string, interval time.Duration) *Task {
	return &Task{id: id, interval: interval}
}

// Once returns a stopped task that fires a single time after delay.
func Once(id string, delay time.Duration) *Task {
	return &Task{id: id, interval: delay, once: true}
}

// ID returns the task identifier.
func (t *Task) ID() string {
	return t.id
}

// Tag returns the current generation.
func (t *Task) Tag() int {
	return t.tag
}

// Interval returns the delay between ticks.
func (t *Task) Interval() time.Duration {
	return t.interval
}

// SetInterval changes the delay used for ticks scheduled from now on.
func (t *Task) SetInterval(d time.Duration) {
	t.interval = d
}

// Running reports whether the task will accept its next tick.
func (t *Task) Running() bool {
	return t.running
}

// Start (re)arms the task under a new generation and returns the command
// that schedules the first tick. Ticks from earlier generations are dropped.
func (t *Task) Start() tea.Cmd {
	t.tag++
	t.running = true
	return t.schedule()
}

// Stop disarms the task. Any tick already scheduled is ignored when it lands.
func (t *Task) Stop() {
	if !t.running {
		return
	}
	t.tag++
	t.running = false
}

func (t *Task) schedule() tea.Cmd {
	id, tag := t.id, t.tag
	return tea.Tick(t.interval, func(now time.Time) tea.Msg {
		return TickMsg{ID: id, Tag: tag, Time: now}
	})
}

// Handle reports whether msg is a live tick for this task. A repeating task
// returns the command for its next tick; a one-shot task stops itself.
func (t *Task) Handle(msg tea.Msg) (bool, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != t.id {
		return false, nil
	}
	if !t.running || tick.Tag != t.tag {
		return false, nil
	}
	if t.once {
		t.running = false
		return true, nil
	}
	return true, t.schedule()
}

// Group stops a set of tasks together.
type Group []*Task

// Stop stops every task in the group.
func (g Group) Stop() {
	for _, t := range g {
		t.Stop()
	}
}
