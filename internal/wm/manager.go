package wm

import (
	"slices"

	"github.com/google/uuid"
)

// Manager owns the window records and the stacking counter. It is not safe
// for concurrent use; the desktop drives it from a single update loop.
type Manager struct {
	geom     Geometry
	viewport Size
	windows  []*Window
	nextZ    int64
	cascade  int
	pointer  *PointerRouter
	newID    func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithViewport sets the initial viewport size.
func WithViewport(s Size) Option {
	return func(m *Manager) {
		m.viewport = s
	}
}

// WithIDGenerator replaces the uuid generator, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates an empty window manager.
func NewManager(geom Geometry, opts ...Option) *Manager {
	m := &Manager{
		geom:     geom,
		viewport: DefaultViewport,
		nextZ:    geom.InitialZ,
		newID:    func() string { return uuid.New().String() },
	}
	m.pointer = newPointerRouter(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Geometry returns the placement rules in effect.
func (m *Manager) Geometry() Geometry {
	return m.geom
}

// Viewport returns the current viewport size.
func (m *Manager) Viewport() Size {
	return m.viewport
}

// Pointer returns the router that owns drag and resize sessions.
func (m *Manager) Pointer() *PointerRouter {
	return m.pointer
}

// SetViewport changes the viewport and re-clamps every window into it.
func (m *Manager) SetViewport(s Size) {
	m.viewport = s
	for _, w := range m.windows {
		w.Position = m.geom.clampPosition(w.Position, s)
	}
}

func (m *Manager) allocZ() int64 {
	z := m.nextZ
	m.nextZ++
	return z
}

func (m *Manager) nextCascade() Point {
	step := m.geom.CascadeStep
	pos := m.geom.CascadeOrigin.Add(Point{X: step.X * m.cascade, Y: step.Y * m.cascade})
	if m.cascade > 0 && !m.geom.cascadeFits(pos, m.viewport) {
		m.cascade = 0
		pos = m.geom.CascadeOrigin
	}
	m.cascade++
	return m.geom.clampPosition(pos, m.viewport)
}

// Open creates a window for the program and puts it on top.
func (m *Manager) Open(p Program) Window {
	w := &Window{
		ID:       m.newID(),
		Program:  p,
		Title:    p.Title(),
		Position: m.nextCascade(),
		Size:     m.geom.clampSize(m.geom.DefaultSize),
		Z:        m.allocZ(),
	}
	m.windows = append(m.windows, w)
	return *w
}

func (m *Manager) find(id string) (int, *Window) {
	for i, w := range m.windows {
		if w.ID == id {
			return i, w
		}
	}
	return -1, nil
}

// Close removes the window. Unknown ids are ignored.
func (m *Manager) Close(id string) {
	i, _ := m.find(id)
	if i < 0 {
		return
	}
	m.pointer.endFor(id)
	m.windows = slices.Delete(m.windows, i, i+1)
}

// ToggleMinimize flips the minimized flag without touching the stacking order.
func (m *Manager) ToggleMinimize(id string) {
	if _, w := m.find(id); w != nil {
		w.Minimized = !w.Minimized
	}
}

// Focus raises the window above every other window. Each call consumes a new
// stacking value, including repeated calls on the topmost window.
func (m *Manager) Focus(id string) {
	if _, w := m.find(id); w != nil {
		w.Z = m.allocZ()
	}
}

// Move sets the window position, clamped to the viewport.
func (m *Manager) Move(id string, p Point) {
	if _, w := m.find(id); w != nil {
		w.Position = m.geom.clampPosition(p, m.viewport)
	}
}

// Resize sets the window size, clamped to the minimum floor.
func (m *Manager) Resize(id string, s Size) {
	if _, w := m.find(id); w != nil {
		w.Size = m.geom.clampSize(s)
	}
}

// Get returns a copy of the window record.
func (m *Manager) Get(id string) (Window, bool) {
	if _, w := m.find(id); w != nil {
		return *w, true
	}
	return Window{}, false
}

// Len returns the number of open windows, minimized ones included.
func (m *Manager) Len() int {
	return len(m.windows)
}

// Windows returns every window in the order it was opened.
func (m *Manager) Windows() []Window {
	out := make([]Window, len(m.windows))
	for i, w := range m.windows {
		out[i] = *w
	}
	return out
}

// Stack returns the non-minimized windows from bottom to top.
func (m *Manager) Stack() []Window {
	out := make([]Window, 0, len(m.windows))
	for _, w := range m.windows {
		if !w.Minimized {
			out = append(out, *w)
		}
	}
	slices.SortFunc(out, func(a, b Window) int {
		switch {
		case a.Z < b.Z:
			return -1
		case a.Z > b.Z:
			return 1
		}
		return 0
	})
	return out
}

// Topmost returns the window holding the largest stacking value.
func (m *Manager) Topmost() (Window, bool) {
	var top *Window
	for _, w := range m.windows {
		if top == nil || w.Z > top.Z {
			top = w
		}
	}
	if top == nil {
		return Window{}, false
	}
	return *top, true
}

// Focused returns the topmost window that is not minimized.
func (m *Manager) Focused() (Window, bool) {
	stack := m.Stack()
	if len(stack) == 0 {
		return Window{}, false
	}
	return stack[len(stack)-1], true
}

// WindowAt returns the topmost visible window containing p.
func (m *Manager) WindowAt(p Point) (Window, bool) {
	stack := m.Stack()
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Contains(p) {
			return stack[i], true
		}
	}
	return Window{}, false
}
