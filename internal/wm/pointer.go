package wm

import "slices"

// SessionKind tells a move session from a resize session.
type SessionKind int

const (
	// SessionDrag moves the window with the pointer.
	SessionDrag SessionKind = iota
	// SessionResize grows or shrinks the window from its bottom-right corner.
	SessionResize
)

func (k SessionKind) String() string {
	if k == SessionResize {
		return "resize"
	}
	return "drag"
}

type listenerKind int

const (
	motionListener listenerKind = iota
	releaseListener
)

type listener struct {
	id   int
	kind listenerKind
	fn   func(Point)
}

// PointerRouter fans pointer motion and release out to the listeners attached
// by active drag and resize sessions.
type PointerRouter struct {
	mgr       *Manager
	listeners []listener
	nextID    int
	sessions  map[string]*DragSession
}

func newPointerRouter(m *Manager) *PointerRouter {
	return &PointerRouter{
		mgr:      m,
		sessions: make(map[string]*DragSession),
	}
}

func (r *PointerRouter) attach(kind listenerKind, fn func(Point)) int {
	r.nextID++
	r.listeners = append(r.listeners, listener{id: r.nextID, kind: kind, fn: fn})
	return r.nextID
}

func (r *PointerRouter) detach(id int) {
	r.listeners = slices.DeleteFunc(r.listeners, func(l listener) bool {
		return l.id == id
	})
}

func (r *PointerRouter) dispatch(kind listenerKind, p Point) {
	// Listeners may detach themselves while being called.
	snapshot := slices.Clone(r.listeners)
	for _, l := range snapshot {
		if l.kind == kind {
			l.fn(p)
		}
	}
}

// Motion delivers a pointer move to the attached motion listeners.
func (r *PointerRouter) Motion(p Point) {
	r.dispatch(motionListener, p)
}

// Release delivers a pointer release, which ends every active session.
func (r *PointerRouter) Release(p Point) {
	r.dispatch(releaseListener, p)
}

// Listeners returns how many listeners are currently attached.
func (r *PointerRouter) Listeners() int {
	return len(r.listeners)
}

// Active reports whether any drag or resize session is in progress.
func (r *PointerRouter) Active() bool {
	return len(r.sessions) > 0
}

// Session returns the session owned by the window, if any.
func (r *PointerRouter) Session(windowID string) (*DragSession, bool) {
	s, ok := r.sessions[windowID]
	return s, ok
}

// endFor ends the session owned by a window that is going away.
func (r *PointerRouter) endFor(windowID string) {
	if s, ok := r.sessions[windowID]; ok {
		s.End()
	}
}

// BeginDrag starts moving the window from the pointer position at.
// It returns false when the window is unknown or already has a session.
func (m *Manager) BeginDrag(id string, at Point) (*DragSession, bool) {
	return m.pointer.begin(id, at, SessionDrag)
}

// BeginResize starts resizing the window from the pointer position at.
func (m *Manager) BeginResize(id string, at Point) (*DragSession, bool) {
	return m.pointer.begin(id, at, SessionResize)
}

func (r *PointerRouter) begin(id string, at Point, kind SessionKind) (*DragSession, bool) {
	w, ok := r.mgr.Get(id)
	if !ok {
		return nil, false
	}
	if _, busy := r.sessions[id]; busy {
		return nil, false
	}

	r.mgr.Focus(id)

	s := &DragSession{
		router:       r,
		windowID:     id,
		kind:         kind,
		pointerStart: at,
		windowStart:  w.Position,
		sizeStart:    w.Size,
	}
	s.motionID = r.attach(motionListener, s.motion)
	s.releaseID = r.attach(releaseListener, func(Point) { s.End() })
	r.sessions[id] = s
	return s, true
}

// DragSession is a short-lived pointer interaction on one window. It owns
// exactly one motion and one release listener and detaches both when it ends.
type DragSession struct {
	router       *PointerRouter
	windowID     string
	kind         SessionKind
	pointerStart Point
	windowStart  Point
	sizeStart    Size
	motionID     int
	releaseID    int
	ended        bool
}

// WindowID returns the window the session acts on.
func (s *DragSession) WindowID() string {
	return s.windowID
}

// Kind returns whether this is a drag or a resize.
func (s *DragSession) Kind() SessionKind {
	return s.kind
}

// Ended reports whether the session has been released.
func (s *DragSession) Ended() bool {
	return s.ended
}

func (s *DragSession) motion(p Point) {
	if s.ended {
		return
	}
	delta := p.Sub(s.pointerStart)
	mgr := s.router.mgr
	switch s.kind {
	case SessionDrag:
		mgr.Move(s.windowID, s.windowStart.Add(delta))
	case SessionResize:
		mgr.Resize(s.windowID, Size{
			Width:  s.sizeStart.Width + delta.X,
			Height: s.sizeStart.Height + delta.Y,
		})
	}
}

// End detaches the session's listeners. Calling End more than once is safe.
func (s *DragSession) End() {
	if s.ended {
		return
	}
	s.ended = true
	s.router.detach(s.motionID)
	s.router.detach(s.releaseID)
	delete(s.router.sessions, s.windowID)
}
