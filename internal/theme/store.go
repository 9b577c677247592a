package theme

import (
	"errors"
	"fmt"
	"sync"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/navi/internal/bus"
	"github.com/Gaurav-Gosain/navi/internal/kv"
)

// StorageKey is the key the palette is persisted under.
const StorageKey = "navi-theme"

// Listener is called with the new palette after every change.
type Listener func(Theme)

type subscription struct {
	id int
	fn Listener
}

// Store owns the active palette.
type Store struct {
	mu        sync.Mutex
	kv        kv.Store
	bus       *bus.Bus
	current   Theme
	listeners []subscription
	nextID    int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithBus also publishes every change on b under bus.ThemeChanged.
func WithBus(b *bus.Bus) StoreOption {
	return func(s *Store) {
		s.bus = b
	}
}

// Open loads the persisted palette from store. A missing or unreadable
// document yields Default.
func Open(store kv.Store, opts ...StoreOption) *Store {
	s := &Store{kv: store}
	for _, opt := range opts {
		opt(s)
	}
	s.current = load(store)
	return s
}

// load decodes the stored palette over Default, so a null or partial
// document keeps the stock colors for the fields it lacks. A palette with a
// color the renderer cannot parse is discarded.
func load(store kv.Store) Theme {
	t := Default()
	if err := store.Load(StorageKey, &t); err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Debug("theme: falling back to default", "err", err)
		}
		return Default()
	}
	if !t.Valid() {
		log.Debug("theme: falling back to default", "err", "unparseable color")
		return Default()
	}
	return t
}

// Get returns the active palette.
func (s *Store) Get() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the palette wholesale, persists it and notifies every
// listener in subscription order before returning. The new palette is active
// even when persisting fails.
func (s *Store) Set(t Theme) error {
	s.mu.Lock()
	s.current = t
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	err := s.kv.Save(StorageKey, t)
	if err != nil {
		err = fmt.Errorf("theme: persist: %w", err)
	}

	for _, l := range listeners {
		l.fn(t)
	}
	if s.bus != nil {
		s.bus.Publish(bus.ThemeChanged, t)
	}
	return err
}

// Reset restores Default.
func (s *Store) Reset() error {
	return s.Set(Default())
}

// Reload re-reads the persisted palette, for changes made by another
// process. Listeners are notified only when the palette actually changed.
func (s *Store) Reload() bool {
	t := load(s.kv)

	s.mu.Lock()
	if t == s.current {
		s.mu.Unlock()
		return false
	}
	s.current = t
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(t)
	}
	if s.bus != nil {
		s.bus.Publish(bus.ThemeChanged, t)
	}
	return true
}

// Subscribe registers fn and returns an id for Unsubscribe.
func (s *Store) Subscribe(fn Listener) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: s.nextID, fn: fn})
	return s.nextID
}

// Unsubscribe removes a listener. Unknown ids are ignored.
func (s *Store) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}
