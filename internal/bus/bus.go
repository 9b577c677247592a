// Package bus is a small publish/subscribe channel that lets components react
// to each other's changes without holding references to one another.
package bus

import "sync"

// Topic names an event stream.
type Topic string

const (
	// TrailChanged carries an effects.TrailConfig.
	TrailChanged Topic = "trail.changed"
	// ThemeChanged carries a theme.Theme.
	ThemeChanged Topic = "theme.changed"
	// Glitch carries a float64 intensity.
	Glitch Topic = "glitch"
)

type subscriber struct {
	id int
	fn func(any)
}

// Bus delivers published payloads to the subscribers of a topic.
type Bus struct {
	mu     sync.Mutex
	subs   map[Topic][]subscriber
	nextID int
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Topic][]subscriber)}
}

// Subscribe registers fn for topic and returns a function that removes it.
func (b *Bus) Subscribe(topic Topic, fn func(any)) (cancel func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			list := b.subs[topic]
			for i, s := range list {
				if s.id == id {
					b.subs[topic] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish calls every subscriber of topic, in subscription order, on the
// caller's goroutine. Subscribers added during delivery miss this payload.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.Lock()
	list := make([]subscriber, len(b.subs[topic]))
	copy(list, b.subs[topic])
	b.mu.Unlock()

	for _, s := range list {
		s.fn(payload)
	}
}

// Subscribers returns how many subscribers a topic has.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}
