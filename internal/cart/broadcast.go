package cart

import "sync"

// Event describes one cart mutation. Independent views (header badge,
// event stream) subscribe so they can reload without a full page refresh.
type Event struct {
	Op  string `json:"op"` // "add", "remove" or "clear"
	Key string `json:"key,omitempty"`
}

// Broadcaster is a small in-process fan-out of cart events. Slow
// subscribers drop events instead of blocking mutations.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: map[int]chan Event{}}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the subscriber goes away.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, 8)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (b *Broadcaster) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
