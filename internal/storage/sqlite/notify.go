package sqlite

import "sync"

// TaskChange is one row-level change event on the tasks table. It carries
// no payload beyond the row identity; consumers reload instead of merging.
type TaskChange struct {
	TaskID int64
}

// notifier fans task-table change events out to subscribers. Sends never
// block: a subscriber whose buffer is full simply misses an event, which
// is harmless because every consumer performs a full reload per event.
type notifier struct {
	mu     sync.Mutex
	subs   map[int]chan TaskChange
	nextID int
	closed bool
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]chan TaskChange)}
}

// Subscribe returns a channel of task change events and a cancel func that
// must be called when the consumer is done.
func (s *Store) Subscribe() (<-chan TaskChange, func()) {
	return s.notifier.subscribe()
}

func (n *notifier) subscribe() (<-chan TaskChange, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan TaskChange, 16)
	if n.closed {
		close(ch)
		return ch, func() {}
	}

	id := n.nextID
	n.nextID++
	n.subs[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (n *notifier) publish(ev TaskChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	for _, ch := range n.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}
