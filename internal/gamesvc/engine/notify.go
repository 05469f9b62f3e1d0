package engine

import (
	"context"
	"sync"
	"time"
)

// notifier fans snapshots out to subscribers. A subscriber that is not keeping
// up misses snapshots instead of stalling the round.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Snapshot
	closed bool
}

func (n *notifier) subscribe(buffer int) (<-chan Snapshot, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)
	if n.closed {
		close(ch)
		return ch, func() {}
	}
	if n.subs == nil {
		n.subs = make(map[int]chan Snapshot)
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if c, ok := n.subs[id]; ok {
				delete(n.subs, id)
				close(c)
			}
		})
	}
}

func (n *notifier) publish(s Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- s:
		default:
		}
	}
}

func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}

// runTicker calls step with the wall time elapsed since the previous call until
// ctx ends. The ticker is stopped before it returns.
func runTicker(ctx context.Context, interval time.Duration, step func(time.Duration) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			dt := t.Sub(last)
			last = t
			if err := step(dt); err != nil {
				return err
			}
		}
	}
}
