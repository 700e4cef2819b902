package tuikit

import (
	"sync"
	"time"
)

// EventQueue is an unbounded FIFO of events. Push may be called from any
// goroutine; a blocked Pop is woken by the next Push.
type EventQueue struct {
	mu     sync.Mutex
	items  []Event
	notify chan struct{}
	done   chan struct{}
	closed bool
}

// NewEventQueue returns an empty queue
func NewEventQueue() *EventQueue {
	return &EventQueue{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Push appends ev to the queue. It reports false if the queue is closed
func (q *EventQueue) Push(ev Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, ev)
	q.signal()
	return true
}

// signal wakes one waiter. q.mu must be held
func (q *EventQueue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *EventQueue) tryPop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var item Event
	switch len(q.items) {
	case 0:
		return item, false
	case 1:
		item = q.items[0]
		q.items = q.items[:0]
	default:
		item = q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		// Pass the wakeup on to the next waiter
		q.signal()
	}
	return item, true
}

// Pop removes the oldest event. It waits up to timeout for an event to
// arrive; a timeout of zero or less never blocks. It reports false on
// timeout, and once the queue is closed and drained.
func (q *EventQueue) Pop(timeout time.Duration) (Event, bool) {
	if ev, ok := q.tryPop(); ok || timeout <= 0 {
		return ev, ok
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-q.notify:
			if ev, ok := q.tryPop(); ok {
				return ev, true
			}
		case <-q.done:
			return q.tryPop()
		case <-timer.C:
			return q.tryPop()
		}
	}
}

// Len returns the number of queued events
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close rejects further pushes and wakes every waiter. Events already queued
// can still be popped
func (q *EventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}
