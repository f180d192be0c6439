package batch

import (
	"sync"

	"github.com/jamesainslie/scrub/pkg/scrub/types"
)

// Queue is an unbounded FIFO for progress events. One producer, one
// consumer; Push never blocks and no event is ever dropped. The consumer
// polls with Drain on its own timer.
type Queue struct {
	mu     sync.Mutex
	events []types.Event
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an event.
func (q *Queue) Push(ev types.Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// Drain removes and returns all pending events in arrival order.
// Returns nil when the queue is empty.
func (q *Queue) Drain() []types.Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

// Len reports the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
