package keys

import (
	"context"
	"sync"
)

// Sink accepts translated key events.
type Sink interface {
	PutKey(c Code)
}

// FIFO is an unbounded first-in first-out key queue. Producers never block;
// consumers may drain from another goroutine. The zero value is usable but
// must not be copied.
type FIFO struct {
	mu    sync.Mutex
	ready chan struct{} // buffered with length 1; signalled when keys is non-empty
	keys  []Code
}

var _ Sink = (*FIFO)(nil)

func (q *FIFO) lockAndInit() {
	q.mu.Lock()
	if q.ready == nil {
		q.ready = make(chan struct{}, 1)
	}
}

// PutKey appends a key to the queue.
func (q *FIFO) PutKey(c Code) {
	q.lockAndInit()
	defer q.mu.Unlock()

	q.keys = append(q.keys, c)
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// TryNext removes the oldest key without blocking.
func (q *FIFO) TryNext() (Code, bool) {
	q.lockAndInit()
	defer q.mu.Unlock()
	return q.popLocked()
}

// Next blocks until a key is available or ctx is done.
func (q *FIFO) Next(ctx context.Context) (Code, error) {
	for {
		q.lockAndInit()
		c, ok := q.popLocked()
		ready := q.ready
		q.mu.Unlock()
		if ok {
			return c, nil
		}

		select {
		case <-ready:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// Drain removes and returns every queued key in order.
func (q *FIFO) Drain() []Code {
	q.lockAndInit()
	defer q.mu.Unlock()

	out := q.keys
	q.keys = nil
	return out
}

// Len returns the number of queued keys.
func (q *FIFO) Len() int {
	q.lockAndInit()
	defer q.mu.Unlock()
	return len(q.keys)
}

func (q *FIFO) popLocked() (Code, bool) {
	if len(q.keys) == 0 {
		return 0, false
	}
	c := q.keys[0]
	q.keys[0] = 0
	q.keys = q.keys[1:]
	if len(q.keys) > 0 {
		select {
		case q.ready <- struct{}{}:
		default:
		}
	}
	return c, true
}
