package jobs

import "sync"

// queue is an unbounded FIFO handed between exactly one producer side and
// one worker. Put never blocks; Get blocks until an item arrives or the
// queue is closed and drained.
type queue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	closed bool
}

func newQueue[T any]() *queue[T] {
	q := &queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Put appends an item and returns the resulting queue depth. A closed
// queue accepts nothing; the false return tells the caller the item was
// dropped so it can settle its own accounting.
func (q *queue[T]) Put(item T) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return 0, false
	}
	q.items = append(q.items, item)
	q.cond.Signal()
	return len(q.items), true
}

// Get removes the oldest item, blocking while the queue is open and
// empty. The second return is false once the queue is closed and fully
// drained.
func (q *queue[T]) Get() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Len reports the current depth.
func (q *queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops intake and wakes the worker so it can drain and exit.
func (q *queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}
