package datasource

import "sync"

// serialQueue executes submitted callbacks on a single goroutine in strict
// submission order. Each Core owns one queue, so distinct bound lists never
// serialize against each other.
type serialQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

func newSerialQueue() *serialQueue {
	q := &serialQueue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Async enqueues fn and returns immediately. Enqueued work always runs to
// completion; there is no cancellation. Work submitted after Close is
// dropped.
func (q *serialQueue) Async(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.queue = append(q.queue, fn)
	q.cond.Signal()
	q.mu.Unlock()
}

// Sync enqueues fn and blocks until it has run, or returns immediately if
// the queue is closed. It must not be called from the queue's own goroutine.
func (q *serialQueue) Sync(fn func()) {
	done := make(chan struct{})
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.queue = append(q.queue, func() {
		defer close(done)
		fn()
	})
	q.cond.Signal()
	q.mu.Unlock()
	<-done
}

// Close stops accepting work, drains what was already enqueued, and blocks
// until the queue goroutine has exited.
func (q *serialQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.cond.Signal()
	q.mu.Unlock()
	<-q.done
}

func (q *serialQueue) run() {
	for {
		q.mu.Lock()
		for len(q.queue) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.queue) == 0 {
			q.mu.Unlock()
			close(q.done)
			return
		}
		fn := q.queue[0]
		q.queue = q.queue[1:]
		q.mu.Unlock()
		fn()
	}
}
