/*
Package chans provides Queue, an unbounded FIFO channel built from a mutex, a
condition and a double-ended queue. Unlike a Go channel it never blocks a sender
and has no capacity to pick.

Any number of goroutines may Send() and Receive() at the same time:

	q := chans.New[int]()

	go func() {
		for i := 0; i < 10; i++ {
			q.Send(i)
		}
	}()

	for i := 0; i < 10; i++ {
		fmt.Println(q.Receive())
	}

Items are never lost or duplicated. Concurrent sends are ordered by the order they
take the mutex. There is no Close(): a Receive() with nothing coming waits forever.
Items still queued when the Queue is dropped are dropped with it, use Drain() if they
need to be released.
*/
package chans

import (
	"sync"
	"sync/atomic"

	"github.com/gammazero/deque"
)

// Queue is an unbounded multi-producer, multi-consumer FIFO. Create it with New().
type Queue[T any] struct {
	mu    sync.Mutex
	ready *sync.Cond
	items deque.Deque[T]

	stats stats
}

// New creates an empty Queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.ready = sync.NewCond(&q.mu)
	return q
}

// Send appends v to the tail of the queue and wakes one waiting receiver.
func (q *Queue[T]) Send(v T) {
	q.mu.Lock()
	q.items.PushBack(v)
	q.stats.sent.Add(1)
	q.mu.Unlock()

	q.ready.Signal()
}

// Receive removes and returns the item at the head of the queue, waiting until
// there is one. A wake up always rechecks the queue, another receiver may have
// taken the item first.
func (q *Queue[T]) Receive() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Len() == 0 {
		q.stats.waiting.Add(1)
		q.ready.Wait()
		q.stats.waiting.Add(-1)
	}
	q.stats.received.Add(1)
	return q.items.PopFront()
}

// TryReceive is like Receive() but returns false instead of waiting when the
// queue is empty.
func (q *Queue[T]) TryReceive() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Len() == 0 {
		var zero T
		return zero, false
	}
	q.stats.received.Add(1)
	return q.items.PopFront(), true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.items.Len()
}

// Drain removes every queued item and returns them in FIFO order. Waiting
// receivers keep waiting.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]T, 0, q.items.Len())
	for q.items.Len() > 0 {
		out = append(out, q.items.PopFront())
	}
	q.stats.drained.Add(int64(len(out)))
	return out
}

// Stats returns counters for the Queue.
func (q *Queue[T]) Stats() Stats {
	return q.stats.toStats()
}

// stats is used to atomically count Queue traffic.
type stats struct {
	sent     atomic.Int64
	received atomic.Int64
	drained  atomic.Int64
	waiting  atomic.Int64
}

func (s *stats) toStats() Stats {
	return Stats{
		Sent:     s.sent.Load(),
		Received: s.received.Load(),
		Drained:  s.drained.Load(),
		Waiting:  s.waiting.Load(),
	}
}
