/*
Package oneshot provides a channel that moves exactly one value from exactly one
Sender to exactly one Receiver.

The value lives in a Cell. Splitting a Cell gives you the two capabilities, a Sender
that may Send() once and a Receiver that may Receive() once. Using either a second
time panics with ErrUsed, it never hands back stale or zero data.

There are three ways to get a Sender/Receiver pair:

  - Cell.Split(): the Cell is owned by the caller and must outlive both handles. No
    allocation beyond the handles. Receive() does not wait: calling it before the
    message is ready panics with ErrNoMessage. Poll with IsReady() or use Await().
  - Cell.SplitBlocking(): like Split(), but Receive() parks the receiving goroutine
    until the Sender wakes it. The Sender is bound to that one Receiver.
  - New(): the Cell is allocated and shared through an arc.Arc, so the handles can go
    anywhere. Same Receive() discipline as Split().

Basic example with a shared Cell:

	s, r := oneshot.New[string]()

	go s.Send("hello")

	fmt.Println(r.Await())

If a message is sent but never received, it is destroyed when the Cell is (see Cell.Drop(),
Cell.Split() and the last handle of New()). Destroying means calling the WithDrop()
function or the payload's Drop() method.
*/
package oneshot

import (
	"errors"
	"sync/atomic"

	"code.hybscloud.com/iox"
	"github.com/gostdlib/primitives/prim/arc"
	"github.com/johnsiilver/calloptions"
)

var (
	// ErrNoMessage is the panic value when receiving before a message was sent.
	ErrNoMessage = errors.New("oneshot: no message available")
	// ErrUsed is the panic value when a Sender or Receiver is used a second time.
	ErrUsed = errors.New("oneshot: handle already used")
	// ErrStale is the panic value when a handle from an earlier Split() of a Cell is used.
	ErrStale = errors.New("oneshot: handle belongs to an earlier split of its Cell")
)

// handle is the single-use part shared by all senders and receivers.
type handle struct {
	gen  uint64
	used atomic.Bool
}

// take consumes the handle.
func (h *handle) take(cellGen uint64) {
	if h.used.Swap(true) {
		panic(ErrUsed)
	}
	if cellGen != h.gen {
		panic(ErrStale)
	}
}

// check panics if the handle can no longer be used, without consuming it.
func (h *handle) check(cellGen uint64) {
	if h.used.Load() {
		panic(ErrUsed)
	}
	if cellGen != h.gen {
		panic(ErrStale)
	}
}

// Sender is the capability to send the one message. It is returned by Cell.Split() and New().
type Sender[T any] struct {
	handle
	c *Cell[T]
	// owner is set when the Cell is shared through New().
	owner *arc.Arc[*Cell[T]]
}

// Send stores v and makes it visible to the Receiver. It panics with ErrUsed if
// the Sender was already used.
func (s *Sender[T]) Send(v T) {
	s.take(s.c.gen.Load())
	defer s.release()

	s.c.send(v)
}

// Close gives up the right to send without sending. A Receiver waiting in Await()
// panics with ErrNoMessage instead of waiting forever.
func (s *Sender[T]) Close() {
	s.take(s.c.gen.Load())
	defer s.release()

	s.c.closed.Store(true)
}

func (s *Sender[T]) release() {
	if s.owner != nil {
		s.owner.Release()
	}
}

// Receiver is the capability to receive the one message. It is returned by Cell.Split() and New().
type Receiver[T any] struct {
	handle
	c     *Cell[T]
	owner *arc.Arc[*Cell[T]]
}

// IsReady reports if the message has been sent. It is a relaxed peek: a true
// result means Receive() will succeed, nothing more.
func (r *Receiver[T]) IsReady() bool {
	r.check(r.c.gen.Load())
	return r.c.ready.Load()
}

// Receive returns the message. It does not wait: if the message is not ready it
// panics with ErrNoMessage. Either way the Receiver is used up.
func (r *Receiver[T]) Receive() T {
	r.take(r.c.gen.Load())
	defer r.release()

	return r.c.receive()
}

// Await spins with an adaptive backoff until the message is ready and then receives
// it. If the Sender is closed without sending, it panics with ErrNoMessage.
func (r *Receiver[T]) Await() T {
	r.check(r.c.gen.Load())

	var bo iox.Backoff
	for !r.c.ready.Load() && !r.c.closed.Load() {
		bo.Wait()
	}
	return r.Receive()
}

// Close gives up the right to receive. A message that was sent is destroyed once
// the Cell is.
func (r *Receiver[T]) Close() {
	r.take(r.c.gen.Load())
	r.release()
}

func (r *Receiver[T]) release() {
	if r.owner != nil {
		r.owner.Release()
	}
}

// New allocates a Cell shared by the returned Sender and Receiver. The Cell is
// destroyed after both have been used or closed. An invalid option panics.
func New[T any](options ...Option) (*Sender[T], *Receiver[T]) {
	c := NewCell[T](options...)

	owner := arc.New(c, arc.WithDrop(func(c *Cell[T]) { c.reset() }))
	gen := c.gen.Add(1)

	s := &Sender[T]{c: c, owner: owner}
	s.gen = gen
	r := &Receiver[T]{c: c, owner: owner.Clone()}
	r.gen = gen
	return s, r
}

func applyOptions[T any](options []Option) cellOptions[T] {
	opts := cellOptions[T]{}
	if err := calloptions.ApplyOptions(&opts, options); err != nil {
		panic(err)
	}
	return opts
}
