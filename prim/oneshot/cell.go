package oneshot

import (
	"sync/atomic"

	"github.com/gostdlib/primitives/prim/internal/drop"
)

// Dropper is implemented by payloads that must be destroyed if they are sent but
// never received.
type Dropper = drop.Dropper

// Cell is the storage for one message plus its ready flag. The zero value is
// ready to be split. A Cell must not be copied after first use.
//
// States go Empty -> Sent -> Consumed. Split() and Drop() need exclusive access to
// the Cell, the same as you would need to reassign it.
type Cell[T any] struct {
	_ noCopy

	msg   T
	ready atomic.Bool
	// closed is set when the Sender gives up without sending.
	closed atomic.Bool
	// gen changes on every Split() and Drop() so handles from before can be caught.
	gen  atomic.Uint64
	drop drop.Func[T]
}

// NewCell returns a Cell configured with options. An invalid option panics.
func NewCell[T any](options ...Option) *Cell[T] {
	opts := applyOptions[T](options)
	return &Cell[T]{drop: opts.drop}
}

// Split resets the Cell and returns the Sender and Receiver for it. A message from
// an earlier split that was never received is destroyed, and that split's handles
// panic with ErrStale from now on.
func (c *Cell[T]) Split() (*Sender[T], *Receiver[T]) {
	gen := c.resplit()

	s := &Sender[T]{c: c}
	s.gen = gen
	r := &Receiver[T]{c: c}
	r.gen = gen
	return s, r
}

// Drop destroys the Cell's content. A message that was sent but not received is
// destroyed exactly once. Outstanding handles panic with ErrStale afterwards.
func (c *Cell[T]) Drop() {
	c.reset()
	c.gen.Add(1)
}

func (c *Cell[T]) resplit() uint64 {
	c.reset()
	c.closed.Store(false)
	return c.gen.Add(1)
}

// send writes the message and then publishes it with a release store.
func (c *Cell[T]) send(v T) {
	c.msg = v
	c.ready.Store(true)
}

// take claims the message if it was published. The swap is the acquire half of
// send() and also clears the flag so the message can't be read twice.
func (c *Cell[T]) take() (T, bool) {
	var zero T
	if !c.ready.Swap(false) {
		return zero, false
	}
	v := c.msg
	c.msg = zero
	return v, true
}

func (c *Cell[T]) receive() T {
	v, ok := c.take()
	if !ok {
		panic(ErrNoMessage)
	}
	return v
}

// reset destroys a message that was sent and never received.
func (c *Cell[T]) reset() {
	if v, ok := c.take(); ok {
		drop.Run(v, c.drop)
	}
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
