package oneshot

// SplitBlocking resets the Cell like Split() and returns a pair where Receive()
// parks the receiving goroutine instead of failing. The BlockingSender holds a wake
// handle for that one BlockingReceiver and wakes only it.
func (c *Cell[T]) SplitBlocking() (*BlockingSender[T], *BlockingReceiver[T]) {
	gen := c.resplit()

	// Capacity 1 makes the wake sticky: a wake that happens before the receiver
	// parks is not lost.
	park := make(chan struct{}, 1)

	s := &BlockingSender[T]{c: c, wake: park}
	s.gen = gen
	r := &BlockingReceiver[T]{c: c, park: park}
	r.gen = gen
	return s, r
}

// BlockingSender is the Sender half of Cell.SplitBlocking().
type BlockingSender[T any] struct {
	handle
	c    *Cell[T]
	wake chan<- struct{}
}

// Send stores v, publishes it and wakes the receiver. It panics with ErrUsed if
// the BlockingSender was already used.
func (s *BlockingSender[T]) Send(v T) {
	s.take(s.c.gen.Load())

	s.c.send(v)
	s.unpark()
}

// Close gives up the right to send. A parked receiver is woken and panics with
// ErrNoMessage.
func (s *BlockingSender[T]) Close() {
	s.take(s.c.gen.Load())

	s.c.closed.Store(true)
	s.unpark()
}

func (s *BlockingSender[T]) unpark() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// BlockingReceiver is the Receiver half of Cell.SplitBlocking(). It should be used
// by the goroutine that called SplitBlocking().
type BlockingReceiver[T any] struct {
	handle
	c    *Cell[T]
	park <-chan struct{}
}

// IsReady reports if the message has been sent, without consuming it.
func (r *BlockingReceiver[T]) IsReady() bool {
	r.check(r.c.gen.Load())
	return r.c.ready.Load()
}

// Receive parks until the message is sent and returns it. It waits forever if the
// BlockingSender never sends or closes.
func (r *BlockingReceiver[T]) Receive() T {
	r.take(r.c.gen.Load())

	for {
		if v, ok := r.c.take(); ok {
			return v
		}
		if r.c.closed.Load() {
			panic(ErrNoMessage)
		}
		<-r.park
	}
}
