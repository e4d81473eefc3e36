/*
Package arc provides Arc, an atomically reference counted container. Any number of
handles share one payload and the payload is destroyed by whichever handle is
released last.

Go is garbage collected, so memory is never the issue here. What Arc gives you is a
deterministic point where the payload's resources are let go of: the moment the last
owner calls Release(). That is either the function passed with WithDrop() or, if the
payload implements Dropper, its Drop() method.

	conn := arc.New(openConn(), arc.WithDrop(func(c *Conn) { c.Close() }))

	c2 := conn.Clone()
	go func() {
		defer c2.Release()
		use(*c2.Get())
	}()

	use(*conn.Get())
	conn.Release() // The connection is closed after both handles are released.

Get() grants read access only. Mutating the payload needs its own synchronization,
for example a spinlock.Guarded inside of it.
*/
package arc

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"sync/atomic"

	"github.com/gostdlib/primitives/prim/internal/drop"
	"github.com/johnsiilver/calloptions"
)

// MaxCount is the largest count a Clone() will accept. Going past it is treated as a
// runaway clone loop and kills the process before the counter could wrap around.
const MaxCount = math.MaxInt64 / 2

// Dropper is implemented by payloads that want to be told when the last handle is released.
type Dropper = drop.Dropper

var (
	// ErrReleased is the panic value when a handle is used after Release().
	ErrReleased = errors.New("arc: use of released handle")
	// ErrNegative is the panic value when more releases than handles are detected.
	ErrNegative = errors.New("arc: reference count below zero")
)

// fatal ends the process. It is a variable so tests can observe it.
var fatal = func(msg string) {
	fmt.Fprintf(os.Stderr, "fatal error: %s\n\n%s", msg, debug.Stack())
	os.Exit(2)
}

type block[T any] struct {
	count atomic.Int64
	value T
	drop  drop.Func[T]
}

// Arc is one handle to a shared payload. Handles are created by New() and Clone()
// and each must be released exactly once. A handle itself should not be shared
// between goroutines, Clone() it instead.
type Arc[T any] struct {
	b        *block[T]
	released atomic.Bool
}

// New creates the payload block with a count of 1 and returns its first handle.
// An invalid option panics.
func New[T any](v T, options ...Option) *Arc[T] {
	opts := arcOptions{}
	if err := calloptions.ApplyOptions(&opts, options); err != nil {
		panic(err)
	}

	b := &block[T]{value: v}
	if opts.drop != nil {
		fn, ok := opts.drop.(func(T))
		if !ok {
			panic(fmt.Sprintf("arc: WithDrop() func type %T does not match payload type %T", opts.drop, v))
		}
		b.drop = fn
	}
	b.count.Store(1)

	return &Arc[T]{b: b}
}

// Clone returns a new handle to the same payload. The increment needs no ordering
// with anything else, the count is the only shared fact.
func (a *Arc[T]) Clone() *Arc[T] {
	if a.released.Load() {
		panic(ErrReleased)
	}
	if a.b.count.Add(1)-1 > MaxCount {
		fatal("arc: reference count overflow")
	}
	return &Arc[T]{b: a.b}
}

// Get returns the payload. The pointer is valid for as long as the handle is.
func (a *Arc[T]) Get() *T {
	if a.released.Load() {
		panic(ErrReleased)
	}
	return &a.b.value
}

// Count returns the number of live handles. It is a snapshot and may be stale by the
// time it is read, so it must not be used to reason about the payload's visibility.
func (a *Arc[T]) Count() int64 {
	return a.b.count.Load()
}

// Release gives up this handle. If it was the last one, the payload is destroyed
// before Release returns. The decrement is a release operation and the final one is
// also an acquire, so every other handle's use of the payload happens before the
// destruction.
func (a *Arc[T]) Release() {
	if a.released.Swap(true) {
		panic(ErrReleased)
	}

	n := a.b.count.Add(-1)
	switch {
	case n < 0:
		panic(ErrNegative)
	case n > 0:
		return
	}

	v := a.b.value
	var zero T
	a.b.value = zero
	drop.Run(v, a.b.drop)
}
