/*
Package spinlock provides locks that busy-wait on a single atomic flag instead of
parking the waiting goroutine. They are for very short critical sections where the
cost of descheduling is larger than the cost of spinning.

There are three flavors:

  - Flag is the bare lock. It protects nothing by itself and implements sync.Locker.
  - Unguarded protects a value and hands out a pointer to it on Lock(). The caller
    must not use that pointer after Unlock().
  - Guarded protects a value that can only be reached through a Guard. The Guard is
    the only way to read or write the value and Unlock() on the Guard is the only way
    to give up the lock.

Example using a Guard:

	names := spinlock.New([]string{})

	g := names.Lock()
	*g.Value() = append(*g.Value(), "john")
	g.Unlock()

Or letting With() handle the release:

	names.With(func(v *[]string) {
		*v = append(*v, "john")
	})

None of these locks are fair. Under contention any waiter may win the next
acquisition.
*/
package spinlock

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

var (
	// ErrNotLocked is the panic value when unlocking a lock that is not held.
	ErrNotLocked = errors.New("spinlock: unlock of unlocked lock")
	// ErrReleased is the panic value when a Guard is used after Unlock().
	ErrReleased = errors.New("spinlock: Guard used after Unlock")
)

var _ sync.Locker = &Flag{}

// Flag is a minimal spin-lock. The zero value is unlocked. A Flag must not be copied
// after first use.
type Flag struct {
	_      noCopy
	locked atomic.Bool
}

// Lock acquires the lock, spinning until it is available. The swap has acquire
// semantics, so everything written by the previous holder before Unlock() is
// visible once Lock() returns.
func (f *Flag) Lock() {
	for f.locked.Swap(true) {
		runtime.Gosched()
	}
}

// TryLock makes a single attempt to acquire the lock and reports if it succeeded.
func (f *Flag) TryLock() bool {
	return !f.locked.Swap(true)
}

// Unlock releases the lock. It panics with ErrNotLocked if the lock is not held.
func (f *Flag) Unlock() {
	if !f.locked.Swap(false) {
		panic(ErrNotLocked)
	}
}

// Unguarded is a spin-lock that protects a value of type T and gives the holder a
// pointer to it. Nothing stops the holder from keeping that pointer past Unlock(),
// use Guarded if you want the lock to police that.
type Unguarded[T any] struct {
	flag  Flag
	value T
}

// NewUnguarded returns an unlocked Unguarded holding v.
func NewUnguarded[T any](v T) *Unguarded[T] {
	return &Unguarded[T]{value: v}
}

// Lock acquires the lock and returns the protected value.
func (u *Unguarded[T]) Lock() *T {
	u.flag.Lock()
	return &u.value
}

// Unlock releases the lock. The pointer returned by Lock() must not be used after this.
func (u *Unguarded[T]) Unlock() {
	u.flag.Unlock()
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
