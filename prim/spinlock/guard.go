package spinlock

import "sync/atomic"

// Guarded is a spin-lock protecting a value of type T. The value has no accessor
// on Guarded itself; it is reached through the Guard returned by Lock().
type Guarded[T any] struct {
	flag  Flag
	value T
}

// New returns an unlocked Guarded holding v.
func New[T any](v T) *Guarded[T] {
	return &Guarded[T]{value: v}
}

// Lock spins until the lock is acquired and returns the Guard that grants access
// to the value. Exactly one live Guard exists per Guarded at a time.
func (l *Guarded[T]) Lock() *Guard[T] {
	l.flag.Lock()
	g := &Guard[T]{}
	g.lock.Store(l)
	return g
}

// TryLock is like Lock() but does not spin. If the lock is held, it returns
// nil and false.
func (l *Guarded[T]) TryLock() (*Guard[T], bool) {
	if !l.flag.TryLock() {
		return nil, false
	}
	g := &Guard[T]{}
	g.lock.Store(l)
	return g, true
}

// With runs f while holding the lock. The lock is released when f returns, even
// if f panics. f must not keep v after it returns.
func (l *Guarded[T]) With(f func(v *T)) {
	g := l.Lock()
	defer g.Unlock()

	f(g.Value())
}

// Guard is an active exclusive-access grant on a Guarded. Every method panics with
// ErrReleased once Unlock() has been called.
type Guard[T any] struct {
	lock atomic.Pointer[Guarded[T]]
}

func (g *Guard[T]) held() *Guarded[T] {
	l := g.lock.Load()
	if l == nil {
		panic(ErrReleased)
	}
	return l
}

// Value returns a pointer to the protected value. It is only valid until Unlock().
func (g *Guard[T]) Value() *T {
	return &g.held().value
}

// Load returns a copy of the protected value.
func (g *Guard[T]) Load() T {
	return g.held().value
}

// Store replaces the protected value.
func (g *Guard[T]) Store(v T) {
	g.held().value = v
}

// Unlock releases the lock. The Guard is dead afterwards.
func (g *Guard[T]) Unlock() {
	l := g.lock.Swap(nil)
	if l == nil {
		panic(ErrReleased)
	}
	l.flag.Unlock()
}
