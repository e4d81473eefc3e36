/*
Package prim is the root of a set of low-level synchronization primitives. The
primitives themselves live in sub-packages and can be used directly:

  - spinlock: a busy-waiting lock over an atomic flag, in a bare form and a guarded
    form where the protected value is only reachable through a Guard.
  - arc: an atomically reference counted container whose payload is destroyed by
    whichever handle is released last.
  - oneshot: a single value handoff between exactly one Sender and one Receiver,
    with borrowed, blocking and shared-ownership variants.
  - chans: an unbounded FIFO built on a mutex and a condition that any number of
    goroutines can send to and receive from.

Higher level constructs, like the executor in goroutines/pooled, are built from
these.

A note on memory ordering: the Go memory model makes every sync/atomic operation
sequentially consistent. Each place where a primitive needs an acquire/release pair
(lock and unlock, the one-shot ready flag, the final reference count decrement)
is therefore at least as strong as required.
*/
package prim
