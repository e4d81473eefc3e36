package pool

import (
	"sync/atomic"
)

// SubmitOptions is used internally. Please ignore.
type SubmitOptions struct {
	// Caller is a name of the supposed calling function so that metrics can differentiate
	// who is using the goroutines in the pool.
	Caller string
	// NonBlocking indicates that if no pooled goroutine is idle, the job runs on a
	// goroutine of its own instead of waiting in the queue.
	NonBlocking bool
}

// Metrics contains stats about a goroutine pool.
type Metrics struct {
	// Submitted is the number of jobs accepted by Submit().
	Submitted atomic.Int64
	// Completed is the number of jobs that finished.
	Completed atomic.Int64
	// Queued is the number of jobs that had to wait for a busy worker.
	Queued atomic.Int64
	// Overflow is the number of NonBlocking jobs that ran outside the pool's goroutines.
	Overflow atomic.Int64
}

// Preventer is an interface that prevents implementations of our pools from outside packages.
type Preventer interface {
	pool()
}

// Pool implements Preventer.
type Pool struct{}

//lint:ignore U1000 This is for internal use only.
func (p *Pool) pool() {}
