/*
Package pooled provides a Pool of goroutines where you can submit Jobs
to be run by an existing goroutine instead of spinning off a new goroutine.

Jobs are handed to the goroutines through a chans.Queue, so Submit() never blocks:
when every goroutine is busy the job waits in the queue. Go() runs a function on the
pool and returns its result through a oneshot.Receiver.

See the examples in the parent package "goroutines" for an overview of using pools.
*/
package pooled

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gostdlib/internals/otel/span"
	"github.com/gostdlib/primitives/goroutines"
	"github.com/gostdlib/primitives/goroutines/internal/pool"
	"github.com/gostdlib/primitives/prim/chans"
	"github.com/gostdlib/primitives/prim/oneshot"
)

var _ goroutines.Pool = &Pool{}

// Pool is a pool of goroutines.
type Pool struct {
	wg        sync.WaitGroup
	running   atomic.Int64
	idle      atomic.Int64
	closed    atomic.Bool
	metrics   pool.Metrics
	pool.Pool // Implements the pool.Preventer interface
	queue     *chans.Queue[submit]
	size      int
	name      string
}

// New creates a new Pool. "name" is the name of the pool which is used in OTEL
// trace events. If name is the empty string, a random name is generated.
// "size" is the number of goroutines that can execute concurrently.
func New(name string, size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("cannot have a Pool with size < 1")
	}
	if name == "" {
		name = uuid.NewString()
	}

	p := &Pool{name: name, size: size, queue: chans.New[submit]()}
	for i := 0; i < size; i++ {
		go p.runner()
	}
	return p, nil
}

// Close waits for all submitted jobs to stop, then stops all goroutines. Submit()
// returns an error after Close() has been called.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return
	}
	p.wg.Wait()
	for i := 0; i < p.size; i++ {
		p.queue.Send(submit{}) // A nil job stops a runner.
	}
}

// Wait will wait for all goroutines in the pool to finish. If you need to only
// wait on a subset of jobs, use a WaitGroup in your job.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Len returns the size of the pool.
func (p *Pool) Len() int {
	return p.size
}

// Running returns the number of running jobs in the pool.
func (p *Pool) Running() int {
	return int(p.running.Load())
}

// GetName gets the name of the goroutines pool.
func (p *Pool) GetName() string {
	return p.name
}

// Metrics are counters for a Pool.
type Metrics struct {
	// Submitted is the number of jobs accepted by Submit().
	Submitted int64
	// Completed is the number of jobs that finished.
	Completed int64
	// Queued is the number of jobs that had to wait for a busy goroutine.
	Queued int64
	// Overflow is the number of NonBlocking() jobs that ran on a goroutine outside the pool.
	Overflow int64
}

// Metrics returns the Pool's counters.
func (p *Pool) Metrics() Metrics {
	return Metrics{
		Submitted: p.metrics.Submitted.Load(),
		Completed: p.metrics.Completed.Load(),
		Queued:    p.metrics.Queued.Load(),
		Overflow:  p.metrics.Overflow.Load(),
	}
}

type submit struct {
	ctx context.Context
	job goroutines.Job
}

// NonBlocking indicates that if a pooled goroutine is not available, spin off
// a goroutine instead of waiting in the queue.
func NonBlocking() goroutines.SubmitOption {
	return func(opt *pool.SubmitOptions) error {
		opt.NonBlocking = true
		return nil
	}
}

// Caller sets the name of the calling function so that metrics can differentiate
// who is using the goroutines in the pool. With the introduction of generics, there is no
// way to get the name of function call reliably, as generic functions are written dynamically and
// runtime.FuncForPC does not work for generics. If this is not set, we will use runtime.FuncForPC().
func Caller(name string) goroutines.SubmitOption {
	return func(opt *pool.SubmitOptions) error {
		if name == "" {
			return fmt.Errorf("pooled.Caller() cannot be passed an empty name")
		}
		opt.Caller = name
		return nil
	}
}

// Submit submits the runner to be executed.
func (p *Pool) Submit(ctx context.Context, runner goroutines.Job, options ...goroutines.SubmitOption) error {
	spanner := span.Get(ctx)

	if runner == nil {
		err := fmt.Errorf("cannot submit a runner that is nil")
		spanner.Error(err)
		return err
	}
	if p.closed.Load() {
		err := fmt.Errorf("cannot submit to Pool(%s) after Close()", p.name)
		spanner.Error(err)
		return err
	}

	opts := pool.SubmitOptions{}
	for _, o := range options {
		if err := o(&opts); err != nil {
			spanner.Error(err)
			return err
		}
	}

	now := time.Now()
	s := submit{ctx: ctx, job: runner}
	fcn := p.callerName(opts)

	p.wg.Add(1)
	p.running.Add(1)
	p.metrics.Submitted.Add(1)

	if p.idle.Load() > 0 {
		p.queue.Send(s)
		p.submitEvent(spanner, fcn, opts.NonBlocking, now)
		return nil
	}

	if opts.NonBlocking {
		p.metrics.Overflow.Add(1)
		go p.run(s)
		p.submitEvent(spanner, fcn, opts.NonBlocking, now)
		return nil
	}

	p.metrics.Queued.Add(1)
	p.queueEvent(spanner, fcn, now)
	p.queue.Send(s)
	p.submitEvent(spanner, fcn, opts.NonBlocking, now)
	return nil
}

// Go runs f on the pool and returns a Receiver that will hold f's result. Use
// Await() on the Receiver to get the result.
func Go[T any](ctx context.Context, p *Pool, f func(ctx context.Context) T, options ...goroutines.SubmitOption) (*oneshot.Receiver[T], error) {
	spanner := span.Get(ctx)

	if f == nil {
		err := fmt.Errorf("cannot Go() a func that is nil")
		spanner.Error(err)
		return nil, err
	}

	s, r := oneshot.New[T]()
	job := func(ctx context.Context) {
		s.Send(f(ctx))
	}

	if err := p.Submit(ctx, job, options...); err != nil {
		s.Close()
		r.Close()
		return nil, err
	}
	return r, nil
}

func (p *Pool) submitEvent(spanner span.Span, fcn string, nonBlock bool, t time.Time) {
	spanner.Event(
		"Pool.Submit() called",
		"pkg", "github.com/gostdlib/primitives/goroutines/pooled",
		"caller", fcn,
		"name", p.name,
		"non_blocking", nonBlock,
		"submit_latency_ns", time.Since(t),
	)
}

func (p *Pool) queueEvent(spanner span.Span, fcn string, t time.Time) {
	spanner.Event(
		"Pool.Submit() queueing....",
		"pkg", "github.com/gostdlib/primitives/goroutines/pooled",
		"caller", fcn,
		"name", p.name,
		"event", "queueing",
		"submit_latency_ns", time.Since(t),
	)
}

// runner is used to run any job that comes in on the queue until it receives
// a nil job.
func (p *Pool) runner() {
	for {
		p.idle.Add(1)
		s := p.queue.Receive()
		p.idle.Add(-1)

		if s.job == nil {
			return
		}
		p.run(s)
	}
}

func (p *Pool) run(s submit) {
	defer p.wg.Done()
	defer p.running.Add(-1)
	defer p.metrics.Completed.Add(1)

	s.job(s.ctx)
}

func (p *Pool) callerName(opts pool.SubmitOptions) string {
	if opts.Caller != "" {
		return opts.Caller
	}

	pc, _, _, ok := runtime.Caller(2)
	details := runtime.FuncForPC(pc)
	if ok && details != nil {
		return details.Name()
	}
	return ""
}
