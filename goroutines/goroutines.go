/*
Package goroutines provides the interfaces and definitions that goroutine pools must
implement/use. The implementation is in the pooled sub-directory and can be used
directly without using this package.

Example of using a pool where errors don't matter:

	ctx := context.Background()
	p, err := pooled.New("", runtime.NumCPU())
	if err != nil {
		panic(err)
	}
	defer p.Close()

	for i := 0; i < 100; i++ {
		i := i

		p.Submit(
			ctx,
			func(ctx context.Context) {
				fmt.Println("Hello number ", i)
			},
		)
	}

	p.Wait()

Example of collecting errors without stopping execution:

	e := goroutines.Errors{}

	for _, url := range urls {
		url := url

		p.Submit(
			ctx,
			func(ctx context.Context) {
				if _, err := client.Get(url); err != nil {
					e.Record(err)
				}
			},
		)
	}
	p.Wait()

	for _, err := range e.Errors() {
		fmt.Println("had http.Client error: ", err)
	}
*/
package goroutines

import (
	"context"

	"github.com/gostdlib/primitives/goroutines/internal/pool"
	"github.com/gostdlib/primitives/prim/spinlock"
)

// Job is a job for a Pool.
type Job func(ctx context.Context)

// SubmitOption is an option for Pool.Submit().
type SubmitOption func(opt *pool.SubmitOptions) error

// Pool is the minimum interface that any goroutine pool must implement.
type Pool interface {
	// Submit submits a Job to be run.
	Submit(ctx context.Context, runner Job, options ...SubmitOption) error
	// Close closes the goroutine pool. This will call Wait() before it closes.
	Close()
	// Wait will wait for all goroutines to finish. This should only be called if
	// you have stopped calling Submit().
	Wait()
	// Len indicates how big the pool is.
	Len() int
	// Running returns how many jobs are currently in flight.
	Running() int
}

// Errors is a concurrency safe way of capturing a set of errors in multiple goroutines.
// The zero value is ready to use.
type Errors struct {
	errors spinlock.Guarded[[]error]
}

// Record writes an error to Errors.
func (e *Errors) Record(err error) {
	e.errors.With(func(v *[]error) {
		*v = append(*v, err)
	})
}

// Error returns the first error received.
func (e *Errors) Error() error {
	var err error
	e.errors.With(func(v *[]error) {
		if len(*v) > 0 {
			err = (*v)[0]
		}
	})
	return err
}

// Errors returns a copy of all errors.
func (e *Errors) Errors() []error {
	var out []error
	e.errors.With(func(v *[]error) {
		out = append(out, *v...)
	})
	return out
}
