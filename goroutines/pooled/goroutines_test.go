package pooled

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kylelemons/godebug/pretty"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc     string
		name     string
		size     int
		err      bool
		wantName bool
	}{
		{desc: "size 0", size: 0, err: true},
		{desc: "named", name: "myPool", size: 1, wantName: true},
		{desc: "unnamed", size: 2},
	}

	for _, test := range tests {
		p, err := New(test.name, test.size)
		switch {
		case err == nil && test.err:
			t.Errorf("TestNew(%s): want err != nil, got err == nil", test.desc)
			continue
		case err != nil && !test.err:
			t.Errorf("TestNew(%s): got err == %s, want err == nil", test.desc, err)
			continue
		case err != nil:
			continue
		}

		if test.wantName && p.GetName() != test.name {
			t.Errorf("TestNew(%s): GetName(): got %q, want %q", test.desc, p.GetName(), test.name)
		}
		if p.GetName() == "" {
			t.Errorf("TestNew(%s): GetName(): got empty name", test.desc)
		}
		if p.Len() != test.size {
			t.Errorf("TestNew(%s): Len(): got %d, want %d", test.desc, p.Len(), test.size)
		}
		p.Close()
	}
}

func TestPool(t *testing.T) {
	t.Parallel()

	p, err := New("", 100)
	if err != nil {
		panic(err)
	}
	defer p.Close()

	answer := make([]bool, 1000)
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		i := i
		p.Submit(
			ctx,
			func(ctx context.Context) {
				answer[i] = true
			},
		)
	}
	p.Wait()

	for i, e := range answer {
		if !e {
			t.Fatalf("TestPool: entry(%d) was not set to true as expected", i)
		}
	}

	m := p.Metrics()
	if m.Submitted != 1000 || m.Completed != 1000 {
		t.Errorf("TestPool: Metrics(): got %+v, want 1000 submitted and completed", m)
	}
	if p.Running() != 0 {
		t.Errorf("TestPool: Running(): got %d, want 0", p.Running())
	}
}

func TestNonBlocking(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, err := New("", 1)
	if err != nil {
		panic(err)
	}
	defer p.Close()

	// Occupy the only goroutine.
	started, block := make(chan struct{}), make(chan struct{})
	p.Submit(
		ctx,
		func(ctx context.Context) {
			close(started)
			<-block
		},
	)
	<-started

	var worked atomic.Bool
	done := make(chan struct{})
	err = p.Submit(
		ctx,
		func(ctx context.Context) {
			worked.Store(true)
			close(done)
		},
		NonBlocking(),
	)
	if err != nil {
		panic(err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		close(block)
		t.Fatalf("TestNonBlocking: NonBlocking() job waited behind the busy goroutine")
	}
	close(block)
	p.Wait()

	if !worked.Load() {
		t.Errorf("TestNonBlocking: did not work as expected")
	}
	if p.Metrics().Overflow != 1 {
		t.Errorf("TestNonBlocking: Metrics().Overflow: got %d, want 1", p.Metrics().Overflow)
	}
}

func TestSubmitErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, err := New("", 1)
	if err != nil {
		panic(err)
	}

	if err := p.Submit(ctx, nil); err == nil {
		t.Errorf("TestSubmitErrors(nil job): want err != nil, got err == nil")
	}
	if err := p.Submit(ctx, func(context.Context) {}, Caller("")); err == nil {
		t.Errorf("TestSubmitErrors(empty Caller): want err != nil, got err == nil")
	}

	p.Close()
	p.Close() // Closing twice is fine.

	if err := p.Submit(ctx, func(context.Context) {}); err == nil {
		t.Errorf("TestSubmitErrors(after Close): want err != nil, got err == nil")
	}
}

func TestGo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, err := New("", 4)
	if err != nil {
		panic(err)
	}
	defer p.Close()

	want := []int{}
	got := []int{}
	for i := 0; i < 20; i++ {
		i := i
		want = append(want, i*i)

		r, err := Go(ctx, p, func(ctx context.Context) int { return i * i }, Caller("TestGo"))
		if err != nil {
			t.Fatalf("TestGo: got err == %s, want err == nil", err)
		}
		got = append(got, r.Await())
	}

	if diff := pretty.Compare(want, got); diff != "" {
		t.Errorf("TestGo: -want/+got:\n%s", diff)
	}

	if _, err := Go[int](ctx, p, nil); err == nil {
		t.Errorf("TestGo(nil func): want err != nil, got err == nil")
	}
}
