package chans

import (
	"sort"
	"sync"
	"testing"
	"testing/quick"
	"time"

	"github.com/kylelemons/godebug/pretty"
)

func TestQueueFIFO(t *testing.T) {
	t.Parallel()

	q := New[int]()
	for i := 0; i < 100; i++ {
		q.Send(i)
	}
	if q.Len() != 100 {
		t.Fatalf("TestQueueFIFO: Len(): got %d, want 100", q.Len())
	}
	for i := 0; i < 100; i++ {
		if got := q.Receive(); got != i {
			t.Fatalf("TestQueueFIFO: Receive() #%d: got %d", i, got)
		}
	}
}

// TestTwoSendersOneReceiver is the {3, 7} scenario: two goroutines each send one
// value and a third receives twice.
func TestTwoSendersOneReceiver(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		q := New[int]()

		go q.Send(3)
		go q.Send(7)

		got := []int{q.Receive(), q.Receive()}
		sort.Ints(got)

		if diff := pretty.Compare([]int{3, 7}, got); diff != "" {
			t.Fatalf("TestTwoSendersOneReceiver: -want/+got:\n%s", diff)
		}
	}
}

// TestPropertyMultiset sends every value from its own goroutine and receives each
// from another goroutine. The received values must be the sent values, in any order.
func TestPropertyMultiset(t *testing.T) {
	t.Parallel()

	property := func(messages []uint8) bool {
		q := New[uint8]()

		mu := sync.Mutex{}
		received := make([]uint8, 0, len(messages))

		wg := sync.WaitGroup{}
		for _, m := range messages {
			m := m
			wg.Add(2)
			go func() {
				defer wg.Done()
				q.Send(m)
			}()
			go func() {
				defer wg.Done()
				v := q.Receive()
				mu.Lock()
				received = append(received, v)
				mu.Unlock()
			}()
		}
		wg.Wait()

		want := append([]uint8{}, messages...)
		sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
		sort.Slice(received, func(i, j int) bool { return received[i] < received[j] })

		return pretty.Compare(want, received) == ""
	}

	if err := quick.Check(property, nil); err != nil {
		t.Errorf("TestPropertyMultiset: %s", err)
	}
}

func TestTryReceive(t *testing.T) {
	t.Parallel()

	q := New[string]()
	if _, ok := q.TryReceive(); ok {
		t.Fatalf("TestTryReceive: TryReceive() on an empty Queue: got true, want false")
	}

	q.Send("a")
	v, ok := q.TryReceive()
	if !ok || v != "a" {
		t.Errorf("TestTryReceive: got (%q, %v), want (\"a\", true)", v, ok)
	}
}

func TestDrain(t *testing.T) {
	t.Parallel()

	q := New[int]()
	for i := 0; i < 5; i++ {
		q.Send(i)
	}
	q.Receive()

	got := q.Drain()
	if diff := pretty.Compare([]int{1, 2, 3, 4}, got); diff != "" {
		t.Errorf("TestDrain: -want/+got:\n%s", diff)
	}
	if q.Len() != 0 {
		t.Errorf("TestDrain: Len() after Drain(): got %d, want 0", q.Len())
	}

	want := Stats{Sent: 5, Received: 1, Drained: 4}
	if diff := pretty.Compare(want, q.Stats()); diff != "" {
		t.Errorf("TestDrain: Stats(): -want/+got:\n%s", diff)
	}
}

func TestReceiveWaits(t *testing.T) {
	t.Parallel()

	q := New[int]()
	got := make(chan int, 1)
	go func() { got <- q.Receive() }()

	for q.Stats().Waiting != 1 {
		time.Sleep(time.Millisecond)
	}

	select {
	case v := <-got:
		t.Fatalf("TestReceiveWaits: Receive() returned %d from an empty Queue", v)
	default:
	}

	q.Send(9)
	if v := <-got; v != 9 {
		t.Errorf("TestReceiveWaits: got %d, want 9", v)
	}
	if w := q.Stats().Waiting; w != 0 {
		t.Errorf("TestReceiveWaits: Stats().Waiting: got %d, want 0", w)
	}
}
