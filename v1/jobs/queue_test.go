package jobs

import (
	"testing"
	"time"
)

func TestQueue_FIFOAndDepth(t *testing.T) {
	q := newQueue[int]()

	for want := 1; want <= 3; want++ {
		depth, ok := q.Put(want)
		if !ok {
			t.Fatalf("Put %d rejected on open queue", want)
		}
		if depth != want {
			t.Errorf("expected depth %d, got %d", want, depth)
		}
	}

	for want := 1; want <= 3; want++ {
		got, ok := q.Get()
		if !ok {
			t.Fatalf("queue closed unexpectedly")
		}
		if got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue, got %d", q.Len())
	}
}

func TestQueue_GetBlocksUntilPut(t *testing.T) {
	q := newQueue[string]()
	done := make(chan string, 1)

	go func() {
		item, _ := q.Get()
		done <- item
	}()

	select {
	case <-done:
		t.Fatal("Get returned before Put")
	case <-time.After(20 * time.Millisecond):
	}

	q.Put("hello")
	select {
	case item := <-done:
		if item != "hello" {
			t.Errorf("expected hello, got %q", item)
		}
	case <-time.After(time.Second):
		t.Fatal("Get never woke up")
	}
}

func TestQueue_CloseDrainsThenStops(t *testing.T) {
	q := newQueue[int]()
	q.Put(1)
	q.Put(2)
	q.Close()

	if _, ok := q.Get(); !ok {
		t.Fatal("queued item lost on close")
	}
	if _, ok := q.Get(); !ok {
		t.Fatal("queued item lost on close")
	}
	if _, ok := q.Get(); ok {
		t.Fatal("expected closed signal after drain")
	}

	// Put after close drops the item and must say so.
	depth, ok := q.Put(3)
	if ok {
		t.Error("Put accepted an item on a closed queue")
	}
	if depth != 0 {
		t.Errorf("expected depth 0 after close, got %d", depth)
	}
}
