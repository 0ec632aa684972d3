package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDispatcher_SameKeyRunsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(4, zerolog.Nop())
	d.Start(ctx)

	var (
		mu  sync.Mutex
		got []int
		wg  sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		d.Schedule("job:42", func(context.Context) {
			defer wg.Done()
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	wg.Wait()

	for i, v := range got {
		if v != i {
			t.Fatalf("tasks ran out of order: %v", got)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, zerolog.Nop())
	for _, key := range []string{"mails", "job:1", "job:2", "prompts"} {
		first := d.shardIndex(key)
		if first < 0 || first >= 8 {
			t.Fatalf("shard %d out of range", first)
		}
		for i := 0; i < 5; i++ {
			if d.shardIndex(key) != first {
				t.Fatalf("shard for %q changed", key)
			}
		}
	}
}

func TestDispatcher_RecoversFromPanics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(1, zerolog.Nop())
	d.Start(ctx)

	done := make(chan struct{})
	d.Schedule("a", func(context.Context) { panic("boom") })
	d.Schedule("a", func(context.Context) { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker died after a panicking task")
	}
}

func TestDispatcher_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(2, zerolog.Nop())
	d.Start(ctx)
	cancel()

	finished := make(chan struct{})
	go func() {
		d.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("workers did not stop")
	}

	// Scheduling after shutdown must not block or panic.
	if d.Schedule("late", func(context.Context) { t.Error("task ran after shutdown") }) {
		t.Fatal("task accepted after shutdown")
	}
}

func TestDispatcher_DropsWhenQueueIsFull(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	// Not started: the single queue fills up and further tasks are dropped
	// instead of blocking the caller.
	accepted := 0
	for i := 0; i < channelBuffer+10; i++ {
		if d.Schedule("k", func(context.Context) {}) {
			accepted++
		}
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("queue length = %d, want %d", got, channelBuffer)
	}
	if accepted != channelBuffer {
		t.Fatalf("accepted %d tasks, want %d", accepted, channelBuffer)
	}
}

func TestDispatcher_Depths(t *testing.T) {
	d := NewDispatcher(2, zerolog.Nop())
	d.Schedule("a", func(context.Context) {})
	d.Schedule("a", func(context.Context) {})

	depths := d.Depths()
	if len(depths) != 2 {
		t.Fatalf("expected one depth per worker, got %v", depths)
	}
	if got := depths[d.shardIndex("a")]; got != 2 {
		t.Fatalf("depth of the shard of a = %d, want 2", got)
	}
	if depths[0]+depths[1] != 2 {
		t.Fatalf("unexpected depths %v", depths)
	}
}
