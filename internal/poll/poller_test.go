package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPollerRunsImmediatelyAndOnTicks(t *testing.T) {
	var runs atomic.Int64
	p := New("test", 20*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go p.Start(ctx)
	time.Sleep(70 * time.Millisecond)
	cancel()
	p.Stop()

	got := runs.Load()
	if got < 3 {
		t.Fatalf("cycles = %d, want immediate run plus ticks", got)
	}
}

func TestPollerSkipsWhileCycleInFlight(t *testing.T) {
	var runs atomic.Int64
	release := make(chan struct{})
	p := New("slow", 10*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		<-release
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Start(ctx)

	// Many ticks pass while the first cycle is stuck.
	time.Sleep(80 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		close(release)
		t.Fatalf("cycles = %d, want 1 while in flight", got)
	}
	close(release)

	time.Sleep(40 * time.Millisecond)
	if got := runs.Load(); got < 2 {
		t.Fatalf("cycles = %d, ticks should resume after release", got)
	}
	p.Stop()
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := New("stoppable", time.Hour, func(context.Context) error { return errors.New("never runs twice") })

	done := make(chan struct{})
	go func() {
		p.Start(context.Background())
		close(done)
	}()

	p.Stop()
	p.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
