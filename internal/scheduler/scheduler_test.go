package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_ImmediateCycle(t *testing.T) {
	var cycles atomic.Int32
	s := NewScheduler(func(context.Context) { cycles.Add(1) }, time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// The first cycle runs without waiting for a tick.
	deadline := time.After(2 * time.Second)
	for cycles.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("no immediate cycle within deadline")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("expected nil on cancellation, got %v", err)
	}
	if cycles.Load() != 1 {
		t.Fatalf("expected exactly 1 cycle, got %d", cycles.Load())
	}
}

func TestRun_TicksOnInterval(t *testing.T) {
	var cycles atomic.Int32
	s := NewScheduler(func(context.Context) { cycles.Add(1) }, 20*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for cycles.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 cycles, got %d", cycles.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("expected nil on cancellation, got %v", err)
	}
}

func TestRun_StopsOnCancelledContext(t *testing.T) {
	var cycles atomic.Int32
	s := NewScheduler(func(context.Context) { cycles.Add(1) }, time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The immediate cycle still runs; the loop then exits on the first select.
	if err := s.Run(ctx); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if cycles.Load() != 1 {
		t.Fatalf("expected 1 cycle, got %d", cycles.Load())
	}
}
