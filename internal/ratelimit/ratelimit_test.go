package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestWait_UnderCapacityDoesNotBlock(t *testing.T) {
	l := NewWindowLimiter(time.Second, 3)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(context.Background(), "remoteok"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("expected no blocking under capacity, waited %v", elapsed)
	}
}

func TestWait_BlocksWhenWindowFull(t *testing.T) {
	l := NewWindowLimiter(150*time.Millisecond, 1)

	if err := l.Wait(context.Background(), "remotive"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Now()
	if err := l.Wait(context.Background(), "remotive"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Fatalf("expected to wait for window to clear, waited only %v", elapsed)
	}
}

func TestWait_SourcesHaveIndependentBuckets(t *testing.T) {
	l := NewWindowLimiter(time.Second, 1)

	if err := l.Wait(context.Background(), "remoteok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A different source must not be throttled by the first one's bucket.
	start := time.Now()
	if err := l.Wait(context.Background(), "adzuna"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("expected independent bucket, waited %v", elapsed)
	}
}

func TestWait_RespectsContextCancellation(t *testing.T) {
	l := NewWindowLimiter(10*time.Second, 1)

	if err := l.Wait(context.Background(), "adzuna"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Wait(ctx, "adzuna"); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

func TestTryAcquire_OldCallsAgeOut(t *testing.T) {
	l := NewWindowLimiter(time.Second, 2)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	l.now = func() time.Time { return clock }

	for i := 0; i < 2; i++ {
		if _, ok := l.tryAcquire("rss"); !ok {
			t.Fatalf("call %d: expected capacity", i)
		}
	}
	if _, ok := l.tryAcquire("rss"); ok {
		t.Fatal("expected window to be full")
	}

	// Advance past the window; both calls should age out.
	clock = base.Add(1100 * time.Millisecond)
	if _, ok := l.tryAcquire("rss"); !ok {
		t.Fatal("expected capacity after window elapsed")
	}
}
