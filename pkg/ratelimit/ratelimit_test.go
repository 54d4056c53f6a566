package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNew_Unlimited(t *testing.T) {
	t.Parallel()

	if l := New(0, 1); l != nil {
		t.Fatalf("New(0) = %v, want nil", l)
	}
	if l := New(-5, 1); l != nil {
		t.Fatalf("New(-5) = %v, want nil", l)
	}
}

func TestNilLimiter_NeverWaits(t *testing.T) {
	t.Parallel()

	var l *Limiter
	start := time.Now()
	for range 1000 {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("nil limiter waited %v", elapsed)
	}
}

func TestNilLimiter_ContextError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var l *Limiter
	if err := l.Wait(ctx); err != context.Canceled {
		t.Fatalf("Wait() = %v, want context.Canceled", err)
	}
}

func TestLimiter_Paces(t *testing.T) {
	t.Parallel()

	// 100/s with burst 1: the 4th request cannot complete before ~30ms.
	l := New(100, 1)
	start := time.Now()
	for range 4 {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Fatalf("4 requests at 100/s took %v, want >= 25ms", elapsed)
	}
}

func TestLimiter_CancelledWait(t *testing.T) {
	t.Parallel()

	l := New(1, 1)
	// Drain the single burst token so the next Wait must block.
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Fatal("Wait() = nil, want context error")
	}
}
