package cli

import (
	"os"
	"syscall"
	"testing"
	"time"
)

func TestSignalContext_CancelStopsGoroutine(t *testing.T) {
	t.Parallel()

	ctx, cancel := SignalContext(time.Second)
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled")
	}
}

func TestSignalContext_FirstSignalCancels(t *testing.T) {
	t.Parallel()

	sigChan := make(chan os.Signal, 2)
	ctx, cancel := signalContextWithNotifier(10*time.Millisecond, sigChan, func(int) {
		t.Error("exit called after a single signal")
	})
	defer cancel()

	sigChan <- syscall.SIGINT

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled after signal")
	}

	// Let the grace period lapse so a stray exit would be reported.
	time.Sleep(50 * time.Millisecond)
}

func TestSignalContext_SecondSignalExits(t *testing.T) {
	t.Parallel()

	exited := make(chan int, 1)
	sigChan := make(chan os.Signal, 2)
	_, cancel := signalContextWithNotifier(time.Minute, sigChan, func(code int) {
		exited <- code
	})
	defer cancel()

	sigChan <- syscall.SIGINT
	sigChan <- syscall.SIGINT

	select {
	case code := <-exited:
		if code != 1 {
			t.Fatalf("exit code = %d, want 1", code)
		}
	case <-time.After(time.Second):
		t.Fatal("second signal did not trigger exit")
	}
}
