// Package retry provides a small context-aware retry engine shared by the
// probe path. Two strategies are supported:
//
//   - Constant: the same delay between every attempt (probe re-sends)
//   - Exponential: delay doubles each attempt (startup reachability checks)
//
// Usage:
//
//	err := retry.Do(ctx, retry.Config{MaxAttempts: 2, InitDelay: delay, Strategy: retry.Constant}, func() error {
//	    return sendProbe()
//	})
package retry

import (
	"context"
	"errors"
	"time"
)

// Strategy defines the backoff algorithm.
type Strategy int

const (
	// Constant uses the same delay between every attempt.
	Constant Strategy = iota
	// Exponential doubles the delay each attempt: initDelay * 2^attempt.
	Exponential
)

// Config controls retry behaviour.
type Config struct {
	MaxAttempts int           // Total attempts (including the first). 0 means no-op.
	InitDelay   time.Duration // Base delay before the first retry.
	MaxDelay    time.Duration // Upper bound on any single delay. 0 means no bound.
	Strategy    Strategy      // Backoff algorithm.
}

// StopError wraps an error to signal that retrying should stop immediately.
// Use this when the caller knows the error is permanent.
type StopError struct {
	Err error
}

func (e *StopError) Error() string { return e.Err.Error() }
func (e *StopError) Unwrap() error { return e.Err }

// Stop wraps err so that Do returns it without further retries.
func Stop(err error) error {
	return &StopError{Err: err}
}

// sleeper is an interface for waiting, allowing tests to override time.After.
type sleeper interface {
	sleep(ctx context.Context, d time.Duration) error
}

// realSleeper uses time.After for production code.
type realSleeper struct{}

func (realSleeper) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do executes fn up to cfg.MaxAttempts times, sleeping between failures
// according to the configured strategy. It returns nil on the first
// successful call, or the last error if all attempts fail. If the context
// is cancelled, ctx.Err() is returned immediately.
//
// If fn returns a StopError, Do returns the wrapped error without retrying.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	return doWithSleeper(ctx, cfg, fn, realSleeper{})
}

func doWithSleeper(ctx context.Context, cfg Config, fn func() error, s sleeper) error {
	if cfg.MaxAttempts <= 0 {
		return nil
	}

	var lastErr error
	for attempt := range cfg.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var stop *StopError
		if errors.As(lastErr, &stop) {
			return stop.Err
		}

		if attempt < cfg.MaxAttempts-1 {
			if d := CalcDelay(cfg, attempt); d > 0 {
				if err := s.sleep(ctx, d); err != nil {
					return err
				}
			}
		}
	}
	return lastErr
}

// CalcDelay computes the sleep duration for a given attempt (0-indexed).
func CalcDelay(cfg Config, attempt int) time.Duration {
	delay := cfg.InitDelay
	if cfg.Strategy == Exponential {
		for range attempt {
			delay *= 2
		}
	}
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}
