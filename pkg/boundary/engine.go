package boundary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/waftester/wafsizer/pkg/retry"
)

// Config controls one search. Zero values are replaced by DefaultConfig()
// equivalents in New.
type Config struct {
	// Ceiling is the absolute cap for exponential escalation when Range.High
	// itself is accepted. A ceiling at or below Range.High disables
	// escalation and an all-accepted range reports OutcomeRangeExhausted.
	Ceiling int

	// Retries is how many times an errored probe is re-sent at the same size
	// before the size is treated as blocked.
	Retries int

	// RetryDelay is the pause between probe re-sends.
	RetryDelay time.Duration

	// ScanCap bounds the linear confirmation scan of phase 2.
	ScanCap int
}

// DefaultConfig returns the search defaults: 100 MB escalation ceiling, one
// retry per errored probe, and a 64-step confirmation scan.
func DefaultConfig() Config {
	return Config{
		Ceiling:    100 * 1024 * 1024,
		Retries:    1,
		RetryDelay: 250 * time.Millisecond,
		ScanCap:    64,
	}
}

// Engine runs boundary searches. One Engine may serve both dimensions; each
// Find call is self-contained and keeps no state on the Engine.
type Engine struct {
	cfg Config
}

// New creates an Engine, filling zero config fields with defaults.
func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Ceiling == 0 {
		cfg.Ceiling = def.Ceiling
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = def.RetryDelay
	}
	if cfg.ScanCap == 0 {
		cfg.ScanCap = def.ScanCap
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	return &Engine{cfg: cfg}
}

// Find locates the exact accepted/blocked boundary for dim inside rng.
//
// The search runs three phases: a coarse binary search (with exponential
// escalation above Range.High when the whole range is accepted), a bounded
// linear confirmation scan, and a byte-precise binary refinement. Probes are
// strictly serial; an errored probe is retried once per Config.Retries and
// then treated as blocked with a warning on the result.
//
// Out-of-range boundaries are surfaced as result outcomes, not errors: the
// returned error is non-nil only for invalid input or context cancellation.
func (e *Engine) Find(ctx context.Context, dim Dimension, probe Prober, rng Range) (*Result, error) {
	if probe == nil {
		return nil, ErrNilProber
	}
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	res := &Result{
		Dimension:     dim,
		DimensionName: dim.String(),
		Outcome:       OutcomeFound,
	}
	defer func() {
		res.Elapsed = time.Since(start)
		res.ElapsedMs = res.Elapsed.Milliseconds()
	}()

	// The invariant for every later phase: probe(lo) is accepted. If even the
	// range low is blocked, acceptance starts below the configured minimum and
	// no further probing can help.
	if c, err := e.classify(ctx, probe, rng.Low, res); err != nil {
		return res, err
	} else if c != Accepted {
		res.Outcome = OutcomeBelowRange
		return res, nil
	}

	lo, hi := rng.Low, rng.High

	c, err := e.classify(ctx, probe, hi, res)
	if err != nil {
		return res, err
	}
	if c == Accepted {
		// The whole configured range is accepted. Escalate hi by doubling up
		// to the absolute ceiling, looking for the first blocked size.
		if e.cfg.Ceiling <= hi {
			res.Outcome = OutcomeRangeExhausted
			return res, nil
		}
		blocked := false
		for hi < e.cfg.Ceiling {
			lo = hi
			hi *= 2
			if hi > e.cfg.Ceiling {
				hi = e.cfg.Ceiling
			}
			c, err := e.classify(ctx, probe, hi, res)
			if err != nil {
				return res, err
			}
			if c != Accepted {
				blocked = true
				break
			}
		}
		if !blocked {
			res.Outcome = OutcomeCeilingExceeded
			return res, nil
		}
	}

	// Phase 1: coarse binary search. probe(lo) accepted, probe(hi) blocked.
	lo, hi, err = e.bisect(ctx, probe, lo, hi, res)
	if err != nil {
		return res, err
	}

	// Phase 2: linear confirmation scan upward from lo+1. A monotonic limit
	// blocks immediately at hi; a blocked size below hi tightens the bound,
	// and an accepted size at or above hi violates monotonicity.
	for step := 1; step <= e.cfg.ScanCap; step++ {
		s := lo + step
		if s > hi {
			break
		}
		c, err := e.classify(ctx, probe, s, res)
		if err != nil {
			return res, err
		}
		if c != Accepted {
			if s < hi {
				hi = s
			}
			break
		}
		if s >= hi {
			res.warn(WarnNonMonotonic)
			break
		}
	}

	// Phase 3: byte-precise refinement of whatever phase 2 left.
	lo, hi, err = e.bisect(ctx, probe, lo, hi, res)
	if err != nil {
		return res, err
	}

	res.MaxAccepted = &lo
	res.MinBlocked = &hi
	return res, nil
}

// bisect narrows (lo, hi) to an adjacent pair with probe(lo) accepted and
// probe(hi) blocked. Both endpoints must already be classified.
func (e *Engine) bisect(ctx context.Context, probe Prober, lo, hi int, res *Result) (int, int, error) {
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		c, err := e.classify(ctx, probe, mid, res)
		if err != nil {
			return lo, hi, err
		}
		if c == Accepted {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, hi, nil
}

// classify issues one logical probe at size, applying the retry policy for
// errored responses. A size that still errors after retries is reported as
// Blocked for search-direction purposes and flags the result, so the caller
// can warn that the boundary may be a network artifact.
//
// Result.Probes counts logical probes only; retries are excluded.
func (e *Engine) classify(ctx context.Context, probe Prober, size int, res *Result) (Classification, error) {
	res.Probes++

	var pr ProbeResult
	err := retry.Do(ctx, retry.Config{
		MaxAttempts: 1 + e.cfg.Retries,
		InitDelay:   e.cfg.RetryDelay,
		Strategy:    retry.Constant,
	}, func() error {
		pr = probe(ctx, size)
		if pr.Classification == Errored {
			return fmt.Errorf("probe at %d bytes: %s", size, pr.Err)
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return Errored, err
		}
		res.warn(WarnNetworkArtifact)
		return Blocked, nil
	}

	if pr.Classification == Accepted && len(pr.Headers) > 0 {
		res.SampleHeaders = pr.Headers
	}
	return pr.Classification, nil
}
