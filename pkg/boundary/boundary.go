// Package boundary implements size-boundary discovery against a WAF-protected
// endpoint: a coarse binary search, a bounded linear confirmation scan, and a
// byte-precise refinement pass, applied identically to the header and body
// dimensions through a narrow Prober contract.
package boundary

import (
	"context"
	"fmt"
	"time"
)

// Dimension selects which part of the request the probe varies.
type Dimension int

const (
	// DimensionHeader sizes the request header block.
	DimensionHeader Dimension = iota
	// DimensionBody sizes the request body.
	DimensionBody
)

// String returns the wire/report name of the dimension.
func (d Dimension) String() string {
	switch d {
	case DimensionHeader:
		return "header"
	case DimensionBody:
		return "body"
	default:
		return fmt.Sprintf("dimension(%d)", int(d))
	}
}

// Classification is the outcome of a single probe.
type Classification int

const (
	// Accepted means the endpoint processed the request (success sentinel status).
	Accepted Classification = iota
	// Blocked means the WAF rejected the request (400, or 431 for headers).
	Blocked
	// Errored means the probe failed at the transport level or returned an
	// unclassifiable status.
	Errored
)

// String returns a short label for log lines.
func (c Classification) String() string {
	switch c {
	case Accepted:
		return "accepted"
	case Blocked:
		return "blocked"
	case Errored:
		return "error"
	default:
		return fmt.Sprintf("classification(%d)", int(c))
	}
}

// ProbeResult is produced fresh for every probe call.
type ProbeResult struct {
	Classification Classification
	StatusCode     int
	Headers        map[string]string
	Err            string
}

// Prober sends one request whose sized dimension equals size bytes and
// classifies the response. Probers are called serially within one search.
type Prober func(ctx context.Context, size int) ProbeResult

// Range is the configured search window. Low must be less than High and both
// must be non-negative.
type Range struct {
	Low  int `json:"low" yaml:"low"`
	High int `json:"high" yaml:"high"`
}

// Validate reports whether the range can seed a search.
func (r Range) Validate() error {
	if r.Low < 0 || r.High < 0 {
		return fmt.Errorf("%w: negative bound in [%d, %d]", ErrInvalidRange, r.Low, r.High)
	}
	if r.Low >= r.High {
		return fmt.Errorf("%w: low %d must be below high %d", ErrInvalidRange, r.Low, r.High)
	}
	return nil
}

// Search outcomes. Found is the only outcome that carries a boundary pair.
const (
	// OutcomeFound means MaxAccepted and MinBlocked are set and adjacent.
	OutcomeFound = "found"
	// OutcomeBelowRange means the range low itself was blocked; no accepted
	// size exists at or above Range.Low.
	OutcomeBelowRange = "below-range"
	// OutcomeRangeExhausted means every size in the range was accepted and no
	// escalation headroom was configured.
	OutcomeRangeExhausted = "range-exhausted"
	// OutcomeCeilingExceeded means exponential escalation reached the absolute
	// ceiling without observing a blocked response.
	OutcomeCeilingExceeded = "ceiling-exceeded"
)

// Warnings attached to a best-effort result.
const (
	// WarnNetworkArtifact flags that at least one size was treated as blocked
	// only because it errored twice; the boundary may be a network artifact
	// rather than a true WAF rejection.
	WarnNetworkArtifact = "boundary may be a network artifact (persistent probe errors treated as blocked)"
	// WarnNonMonotonic flags that the confirmation scan observed an accepted
	// size at or above a known blocked size.
	WarnNonMonotonic = "endpoint size limit is not monotonic; reported boundary is best-effort"
)

// Result is the per-dimension output of one search.
type Result struct {
	Dimension     Dimension         `json:"-"`
	DimensionName string            `json:"dimension"`
	Outcome       string            `json:"outcome"`
	MaxAccepted   *int              `json:"max_accepted,omitempty"`
	MinBlocked    *int              `json:"min_blocked,omitempty"`
	SampleHeaders map[string]string `json:"sample_headers,omitempty"`
	PatternGuess  string            `json:"pattern_guess,omitempty"`
	Warnings      []string          `json:"warnings,omitempty"`
	Probes        int               `json:"probes"`
	Elapsed       time.Duration     `json:"-"`
	ElapsedMs     int64             `json:"elapsed_ms"`
}

// Found reports whether the search produced an exact boundary pair.
func (r *Result) Found() bool {
	return r.Outcome == OutcomeFound && r.MaxAccepted != nil && r.MinBlocked != nil
}

func (r *Result) warn(w string) {
	for _, existing := range r.Warnings {
		if existing == w {
			return
		}
	}
	r.Warnings = append(r.Warnings, w)
}
