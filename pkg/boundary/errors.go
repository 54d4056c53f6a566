package boundary

import "errors"

// Sentinel errors for search failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrInvalidRange indicates the configured search range cannot seed a
	// search (negative bounds, or low not strictly below high).
	ErrInvalidRange = errors.New("boundary: invalid search range")

	// ErrNilProber indicates Find was called without a probe function.
	ErrNilProber = errors.New("boundary: nil prober")
)
