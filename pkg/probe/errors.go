package probe

import "errors"

// Sentinel errors for probe client failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrInvalidTarget indicates the target URL could not be parsed or lacks
	// a scheme or host.
	ErrInvalidTarget = errors.New("probe: invalid target URL")

	// ErrUnreachable indicates the target never produced an HTTP response
	// during the startup reachability check.
	ErrUnreachable = errors.New("probe: target unreachable")
)
