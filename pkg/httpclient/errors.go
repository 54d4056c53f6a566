package httpclient

import "errors"

// Sentinel errors for HTTP client failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrInvalidProxy indicates the configured proxy URL could not be parsed.
	ErrInvalidProxy = errors.New("httpclient: invalid proxy URL")
)
