// Package defaults centralizes tool-wide default values: search ranges,
// escalation ceiling, and CLI exit codes.
package defaults

// Default search windows, in bytes. The body window matches the limits most
// body-inspecting WAF tiers are configured between; the header window brackets
// the common 8KB-32KB server defaults.
const (
	HeaderRangeLow  = 1024
	HeaderRangeHigh = 65536

	BodyRangeLow  = 64000
	BodyRangeHigh = 10485760
)

// Search behaviour defaults.
const (
	// EscalationCeiling caps exponential escalation when the configured range
	// high is still accepted (100 MB).
	EscalationCeiling = 100 * 1024 * 1024

	// Retries is how many times an errored probe is re-sent.
	Retries = 1

	// ScanCap bounds the linear confirmation scan.
	ScanCap = 64
)

// Exit codes for the CLI.
const (
	ExitSuccess       = 0 // Run completed, report written
	ExitNoBoundary    = 1 // No dimension produced an exact boundary
	ExitUserError     = 2 // Invalid arguments or configuration
	ExitNetworkError  = 3 // Target unreachable at startup
	ExitInternalError = 4 // Unexpected internal error
)
