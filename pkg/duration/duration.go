// Package duration provides canonical time constants for the codebase.
// Reference these instead of hardcoding time.Duration values so that probe
// pacing and timeouts stay consistent between the CLI and the packages.
package duration

import "time"

const (
	// HTTPProbe is the default per-probe timeout. The original measurements
	// this tool grew from used 30s end to end; slow WAF edges need it.
	HTTPProbe = 30 * time.Second

	// HTTPReachability is the timeout for the startup reachability check.
	HTTPReachability = 10 * time.Second

	// Dial is the timeout for establishing TCP connections.
	Dial = 10 * time.Second

	// TLSHandshake is the timeout for the TLS handshake.
	TLSHandshake = 10 * time.Second

	// IdleConn is how long idle pooled connections are kept.
	IdleConn = 90 * time.Second

	// ProbeRetryDelay is the pause before re-sending an errored probe.
	ProbeRetryDelay = 250 * time.Millisecond

	// ShutdownGrace is how long a search may keep running after the first
	// interrupt signal before the process exits hard.
	ShutdownGrace = 15 * time.Second
)
