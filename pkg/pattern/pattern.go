// Package pattern matches a discovered size boundary against common WAF
// configuration values (8KB header limits, 1MB body limits, and so on).
package pattern

import (
	"math"

	"github.com/waftester/wafsizer/pkg/boundary"
)

// DefaultTolerance is the maximum relative deviation for a match.
const DefaultTolerance = 0.05

// Candidate pairs a human-readable label with its byte value.
type Candidate struct {
	Label string
	Bytes int
}

// Reference tables of commonly configured limits, ascending.
var (
	headerTable = []Candidate{
		{"8KB", 8192},
		{"16KB", 16384},
		{"32KB", 32768},
	}

	bodyTable = []Candidate{
		{"64KB", 65536},
		{"128KB", 131072},
		{"256KB", 262144},
		{"512KB", 524288},
		{"1MB", 1048576},
		{"2MB", 2097152},
		{"5MB", 5242880},
		{"10MB", 10485760},
	}
)

// Table returns the reference candidates for a dimension.
func Table(dim boundary.Dimension) []Candidate {
	if dim == boundary.DimensionHeader {
		return headerTable
	}
	return bodyTable
}

// Guess returns the label of the closest common limit within the default 5%
// tolerance, or "" when no candidate is close enough.
func Guess(size int, dim boundary.Dimension) string {
	return GuessWithTolerance(size, dim, DefaultTolerance)
}

// GuessWithTolerance is Guess with an explicit relative-deviation bound.
// The winning candidate is the one with the minimum |size-c|/c; it is only
// reported when that deviation is at or below tolerance.
func GuessWithTolerance(size int, dim boundary.Dimension, tolerance float64) string {
	if size <= 0 {
		return ""
	}

	best := ""
	bestDev := math.Inf(1)
	for _, c := range Table(dim) {
		dev := math.Abs(float64(size-c.Bytes)) / float64(c.Bytes)
		if dev < bestDev {
			bestDev = dev
			best = c.Label
		}
	}
	if bestDev > tolerance {
		return ""
	}
	return best
}
