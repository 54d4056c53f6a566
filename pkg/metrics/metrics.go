// Package metrics collects per-run probe statistics: request counts, error
// counts, and latency distribution per dimension. Plain structs, JSON-ready;
// the report writers embed a Snapshot directly.
package metrics

import (
	"sort"
	"sync"
	"time"
)

// DimensionStats aggregates the probes of one dimension.
type DimensionStats struct {
	Requests int   `json:"requests"`
	Errors   int   `json:"errors"`
	MinMs    int64 `json:"min_ms"`
	MaxMs    int64 `json:"max_ms"`
	AvgMs    int64 `json:"avg_ms"`
	P50Ms    int64 `json:"p50_ms"`
	P95Ms    int64 `json:"p95_ms"`
	P99Ms    int64 `json:"p99_ms"`
}

// Snapshot is a point-in-time view of a Recorder.
type Snapshot struct {
	TotalRequests int                       `json:"total_requests"`
	TotalErrors   int                       `json:"total_errors"`
	PerDimension  map[string]DimensionStats `json:"per_dimension,omitempty"`
}

// Recorder accumulates probe observations. Safe for concurrent use; header
// and body searches report into the same Recorder when run in parallel.
type Recorder struct {
	mu        sync.Mutex
	latencies map[string][]int64
	errors    map[string]int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		latencies: make(map[string][]int64),
		errors:    make(map[string]int),
	}
}

// Observe records one probe round-trip for a dimension.
func (r *Recorder) Observe(dimension string, latency time.Duration, errored bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latencies[dimension] = append(r.latencies[dimension], latency.Milliseconds())
	if errored {
		r.errors[dimension]++
	}
}

// Snapshot computes the current statistics.
func (r *Recorder) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{PerDimension: make(map[string]DimensionStats)}
	for dim, lats := range r.latencies {
		stats := DimensionStats{
			Requests: len(lats),
			Errors:   r.errors[dim],
		}
		if len(lats) > 0 {
			sorted := make([]int64, len(lats))
			copy(sorted, lats)
			sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

			var sum int64
			for _, v := range sorted {
				sum += v
			}
			stats.MinMs = sorted[0]
			stats.MaxMs = sorted[len(sorted)-1]
			stats.AvgMs = sum / int64(len(sorted))
			stats.P50Ms = percentile(sorted, 50)
			stats.P95Ms = percentile(sorted, 95)
			stats.P99Ms = percentile(sorted, 99)
		}
		snap.PerDimension[dim] = stats
		snap.TotalRequests += stats.Requests
		snap.TotalErrors += stats.Errors
	}
	return snap
}

// percentile returns the p-th percentile of a sorted slice using the
// nearest-rank method.
func percentile(sorted []int64, p int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}
