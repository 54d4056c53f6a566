// Package output renders the final run report: a styled console summary, a
// JSON document, or JSONL (one line per dimension).
package output

import (
	"time"

	"github.com/waftester/wafsizer/pkg/boundary"
	"github.com/waftester/wafsizer/pkg/metrics"
)

// DimensionReport pairs one search result with the vendor metadata extracted
// from its last accepted response.
type DimensionReport struct {
	*boundary.Result
	VendorMeta map[string]string `json:"vendor_meta,omitempty"`
}

// Report is the full output of one run.
type Report struct {
	Tool      string            `json:"tool"`
	Version   string            `json:"version"`
	RunID     string            `json:"run_id"`
	Target    string            `json:"target"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"-"`
	DurationS float64           `json:"duration_seconds"`
	Results   []DimensionReport `json:"results"`
	Metrics   metrics.Snapshot  `json:"metrics"`
}

// AnyFound reports whether at least one dimension produced an exact boundary.
func (r *Report) AnyFound() bool {
	for _, res := range r.Results {
		if res.Result != nil && res.Found() {
			return true
		}
	}
	return false
}

// Writer renders a report to some destination.
type Writer interface {
	Write(report *Report) error
}
