package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/waftester/wafsizer/pkg/boundary"
	"github.com/waftester/wafsizer/pkg/jsonutil"
	"github.com/waftester/wafsizer/pkg/metrics"
)

func intp(v int) *int { return &v }

func sampleReport() *Report {
	return &Report{
		Tool:      "wafsizer",
		Version:   "test",
		RunID:     "run-123",
		Target:    "https://example.com",
		StartedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Duration:  3 * time.Second,
		Results: []DimensionReport{
			{
				Result: &boundary.Result{
					Dimension:     boundary.DimensionBody,
					DimensionName: "body",
					Outcome:       boundary.OutcomeFound,
					MaxAccepted:   intp(1048576),
					MinBlocked:    intp(1048577),
					PatternGuess:  "1MB",
					Probes:        24,
				},
				VendorMeta: map[string]string{"X-Cache": "HIT", "Server": "edge"},
			},
			{
				Result: &boundary.Result{
					Dimension:     boundary.DimensionHeader,
					DimensionName: "header",
					Outcome:       boundary.OutcomeRangeExhausted,
					Probes:        2,
				},
			},
		},
		Metrics: metrics.Snapshot{TotalRequests: 26},
	}
}

func TestConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &ConsoleWriter{Out: &buf}
	if err := w.Write(sampleReport()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"body size limit",
		"1,048,576",
		"1.00 MB",
		"1,048,577",
		"1MB (common limit)",
		"X-Cache: HIT",
		"header size limit",
		"boundary lies above the configured maximum",
		"26 probes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q\n%s", want, out)
		}
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &JSONWriter{Out: &buf}
	if err := w.Write(sampleReport()); err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		RunID    string  `json:"run_id"`
		Duration float64 `json:"duration_seconds"`
		Results  []struct {
			Dimension   string `json:"dimension"`
			Outcome     string `json:"outcome"`
			MaxAccepted *int   `json:"max_accepted"`
		} `json:"results"`
	}
	if err := jsonutil.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.RunID != "run-123" {
		t.Errorf("run_id = %q", decoded.RunID)
	}
	if decoded.Duration != 3 {
		t.Errorf("duration_seconds = %v, want 3", decoded.Duration)
	}
	if len(decoded.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(decoded.Results))
	}
	if decoded.Results[0].Dimension != "body" || *decoded.Results[0].MaxAccepted != 1048576 {
		t.Errorf("body result mangled: %+v", decoded.Results[0])
	}
	if decoded.Results[1].MaxAccepted != nil {
		t.Errorf("exhausted dimension must omit max_accepted")
	}
}

func TestJSONLWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &JSONLWriter{Out: &buf}
	if err := w.Write(sampleReport()); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	for i, line := range lines {
		var decoded struct {
			RunID     string `json:"run_id"`
			Target    string `json:"target"`
			Dimension string `json:"dimension"`
		}
		if err := jsonutil.Unmarshal([]byte(line), &decoded); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		if decoded.RunID != "run-123" || decoded.Target != "https://example.com" {
			t.Errorf("line %d missing run context: %+v", i, decoded)
		}
	}
}

func TestAnyFound(t *testing.T) {
	r := sampleReport()
	if !r.AnyFound() {
		t.Error("AnyFound() = false with one found dimension")
	}
	r.Results = r.Results[1:]
	if r.AnyFound() {
		t.Error("AnyFound() = true with only an exhausted dimension")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{65536, "64.00 KB"},
		{1048576, "1.00 MB"},
		{10485760, "10.00 MB"},
		{1 << 30, "1.00 GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
