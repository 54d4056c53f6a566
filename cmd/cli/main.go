// wafsizer discovers the exact request size limits a WAF-protected endpoint
// enforces: the largest accepted header block and body in bytes, plus the
// first blocked size one byte above each.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/waftester/wafsizer/pkg/boundary"
	"github.com/waftester/wafsizer/pkg/cli"
	"github.com/waftester/wafsizer/pkg/config"
	"github.com/waftester/wafsizer/pkg/defaults"
	"github.com/waftester/wafsizer/pkg/duration"
	"github.com/waftester/wafsizer/pkg/httpclient"
	"github.com/waftester/wafsizer/pkg/metrics"
	"github.com/waftester/wafsizer/pkg/output"
	"github.com/waftester/wafsizer/pkg/pattern"
	"github.com/waftester/wafsizer/pkg/probe"
	"github.com/waftester/wafsizer/pkg/ratelimit"
	"github.com/waftester/wafsizer/pkg/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.ParseFlags(args)
	if err != nil {
		ui.PrintError(err.Error())
		return defaults.ExitUserError
	}

	if cfg.ShowVersion {
		ui.PrintMiniBanner()
		return defaults.ExitSuccess
	}

	ui.SetSilent(cfg.Silent)
	ui.SetNoColor(cfg.NoColor)

	if err := cfg.Validate(); err != nil {
		ui.PrintError(err.Error())
		return defaults.ExitUserError
	}

	ctx, cancel := cli.SignalContext(duration.ShutdownGrace)
	defer cancel()

	client := httpclient.New(httpclient.Config{
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: cfg.SkipVerify,
		Proxy:              cfg.Proxy,
		ForceHTTP2:         cfg.HTTP2,
	})
	recorder := metrics.NewRecorder()

	probeClient, err := probe.New(probe.Config{
		Target:          cfg.Target,
		Method:          cfg.Method,
		Headers:         cfg.Headers,
		SuccessStatuses: cfg.SuccessStatuses,
		Client:          client,
		Limiter:         ratelimit.New(cfg.RateLimit, 1),
		Recorder:        recorder,
		Progress: func(dim boundary.Dimension, size int, pr boundary.ProbeResult, latency time.Duration) {
			ui.PrintProbeLine(dim.String(), size, pr.StatusCode, pr.Classification.String(), latency.Milliseconds())
		},
	})
	if err != nil {
		ui.PrintError(err.Error())
		return defaults.ExitUserError
	}

	if !cfg.Silent {
		ui.PrintMiniBanner()
		ui.PrintConfigBanner(configBanner(cfg))
	}

	if err := probeClient.CheckReachable(ctx); err != nil {
		ui.PrintError(err.Error())
		return defaults.ExitNetworkError
	}

	report := &output.Report{
		Tool:      "wafsizer",
		Version:   ui.Version,
		RunID:     uuid.NewString(),
		Target:    cfg.Target,
		StartedAt: time.Now().UTC(),
	}

	engine := boundary.New(boundary.Config{
		Ceiling:    cfg.Ceiling,
		Retries:    cfg.Retries,
		RetryDelay: duration.ProbeRetryDelay,
		ScanCap:    defaults.ScanCap,
	})

	dims := cfg.DimensionList()
	results := make([]output.DimensionReport, len(dims))

	runDimension := func(i int, dim boundary.Dimension) {
		if !cfg.Silent {
			ui.PrintPhase(dim.String(), fmt.Sprintf("searching %s..%s",
				output.FormatBytes(cfg.RangeFor(dim).Low), output.FormatBytes(cfg.RangeFor(dim).High)))
		}
		res, err := engine.Find(ctx, dim, probeClient.Prober(dim), cfg.RangeFor(dim))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				ui.PrintWarning(fmt.Sprintf("%s search aborted: %v", dim, err))
			} else {
				ui.PrintError(fmt.Sprintf("%s search failed: %v", dim, err))
			}
		}
		if res == nil {
			res = &boundary.Result{Dimension: dim, DimensionName: dim.String()}
		}
		if res.Found() {
			res.PatternGuess = pattern.GuessWithTolerance(*res.MaxAccepted, dim, cfg.Tolerance)
		}
		results[i] = output.DimensionReport{
			Result:     res,
			VendorMeta: probe.VendorMeta(res.SampleHeaders, cfg.MetaPrefixes),
		}
	}

	// The two dimensions are independent; probes within one search stay
	// serial either way.
	if cfg.Parallel && len(dims) > 1 {
		var wg sync.WaitGroup
		for i, dim := range dims {
			wg.Add(1)
			go func(i int, dim boundary.Dimension) {
				defer wg.Done()
				runDimension(i, dim)
			}(i, dim)
		}
		wg.Wait()
	} else {
		for i, dim := range dims {
			runDimension(i, dim)
		}
	}

	report.Results = results
	report.Duration = time.Since(report.StartedAt)
	report.Metrics = recorder.Snapshot()

	if err := writeReport(cfg, report); err != nil {
		ui.PrintError(fmt.Sprintf("writing report: %v", err))
		return defaults.ExitInternalError
	}

	if !report.AnyFound() {
		return defaults.ExitNoBoundary
	}
	return defaults.ExitSuccess
}

// writeReport renders the report in the configured format. A file output in a
// machine format still gets the console summary on stdout, so interactive
// runs always end with something readable.
func writeReport(cfg *config.Config, report *output.Report) error {
	dest := os.Stdout
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		dest = f
	}

	var w output.Writer
	switch cfg.Format {
	case "json":
		w = &output.JSONWriter{Out: dest}
	case "jsonl":
		w = &output.JSONLWriter{Out: dest}
	default:
		w = &output.ConsoleWriter{Out: dest}
	}
	if err := w.Write(report); err != nil {
		return err
	}

	if cfg.OutputFile != "" && cfg.Format != "console" && !cfg.Silent {
		console := &output.ConsoleWriter{Out: os.Stdout}
		if err := console.Write(report); err != nil {
			return err
		}
	}
	return nil
}

func configBanner(cfg *config.Config) map[string]string {
	opts := map[string]string{
		"Target":     cfg.Target,
		"Dimensions": cfg.Dimensions,
		"Ceiling":    output.FormatBytes(cfg.Ceiling),
		"Timeout":    cfg.Timeout.String(),
		"Retries":    fmt.Sprintf("%d", cfg.Retries),
		"Format":     cfg.Format,
		"Output":     cfg.OutputFile,
		"Proxy":      cfg.Proxy,
	}
	for _, dim := range cfg.DimensionList() {
		rng := cfg.RangeFor(dim)
		name := dim.String()
		label := strings.ToUpper(name[:1]) + name[1:] + " Range"
		opts[label] = fmt.Sprintf("%s - %s", output.FormatBytes(rng.Low), output.FormatBytes(rng.High))
	}
	if cfg.RateLimit > 0 {
		opts["Rate Limit"] = fmt.Sprintf("%d req/s", cfg.RateLimit)
	}
	if cfg.Parallel {
		opts["Parallel"] = "true"
	}
	return opts
}
