package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/waftester/wafsizer/pkg/boundary"
	"github.com/waftester/wafsizer/pkg/jsonutil"
	"github.com/waftester/wafsizer/pkg/ui"
)

// JSONWriter renders the whole report as one indented JSON document.
type JSONWriter struct {
	Out io.Writer
}

// Write implements Writer.
func (w *JSONWriter) Write(report *Report) error {
	report.DurationS = report.Duration.Seconds()
	data, err := jsonutil.MarshalIndent(report, "  ")
	if err != nil {
		return err
	}
	if _, err := w.Out.Write(data); err != nil {
		return err
	}
	_, err = w.Out.Write([]byte{'\n'})
	return err
}

// JSONLWriter renders one JSON line per dimension result.
type JSONLWriter struct {
	Out io.Writer
}

// Write implements Writer.
func (w *JSONLWriter) Write(report *Report) error {
	enc := jsonutil.NewStreamEncoder(w.Out)
	for _, res := range report.Results {
		line := struct {
			RunID  string `json:"run_id"`
			Target string `json:"target"`
			DimensionReport
		}{report.RunID, report.Target, res}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return nil
}

// ConsoleWriter renders a styled human-readable summary to the terminal.
type ConsoleWriter struct {
	Out io.Writer
}

// Write implements Writer.
func (w *ConsoleWriter) Write(report *Report) error {
	for _, res := range report.Results {
		if res.Result == nil {
			continue
		}
		w.writeDimension(res)
	}

	fmt.Fprintf(w.Out, "\n%s\n", ui.StatLabelStyle.Render(fmt.Sprintf(
		"%d probes in %.1fs  [run %s]",
		report.Metrics.TotalRequests, report.Duration.Seconds(), report.RunID)))
	return nil
}

func (w *ConsoleWriter) writeDimension(res DimensionReport) {
	fmt.Fprintf(w.Out, "\n%s\n", ui.SectionStyle.Render("> "+res.DimensionName+" size limit"))

	switch res.Outcome {
	case boundary.OutcomeFound:
		max := *res.MaxAccepted
		fmt.Fprintf(w.Out, "  %s %s bytes (%s)\n",
			ui.StatLabelStyle.Render("max accepted :"),
			ui.StatValueStyle.Render(ui.GroupDigits(max)),
			FormatBytes(max))
		fmt.Fprintf(w.Out, "  %s %s bytes\n",
			ui.StatLabelStyle.Render("min blocked  :"),
			ui.StatValueStyle.Render(ui.GroupDigits(*res.MinBlocked)))
		if res.PatternGuess != "" {
			fmt.Fprintf(w.Out, "  %s %s\n",
				ui.StatLabelStyle.Render("pattern      :"),
				ui.PassStyle.Render(res.PatternGuess+" (common limit)"))
		} else {
			fmt.Fprintf(w.Out, "  %s %s\n",
				ui.StatLabelStyle.Render("pattern      :"),
				ui.StatLabelStyle.Render("no common pattern matched"))
		}
	case boundary.OutcomeBelowRange:
		fmt.Fprintf(w.Out, "  %s\n", ui.WarnStyle.Render("no accepted size in range; acceptance starts below the configured minimum"))
	case boundary.OutcomeRangeExhausted:
		fmt.Fprintf(w.Out, "  %s\n", ui.WarnStyle.Render("every size in range accepted; boundary lies above the configured maximum"))
	case boundary.OutcomeCeilingExceeded:
		fmt.Fprintf(w.Out, "  %s\n", ui.WarnStyle.Render("boundary exceeds the escalation ceiling; no blocked size observed"))
	}

	for _, warning := range res.Warnings {
		fmt.Fprintf(w.Out, "  %s\n", ui.WarnStyle.Render("[!] "+warning))
	}

	if len(res.VendorMeta) > 0 {
		fmt.Fprintf(w.Out, "  %s\n", ui.StatLabelStyle.Render("vendor metadata:"))
		keys := make([]string, 0, len(res.VendorMeta))
		for k := range res.VendorMeta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w.Out, "    %s: %s\n",
				ui.StatLabelStyle.Render(k),
				ui.ConfigValueStyle.Render(res.VendorMeta[k]))
		}
	}
}
