// Package config holds the CLI configuration: flag parsing, optional YAML
// file loading, and validation. Flags win over the file, the file wins over
// built-in defaults.
package config

import (
	"flag"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/waftester/wafsizer/pkg/boundary"
	"github.com/waftester/wafsizer/pkg/defaults"
	"github.com/waftester/wafsizer/pkg/duration"
	"github.com/waftester/wafsizer/pkg/pattern"
)

// Config holds all CLI configuration options.
type Config struct {
	// Target settings
	Target     string            `yaml:"target"`
	Method     string            `yaml:"method"`
	Headers    map[string]string `yaml:"headers"`
	Proxy      string            `yaml:"proxy"`
	SkipVerify bool              `yaml:"skip_verify"`
	HTTP2      bool              `yaml:"http2"`

	// Search settings
	Dimensions  string         `yaml:"dimensions"` // header, body, or both
	HeaderRange boundary.Range `yaml:"header_range"`
	BodyRange   boundary.Range `yaml:"body_range"`
	Ceiling     int            `yaml:"ceiling"`
	Retries     int            `yaml:"retries"`
	Tolerance   float64        `yaml:"tolerance"`
	Parallel    bool           `yaml:"parallel"`

	// Execution settings
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit int           `yaml:"rate_limit"`

	// Classification settings
	SuccessStatuses []int    `yaml:"success_statuses"`
	MetaPrefixes    []string `yaml:"meta_prefixes"`

	// Output settings
	OutputFile string `yaml:"output"`
	Format     string `yaml:"format"` // console, json, jsonl
	Silent     bool   `yaml:"silent"`
	NoColor    bool   `yaml:"no_color"`

	// Version request (flag only)
	ShowVersion bool `yaml:"-"`
}

// headerFlag collects repeated -H "Key: Value" flags.
type headerFlag map[string]string

func (h headerFlag) String() string { return "" }

func (h headerFlag) Set(value string) error {
	key, val, ok := strings.Cut(value, ":")
	if !ok {
		return fmt.Errorf("header %q must be Key: Value", value)
	}
	h[strings.TrimSpace(key)] = strings.TrimSpace(val)
	return nil
}

// statusFlag parses a comma-separated status code list.
type statusFlag struct{ codes *[]int }

func (s statusFlag) String() string { return "" }

func (s statusFlag) Set(value string) error {
	var out []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("invalid status code %q", part)
		}
		out = append(out, code)
	}
	*s.codes = out
	return nil
}

// ParseFlags parses args (without the program name) into a Config.
func ParseFlags(args []string) (*Config, error) {
	cfg := &Config{Headers: make(map[string]string)}

	fs := flag.NewFlagSet("wafsizer", flag.ContinueOnError)

	// === TARGET ===
	fs.StringVar(&cfg.Target, "u", "", "Target URL (required)")
	fs.StringVar(&cfg.Target, "target", "", "Target URL (alias)")
	fs.StringVar(&cfg.Method, "X", "", "HTTP method override (default: POST body / GET header)")
	fs.Var(headerFlag(cfg.Headers), "H", "Extra request header (Key: Value), repeatable")
	fs.StringVar(&cfg.Proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	fs.BoolVar(&cfg.SkipVerify, "skip-verify", true, "Skip TLS certificate verification")
	fs.BoolVar(&cfg.HTTP2, "http2", false, "Force HTTP/2 (header sizing becomes approximate)")

	// === SEARCH ===
	fs.StringVar(&cfg.Dimensions, "dimension", "both", "Dimension(s) to probe: header, body, both")
	fs.StringVar(&cfg.Dimensions, "d", "both", "Dimension(s) (alias)")
	fs.IntVar(&cfg.HeaderRange.Low, "header-min", defaults.HeaderRangeLow, "Header search range low (bytes)")
	fs.IntVar(&cfg.HeaderRange.High, "header-max", defaults.HeaderRangeHigh, "Header search range high (bytes)")
	fs.IntVar(&cfg.BodyRange.Low, "body-min", defaults.BodyRangeLow, "Body search range low (bytes)")
	fs.IntVar(&cfg.BodyRange.High, "body-max", defaults.BodyRangeHigh, "Body search range high (bytes)")
	fs.IntVar(&cfg.Ceiling, "ceiling", defaults.EscalationCeiling, "Absolute escalation ceiling (bytes)")
	fs.IntVar(&cfg.Retries, "retries", defaults.Retries, "Retries per errored probe")
	fs.Float64Var(&cfg.Tolerance, "tolerance", pattern.DefaultTolerance, "Pattern match tolerance (relative deviation)")
	fs.BoolVar(&cfg.Parallel, "parallel", false, "Probe header and body dimensions concurrently")

	// === EXECUTION ===
	timeout := fs.Int("timeout", int(duration.HTTPProbe/time.Second), "Per-probe timeout in seconds")
	fs.IntVar(&cfg.RateLimit, "rate-limit", 0, "Max probes per second (0 = unlimited)")
	fs.IntVar(&cfg.RateLimit, "rl", 0, "Rate limit (alias)")

	// === CLASSIFICATION ===
	fs.Var(statusFlag{&cfg.SuccessStatuses}, "success-codes", "Comma-separated statuses counted as accepted (default 200,201,204,501)")

	// === OUTPUT ===
	fs.StringVar(&cfg.OutputFile, "o", "", "Output file (empty = stdout)")
	fs.StringVar(&cfg.Format, "format", "console", "Output format: console, json, jsonl")
	jsonOut := fs.Bool("json", false, "Shortcut for -format json")
	fs.BoolVar(&cfg.Silent, "silent", false, "Suppress progress output")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	configFile := fs.String("config", "", "YAML configuration file")

	// The file provides the base the flags then override, so it has to load
	// between flag registration (which writes defaults) and fs.Parse (which
	// writes command-line values). Peek at -config first.
	if path := peekConfigPath(args); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	_ = configFile

	timeoutSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "timeout" {
			timeoutSet = true
		}
	})
	if timeoutSet || cfg.Timeout == 0 {
		cfg.Timeout = time.Duration(*timeout) * time.Second
	}
	if *jsonOut {
		cfg.Format = "json"
	}

	return cfg, nil
}

// peekConfigPath finds a -config/--config value without a full parse.
func peekConfigPath(args []string) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(arg, "=")
		if name != "-config" && name != "--config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// Validate checks the configuration for startup-fatal problems.
func (c *Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("%w: target URL (-u)", ErrMissingRequired)
	}
	u, err := url.Parse(c.Target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: target %q is not an absolute URL", ErrInvalidConfig, c.Target)
	}

	switch c.Dimensions {
	case "header", "body", "both":
	default:
		return fmt.Errorf("%w: dimension %q (want header, body, or both)", ErrInvalidConfig, c.Dimensions)
	}

	for _, dim := range c.DimensionList() {
		if err := c.RangeFor(dim).Validate(); err != nil {
			return fmt.Errorf("%w: %s range: %v", ErrInvalidConfig, dim, err)
		}
	}

	if c.Ceiling <= 0 {
		return fmt.Errorf("%w: ceiling must be positive", ErrInvalidConfig)
	}
	if c.Tolerance <= 0 || c.Tolerance >= 1 {
		return fmt.Errorf("%w: tolerance %v must be in (0, 1)", ErrInvalidConfig, c.Tolerance)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.Retries < 0 {
		return fmt.Errorf("%w: retries must be non-negative", ErrInvalidConfig)
	}

	switch c.Format {
	case "console", "json", "jsonl":
	default:
		return fmt.Errorf("%w: format %q (want console, json, or jsonl)", ErrInvalidConfig, c.Format)
	}

	if c.Proxy != "" {
		if _, err := url.Parse(c.Proxy); err != nil {
			return fmt.Errorf("%w: proxy %q: %v", ErrInvalidConfig, c.Proxy, err)
		}
	}
	return nil
}

// DimensionList expands the Dimensions selector.
func (c *Config) DimensionList() []boundary.Dimension {
	switch c.Dimensions {
	case "header":
		return []boundary.Dimension{boundary.DimensionHeader}
	case "body":
		return []boundary.Dimension{boundary.DimensionBody}
	default:
		return []boundary.Dimension{boundary.DimensionHeader, boundary.DimensionBody}
	}
}

// RangeFor returns the configured search range for a dimension.
func (c *Config) RangeFor(dim boundary.Dimension) boundary.Range {
	if dim == boundary.DimensionHeader {
		return c.HeaderRange
	}
	return c.BodyRange
}
