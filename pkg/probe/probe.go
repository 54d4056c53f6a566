// Package probe turns a size into one HTTP request against the target and
// classifies the response. The boundary engine consumes it through the
// boundary.Prober contract and stays agnostic to everything HTTP.
//
// Sizing is exact per dimension: the body prober sends a request whose body
// is precisely N bytes; the header prober pads an X-Padding header so the
// serialized HTTP/1.1 header block totals N bytes. Header sizing is
// approximate over HTTP/2 because HPACK compresses the block on the wire.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/waftester/wafsizer/pkg/boundary"
	"github.com/waftester/wafsizer/pkg/bufpool"
	"github.com/waftester/wafsizer/pkg/duration"
	"github.com/waftester/wafsizer/pkg/httpclient"
	"github.com/waftester/wafsizer/pkg/metrics"
	"github.com/waftester/wafsizer/pkg/ratelimit"
	"github.com/waftester/wafsizer/pkg/retry"
	"github.com/waftester/wafsizer/pkg/ui"
)

// DefaultSuccessStatuses are the statuses counted as Accepted. 501 is the
// usual sentinel from origin-less edge configurations: the edge forwarded the
// request (so the WAF passed it) and the origin had nothing to serve it with.
var DefaultSuccessStatuses = []int{200, 201, 204, 501}

const (
	formPrefix  = "data="
	paddingByte = 'A'
)

// ProgressFunc observes every sent probe; the CLI uses it for live output.
type ProgressFunc func(dim boundary.Dimension, size int, pr boundary.ProbeResult, latency time.Duration)

// Config holds probe client construction options.
type Config struct {
	// Target is the full URL probed. Required.
	Target string

	// Method overrides the per-dimension default (POST for body, GET for
	// header probes).
	Method string

	// Headers are extra request headers sent with every probe, e.g. the
	// vendor debug pragma.
	Headers map[string]string

	// SuccessStatuses override DefaultSuccessStatuses when non-empty.
	SuccessStatuses []int

	// Client is the pooled HTTP client. Defaults to httpclient.Default().
	Client *http.Client

	// Limiter optionally paces probes. Nil means unlimited.
	Limiter *ratelimit.Limiter

	// Recorder optionally collects latency stats.
	Recorder *metrics.Recorder

	// Progress optionally observes every probe.
	Progress ProgressFunc
}

// Client builds and sends sized probe requests. Safe for concurrent use;
// header and body searches may share one Client.
type Client struct {
	target   *url.URL
	method   string
	headers  map[string]string
	success  map[int]bool
	client   *http.Client
	limiter  *ratelimit.Limiter
	recorder *metrics.Recorder
	progress ProgressFunc
}

// New creates a probe client, validating the target URL.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.Target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, cfg.Target)
	}

	statuses := cfg.SuccessStatuses
	if len(statuses) == 0 {
		statuses = DefaultSuccessStatuses
	}
	success := make(map[int]bool, len(statuses))
	for _, s := range statuses {
		success[s] = true
	}

	client := cfg.Client
	if client == nil {
		client = httpclient.Default()
	}

	return &Client{
		target:   u,
		method:   cfg.Method,
		headers:  cfg.Headers,
		success:  success,
		client:   client,
		limiter:  cfg.Limiter,
		recorder: cfg.Recorder,
		progress: cfg.Progress,
	}, nil
}

// Prober adapts the client to the boundary engine's contract for one
// dimension.
func (c *Client) Prober(dim boundary.Dimension) boundary.Prober {
	return func(ctx context.Context, size int) boundary.ProbeResult {
		return c.probe(ctx, dim, size)
	}
}

// CheckReachable sends one unsized request to the target and succeeds on any
// HTTP response at all. Transport failures are retried with backoff; a target
// that never answers aborts the run before searches begin.
func (c *Client) CheckReachable(ctx context.Context) error {
	cfg := retry.Config{
		MaxAttempts: 2,
		InitDelay:   time.Second,
		Strategy:    retry.Exponential,
	}
	err := retry.Do(ctx, cfg, func() error {
		reqCtx, cancel := context.WithTimeout(ctx, duration.HTTPReachability)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.target.String(), nil)
		if err != nil {
			return retry.Stop(err)
		}
		req.Header.Set("User-Agent", ui.UserAgentWithContext("reachability"))

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		drain(resp)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return nil
}

func (c *Client) probe(ctx context.Context, dim boundary.Dimension, size int) boundary.ProbeResult {
	if err := c.limiter.Wait(ctx); err != nil {
		return boundary.ProbeResult{Classification: boundary.Errored, Err: err.Error()}
	}

	var (
		req     *http.Request
		release func()
		err     error
	)
	switch dim {
	case boundary.DimensionBody:
		req, release, err = c.bodyRequest(ctx, size)
	default:
		req, err = c.headerRequest(ctx, size)
	}
	if err != nil {
		return boundary.ProbeResult{Classification: boundary.Errored, Err: err.Error()}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	latency := time.Since(start)
	if release != nil {
		release()
	}

	var pr boundary.ProbeResult
	if err != nil {
		pr = boundary.ProbeResult{Classification: boundary.Errored, Err: err.Error()}
	} else {
		headers := flattenHeaders(resp.Header)
		drain(resp)
		pr = boundary.ProbeResult{
			Classification: c.classify(dim, resp.StatusCode),
			StatusCode:     resp.StatusCode,
			Headers:        headers,
		}
	}

	c.recorder.Observe(dim.String(), latency, pr.Classification == boundary.Errored)
	if c.progress != nil {
		c.progress(dim, size, pr, latency)
	}
	return pr
}

// classify maps a status code to the engine's contract: success sentinel
// statuses are Accepted; 400 is Blocked for both dimensions; 431 is Blocked
// for the header dimension only; everything else is Errored.
func (c *Client) classify(dim boundary.Dimension, status int) boundary.Classification {
	switch {
	case c.success[status]:
		return boundary.Accepted
	case status == http.StatusBadRequest:
		return boundary.Blocked
	case status == http.StatusRequestHeaderFieldsTooLarge && dim == boundary.DimensionHeader:
		return boundary.Blocked
	default:
		return boundary.Errored
	}
}

// padChunk amortizes padding writes for large bodies.
var padChunk = bytes.Repeat([]byte{paddingByte}, 64<<10)

// bodyRequest builds a POST whose body is exactly size bytes: the usual
// "data=AAA…" form payload, truncated to bare padding when size is tiny.
// The payload lives in a pooled buffer; the release callback returns it to
// the pool once the request has been sent.
func (c *Client) bodyRequest(ctx context.Context, size int) (*http.Request, func(), error) {
	buf := bufpool.GetSized(size)
	if size > len(formPrefix) {
		buf.WriteString(formPrefix)
	}
	for buf.Len() < size {
		n := size - buf.Len()
		if n > len(padChunk) {
			n = len(padChunk)
		}
		buf.Write(padChunk[:n])
	}

	method := c.method
	if method == "" {
		method = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, method, c.target.String(), bytes.NewReader(buf.Bytes()))
	if err != nil {
		bufpool.Put(buf)
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.applyCommonHeaders(req)
	return req, func() { bufpool.Put(buf) }, nil
}

// headerRequest builds a GET whose serialized HTTP/1.1 header block is
// exactly size bytes, by padding an X-Padding header around the fixed parts
// (request line, Host, and the common headers).
func (c *Client) headerRequest(ctx context.Context, size int) (*http.Request, error) {
	method := c.method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, c.target.String(), nil)
	if err != nil {
		return nil, err
	}
	// Pin Accept-Encoding so the transport does not append its own,
	// uncounted copy.
	req.Header.Set("Accept-Encoding", "identity")
	c.applyCommonHeaders(req)

	fixed := len(method) + 1 + len(req.URL.RequestURI()) + len(" HTTP/1.1\r\n")
	fixed += len("Host: ") + len(req.URL.Host) + len("\r\n")
	for key, values := range req.Header {
		for _, v := range values {
			fixed += len(key) + len(": ") + len(v) + len("\r\n")
		}
	}
	fixed += len("X-Padding: ") + len("\r\n") // the padding header's own framing
	fixed += len("\r\n")                      // block terminator

	pad := size - fixed
	if pad < 1 {
		pad = 1 // below-overhead sizes cannot be represented; send minimal padding
	}
	req.Header.Set("X-Padding", string(bytes.Repeat([]byte{paddingByte}, pad)))
	return req, nil
}

func (c *Client) applyCommonHeaders(req *http.Request) {
	req.Header.Set("User-Agent", ui.UserAgent())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

// flattenHeaders keeps the first value of each response header.
func flattenHeaders(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// drain consumes and closes a response body so the connection returns to the
// pool.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
