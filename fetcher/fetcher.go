// Package fetcher retrieves web pages over plain HTTP with a
// browser-like identity: a Chrome TLS fingerprint, a rotating User-Agent
// pool, and realistic Accept headers. It enforces byte and time ceilings
// and retries transient failures with linear backoff. Network faults are
// classified into a typed Result rather than returned as errors; only
// pre-flight URL validation fails with an error.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	tls "github.com/refraction-networking/utls"

	"github.com/usesift/sift/config"
	"github.com/usesift/sift/models"
)

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to
// http/1.1 only. Computed once at init time and reused for every
// connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		// Fallback: if spec generation fails, connections use the raw
		// HelloChrome_Auto preset instead.
		return
	}
	// Replace h2 with http/1.1 only in the ALPN extension so the server
	// never negotiates HTTP/2 (which Go's http.Transport cannot handle
	// over a utls connection).
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// Options are per-fetch overrides. Zero values fall back to the
// configured defaults; MaxRetries is a pointer so an explicit zero means
// "no retries".
type Options struct {
	Timeout    time.Duration
	MaxBytes   int64
	MaxRetries *int
}

// Result is the typed outcome of a fetch. It is created once per Fetch
// call, owned by the caller, and never retained by the fetcher.
type Result struct {
	// URL is the validated, normalized request URL.
	URL string

	// FinalURL is the URL after following redirects. Empty when no
	// response was received.
	FinalURL string

	// StatusCode is the HTTP status of the last response, 0 when the
	// attempt failed before a response arrived.
	StatusCode int

	// Body holds at most the configured byte cap.
	Body []byte

	// Headers are the response headers of the final attempt, first value
	// per key.
	Headers map[string]string

	// ContentType is the upstream Content-Type header.
	ContentType string

	// Attempts counts HTTP attempts, including the first.
	Attempts int

	// ElapsedMs is the duration of the final attempt in milliseconds.
	ElapsedMs int64

	// Truncated reports that Body was cut at the byte cap.
	Truncated bool

	// Succeeded is true for any 2xx response, including truncated ones.
	Succeeded bool

	// ErrorKind classifies the failure; ErrorKindTooLarge appears with
	// Succeeded=true when the body was truncated.
	ErrorKind models.ErrorKind

	// ErrorMessage is a single human-readable description of the failure.
	ErrorMessage string
}

func (r *Result) fail(kind models.ErrorKind, msg string, elapsed time.Duration) {
	r.Succeeded = false
	r.ErrorKind = kind
	r.ErrorMessage = msg
	r.ElapsedMs = elapsed.Milliseconds()
}

// Fetcher performs HTTP GETs with a Chrome TLS fingerprint. It is safe
// for concurrent use; connections are pooled across calls.
type Fetcher struct {
	client *http.Client
	cfg    config.FetcherConfig
}

// New creates a Fetcher. ALPN is locked to http/1.1 to avoid the HTTP/2
// framing mismatch that occurs when utls negotiates h2 but Go's
// http.Transport only speaks h1.
func New(cfg config.FetcherConfig) *Fetcher {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{Timeout: 10 * time.Second}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("fetcher: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2: false,
	}
	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = 10
	}
	return &Fetcher{
		cfg: cfg,
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

// Fetch retrieves a URL. The returned error is non-nil only for
// pre-flight validation failures (an EngineError with code INVALID_URL);
// every network-layer outcome is reported inside the Result. The timeout
// applies per attempt, enforced through context cancellation. Canceling
// ctx terminates the retry loop immediately.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, opts Options) (*Result, error) {
	target, err := ValidateURL(rawURL, f.cfg.AllowPrivateHosts)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = f.cfg.DefaultTimeout
	}
	if f.cfg.MaxTimeout > 0 && timeout > f.cfg.MaxTimeout {
		timeout = f.cfg.MaxTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = f.cfg.MaxBytes
	}
	retries := f.cfg.MaxRetries
	if opts.MaxRetries != nil {
		retries = *opts.MaxRetries
	}
	if retries < 0 {
		retries = 0
	}

	res := &Result{URL: target}
	for attempt := 1; attempt <= retries+1; attempt++ {
		res.Attempts = attempt
		f.attempt(ctx, target, timeout, maxBytes, res)
		if res.Succeeded || !shouldRetry(res.ErrorKind, res.StatusCode) {
			break
		}
		// A canceled parent must not leak into another attempt.
		if ctx.Err() != nil || attempt > retries {
			break
		}
		delay := retryDelay(f.cfg.RetryBaseDelay, attempt)
		slog.Debug("retrying fetch",
			"url", target,
			"attempt", attempt,
			"kind", res.ErrorKind,
			"status", res.StatusCode,
			"delay", delay)
		select {
		case <-ctx.Done():
			res.ErrorKind = models.ErrorKindNetworkError
			res.ErrorMessage = "request canceled"
			return res, nil
		case <-time.After(delay):
		}
	}
	if !res.Succeeded {
		slog.Warn("fetch failed",
			"url", target,
			"attempts", res.Attempts,
			"kind", res.ErrorKind,
			"status", res.StatusCode,
			"error", res.ErrorMessage)
	}
	return res, nil
}

// attempt performs one HTTP round trip, resetting the per-attempt fields
// of res before filling them in.
func (f *Fetcher) attempt(parent context.Context, target string, timeout time.Duration, maxBytes int64, res *Result) {
	res.StatusCode = 0
	res.FinalURL = ""
	res.Body = nil
	res.Headers = nil
	res.ContentType = ""
	res.Truncated = false
	res.Succeeded = false
	res.ErrorKind = models.ErrorKindNone
	res.ErrorMessage = ""

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		res.fail(models.ErrorKindNetworkError, fmt.Sprintf("build request: %v", err), time.Since(start))
		return
	}
	setBrowserHeaders(req, randomUserAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		kind, msg := classifyError(err)
		res.fail(kind, msg, time.Since(start))
		return
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	res.FinalURL = resp.Request.URL.String()
	res.ContentType = resp.Header.Get("Content-Type")
	res.Headers = flattenHeaders(resp.Header)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.fail(models.ErrorKindHTTPError,
			fmt.Sprintf("upstream returned HTTP %d", resp.StatusCode), time.Since(start))
		return
	}

	// Read one byte past the cap to learn whether truncation happened.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		kind, msg := classifyError(err)
		res.fail(kind, fmt.Sprintf("read body: %s", msg), time.Since(start))
		return
	}
	if int64(len(body)) > maxBytes {
		body = body[:maxBytes]
		res.Truncated = true
		// Truncation is informational: partial HTML is still usable for
		// extraction, so the fetch counts as a success.
		res.ErrorKind = models.ErrorKindTooLarge
	}
	res.Body = body
	res.Succeeded = true
	res.ElapsedMs = time.Since(start).Milliseconds()
}

// classifyError maps a transport error to the retryable error taxonomy.
func classifyError(err error) (models.ErrorKind, string) {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.ErrorKindTimeout, "request timed out"
	case errors.As(err, &netErr) && netErr.Timeout():
		return models.ErrorKindTimeout, "request timed out"
	case errors.Is(err, context.Canceled):
		return models.ErrorKindNetworkError, "request canceled"
	default:
		return models.ErrorKindNetworkError, err.Error()
	}
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}
