package httpclient

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single classification round trip. Language models
	// can take minutes on long name lists, but a hung endpoint must not block forever.
	DefaultTimeout = 10 * time.Minute
	// MaxResponseBytes caps HTTP response bodies to prevent memory spikes.
	MaxResponseBytes = 8 * 1024 * 1024
	// Transport tuning for stable, long-lived connections.
	MaxIdleConns          = 100
	MaxIdleConnsPerHost   = 20
	IdleConnTimeout       = 120 * time.Second
	TLSHandshakeTimeout   = 30 * time.Second
	ExpectContinueTimeout = 2 * time.Second
)

// Options configures a client's own transport. Nothing here touches
// http.DefaultTransport or any other process-wide state.
type Options struct {
	Timeout time.Duration
	// ProxyURL routes every request of this client through the given proxy.
	// Empty means no proxy, regardless of the environment.
	ProxyURL string
	// InsecureSkipVerify disables certificate verification for this client only.
	InsecureSkipVerify bool
}

// NewClient returns a new http.Client with the specified timeout and no proxy.
func NewClient(timeout time.Duration) *http.Client {
	c, _ := New(Options{Timeout: timeout})
	return c
}

// New builds an http.Client with a dedicated transport configured from opts.
func New(opts Options) (*http.Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	transport := &http.Transport{
		MaxIdleConns:          MaxIdleConns,
		MaxIdleConnsPerHost:   MaxIdleConnsPerHost,
		IdleConnTimeout:       IdleConnTimeout,
		TLSHandshakeTimeout:   TLSHandshakeTimeout,
		ExpectContinueTimeout: ExpectContinueTimeout,
	}
	if opts.ProxyURL != "" {
		u, err := url.Parse(opts.ProxyURL)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy url %q", opts.ProxyURL)
		}
		transport.Proxy = http.ProxyURL(u)
	}
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for intercepting proxies
	}
	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}, nil
}

// ProxyFromEnv returns the first non-empty proxy variable. HTTP_PROXY wins
// over HTTPS_PROXY; the single value is used for every request.
func ProxyFromEnv() string {
	for _, key := range []string{"HTTP_PROXY", "http_proxy", "HTTPS_PROXY", "https_proxy"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

// DoAndRead performs an HTTP request, reads the entire response body,
// ensures the body is closed, and returns the body content and the response object.
func DoAndRead(client *http.Client, req *http.Request) ([]byte, *http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.ContentLength > MaxResponseBytes {
		return nil, resp, fmt.Errorf("response body too large (limit %d bytes)", MaxResponseBytes)
	}

	limited := &io.LimitedReader{R: resp.Body, N: MaxResponseBytes + 1}
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, resp, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > MaxResponseBytes {
		return nil, resp, fmt.Errorf("response body too large (limit %d bytes)", MaxResponseBytes)
	}

	return body, resp, nil
}
