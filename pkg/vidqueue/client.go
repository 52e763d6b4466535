// Package vidqueue is a client for the REST API of the video download manager
// backend: queue, history, settings, download control and downloaded videos.
package vidqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samvad-hq/vidqueue-client/pkg/httpclient"
)

const (
	DefaultAPIPrefix = "/api"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "vidqueue-client"
)

// ErrNoBaseURL is returned by request methods of a client built without a BaseURL.
var ErrNoBaseURL = errors.New("vidqueue: base url is not configured")

// Options configures a Client. Zero values fall back to the package defaults.
type Options struct {
	// BaseURL is the scheme and host of the backend, e.g. http://localhost:8000.
	// Left empty, URL builders return server-relative paths and request
	// methods fail with ErrNoBaseURL.
	BaseURL    string
	APIPrefix  string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient httpclient.Client
	Logger     Logger
}

// Client issues one request per method against the backend API.
type Client struct {
	http      httpclient.Client
	host      string
	base      string
	userAgent string
	log       Logger
}

// New builds a Client from opts.
func New(opts Options) *Client {
	host := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")

	prefix := strings.TrimSpace(opts.APIPrefix)
	if prefix == "" {
		prefix = DefaultAPIPrefix
	}
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = ""
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = httpclient.NewRestyClient(timeout)
	}

	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = DefaultUserAgent
	}

	return &Client{
		http:      hc,
		host:      host,
		base:      host + prefix,
		userAgent: ua,
		log:       ensureLogger(opts.Logger),
	}
}

// BaseURL returns the resolved API root, host plus prefix.
func (c *Client) BaseURL() string { return c.base }

// request describes one API call.
type request struct {
	op       string
	method   string
	path     string
	payload  any
	fallback string
}

// call performs req and decodes the JSON response into an untyped value.
func (c *Client) call(ctx context.Context, req request) (any, error) {
	raw, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", req.op, err)
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, req request) ([]byte, error) {
	if c.host == "" {
		return nil, fmt.Errorf("%s: %w", req.op, ErrNoBaseURL)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": c.userAgent,
	}

	var body []byte
	if req.payload != nil {
		encoded, err := json.Marshal(req.payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", req.op, err)
		}
		body = encoded
		headers["Content-Type"] = "application/json"
	}

	url := c.base + req.path
	start := time.Now()
	resp, err := c.http.Do(ctx, req.method, url, headers, body)
	if err != nil {
		c.log.WarnObj("api request failed", "api_error", map[string]any{
			"op":     req.op,
			"method": req.method,
			"url":    url,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("%s: %w", req.op, err)
	}

	status := resp.StatusCode()
	c.log.DebugObj("api request completed", "api_request", map[string]any{
		"op":         req.op,
		"method":     req.method,
		"url":        url,
		"status":     status,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, newAPIError(req.op, status, resp.Body(), req.fallback)
	}
	return resp.Body(), nil
}
