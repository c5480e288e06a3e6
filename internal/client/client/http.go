package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/hoagie/internal/logging"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 4 << 20
)

// HTTPClient is the JSON REST implementation of Client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	headers http.Header
	log     logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient uses a copy of hc for requests. The copy's Timeout is set
// to the configured request timeout; hc itself is not modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		cp := *hc
		cp.Timeout = c.http.Timeout
		c.http = &cp
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		c.log = l
	}
}

// NewHTTPClient builds a client rooted at baseURL. Every request carries
// Content-Type and Accept set to application/json and fails after timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		headers: http.Header{
			"Content-Type": []string{"application/json"},
			"Accept":       []string{"application/json"},
		},
		log: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "http")
	return c
}

// call describes one backend request. fallback is the message surfaced when
// the server does not provide one.
type call struct {
	op       string
	method   string
	path     string
	query    url.Values
	body     any
	fallback string
}

func (c *HTTPClient) do(ctx context.Context, req call, out any) error {
	var body io.Reader
	if req.body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(req.body); err != nil {
			return fmt.Errorf("%s: encode request: %w", req.op, err)
		}
		body = buf
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", req.op, err)
	}
	httpReq.Header = c.headers.Clone()
	requestID := uuid.NewString()
	httpReq.Header.Set(requestIDHeader, requestID)

	log := c.log.With("op", req.op, "method", req.method, "path", req.path, "request_id", requestID)
	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn(ctx, "request failed", "error", err, "duration", time.Since(start))
		return transportError(req.op, req.fallback)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn(ctx, "reading response failed", "status", resp.StatusCode, "error", err)
		return transportError(req.op, req.fallback)
	}
	log.Debug(ctx, "request done", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn(ctx, "api error", "status", resp.StatusCode, "body", strings.TrimSpace(string(payload)))
		return statusError(req.op, req.fallback, resp.StatusCode, payload)
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		log.Warn(ctx, "decoding response failed", "error", err)
		return decodeError(req.op, req.fallback, resp.StatusCode)
	}
	return nil
}

// segment escapes one path element.
func segment(s string) string {
	return url.PathEscape(s)
}
