// Package http provides the outbound HTTP plumbing shared by the image API
// and catalog clients: an instrumented client, JSON request helpers and
// upstream error parsing.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultUserAgent is sent when the config names none
const DefaultUserAgent = "book-cover-gateway/1.0"

// HTTPClient wraps http.Client with default headers and request metrics.
// It sends every request exactly once.
type HTTPClient struct {
	client       *http.Client
	config       HTTPClientConfig
	metrics      *ClientMetrics
	requestCount int64
	successCount int64
	errorCount   int64
	totalLatency int64 // Nanoseconds
	mu           sync.RWMutex
}

// HTTPClientConfig configures the HTTP client
type HTTPClientConfig struct {
	Timeout   time.Duration     `json:"timeout,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	// Transport overrides the default transport (tests, shared pools)
	Transport http.RoundTripper `json:"-"`
}

// ClientMetrics tracks HTTP client performance
type ClientMetrics struct {
	TotalRequests   int64         `json:"total_requests"`
	SuccessfulReqs  int64         `json:"successful_requests"`
	FailedReqs      int64         `json:"failed_requests"`
	AvgLatency      time.Duration `json:"avg_latency"`
	LastRequestTime time.Time     `json:"last_request_time"`
	ResponsesByCode map[int]int64 `json:"responses_by_code"`
}

// NewHTTPClient creates a new HTTP client
func NewHTTPClient(config HTTPClientConfig) *HTTPClient {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	headers := make(map[string]string, len(config.Headers)+1)
	for k, v := range config.Headers {
		headers[k] = v
	}
	if config.UserAgent != "" {
		headers["User-Agent"] = config.UserAgent
	} else {
		headers["User-Agent"] = DefaultUserAgent
	}
	config.Headers = headers

	return &HTTPClient{
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: config.Transport,
		},
		config:  config,
		metrics: &ClientMetrics{ResponsesByCode: make(map[int]int64)},
	}
}

// Do executes an HTTP request bound to ctx and records metrics.
// Non-2xx responses are returned as-is; callers decide what a failure is.
func (c *HTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	atomic.AddInt64(&c.requestCount, 1)

	for key, value := range c.config.Headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	resp, err := c.client.Do(req.WithContext(ctx))

	c.updateMetrics(resp, err, time.Since(startTime))

	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	return resp, nil
}

// DoJSON sends body as JSON with the given method
func (c *HTTPClient) DoJSON(ctx context.Context, method, url string, body interface{}, headers map[string]string) (*http.Response, error) {
	req, err := NewJSONRequest(method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create JSON request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(ctx, req)
}

// PostJSON sends a JSON POST request
func (c *HTTPClient) PostJSON(ctx context.Context, url string, body interface{}, headers map[string]string) (*http.Response, error) {
	return c.DoJSON(ctx, http.MethodPost, url, body, headers)
}

// DoWithFullResponse executes req and returns the drained body
func (c *HTTPClient) DoWithFullResponse(ctx context.Context, req *http.Request) ([]byte, *http.Response, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp, nil
}

// updateMetrics updates client metrics after a request
func (c *HTTPClient) updateMetrics(resp *http.Response, err error, latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.LastRequestTime = time.Now()

	if err != nil || resp == nil {
		atomic.AddInt64(&c.errorCount, 1)
	} else {
		atomic.AddInt64(&c.successCount, 1)
		c.metrics.ResponsesByCode[resp.StatusCode]++
	}

	atomic.AddInt64(&c.totalLatency, latency.Nanoseconds())
	if total := atomic.LoadInt64(&c.requestCount); total > 0 {
		c.metrics.AvgLatency = time.Duration(atomic.LoadInt64(&c.totalLatency) / total)
	}
}

// GetMetrics returns current client metrics
func (c *HTTPClient) GetMetrics() ClientMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	metrics := *c.metrics
	metrics.ResponsesByCode = make(map[int]int64, len(c.metrics.ResponsesByCode))
	for code, n := range c.metrics.ResponsesByCode {
		metrics.ResponsesByCode[code] = n
	}
	metrics.TotalRequests = atomic.LoadInt64(&c.requestCount)
	metrics.SuccessfulReqs = atomic.LoadInt64(&c.successCount)
	metrics.FailedReqs = atomic.LoadInt64(&c.errorCount)

	return metrics
}

// ResetMetrics resets all metrics
func (c *HTTPClient) ResetMetrics() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics = &ClientMetrics{ResponsesByCode: make(map[int]int64)}
	atomic.StoreInt64(&c.requestCount, 0)
	atomic.StoreInt64(&c.successCount, 0)
	atomic.StoreInt64(&c.errorCount, 0)
	atomic.StoreInt64(&c.totalLatency, 0)
}
