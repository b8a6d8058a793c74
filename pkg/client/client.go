// Package client is the Go SDK for the GeoCluster-Insight HTTP API. It
// wraps the fetch-geo-data and health endpoints with retries, backoff and
// typed errors, so callers never touch raw HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/GeoCluster-Insight/pkg/types/geodata"
)

// Version of the SDK, sent in the default User-Agent.
const Version = "0.1.0"

// Logger is the minimal logging interface the SDK depends on. The zero
// configuration discards all output.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client talks to one GeoCluster-Insight server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// APIError is an error response decoded from the server.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("geocluster: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

// IsNoData reports whether the server found no GEO datasets for the query.
func (e *APIError) IsNoData() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether the server throttled the request.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsServerError reports whether the failure was server-side.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// NewClient constructs a Client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("client: baseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid baseURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: baseURL scheme must be http or https")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 120 * time.Second},
		userAgent:    fmt.Sprintf("geocluster-go-sdk/%s", Version),
		logger:       noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchGeoData resolves the request's PMIDs, clusters the linked GEO
// datasets and returns the full result including the visualization graph.
// A query matching no datasets returns an *APIError for which IsNoData is
// true.
func (c *Client) FetchGeoData(ctx context.Context, req geodata.Request) (*geodata.Result, error) {
	if len(req.PMIDs) == 0 {
		return nil, fmt.Errorf("client: at least one PMID is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("client: email is required by NCBI usage policy")
	}
	var result geodata.Result
	if err := c.post(ctx, "/api/fetch-geo-data", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// HealthStatus is the body of the liveness probe.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Health returns the server's liveness information.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.get(ctx, "/healthz", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Ready reports nil when the server is accepting traffic.
func (c *Client) Ready(ctx context.Context) error {
	return c.get(ctx, "/readyz", nil)
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// do performs one HTTP call with retry on network and 5xx failures. 429
// responses are retried after the server's Retry-After hint; other 4xx
// responses are returned immediately as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshaling request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.backoff(attempt)
			c.logger.Debugf("retry %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var reader io.Reader
		if bodyBytes != nil {
			reader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("client: building request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Errorf("request failed: %v", err)
			lastErr = err
			continue
		}
		c.logger.Debugf("%s %s %d (%v)", method, path, resp.StatusCode, time.Since(start))

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("client: reading response body: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.retryMax {
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				c.logger.Infof("rate limited, retrying after %ds", seconds)
				select {
				case <-time.After(time.Duration(seconds) * time.Second):
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		if resp.StatusCode >= 400 {
			apiErr := &APIError{StatusCode: resp.StatusCode}
			var eb geodata.ErrorBody
			if json.Unmarshal(respBody, &eb) == nil && eb.Code != "" {
				apiErr.Code = eb.Code
				apiErr.Message = eb.Message
				apiErr.Detail = eb.Detail
			} else {
				apiErr.Message = strings.TrimSpace(string(respBody))
			}
			lastErr = apiErr
			if apiErr.IsServerError() {
				continue
			}
			return apiErr
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("client: decoding response: %w", err)
			}
		}
		return nil
	}
	return lastErr
}

// backoff is exponential from retryWaitMin, capped at retryWaitMax, with up
// to 25% jitter.
func (c *Client) backoff(attempt int) time.Duration {
	d := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if d > c.retryWaitMax {
		d = c.retryWaitMax
	}
	return d + time.Duration(rand.Int63n(int64(d/4+1)))
}
