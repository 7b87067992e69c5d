package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/predictdash/predict-relay/internal/metrics"
	"github.com/predictdash/predict-relay/internal/version"
)

// APIError represents an error response from the upstream API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// Request is a call to forward upstream.
type Request struct {
	Method        string
	Path          string // relative to the base URL, e.g. "/markets/12"
	RawQuery      string // forwarded verbatim
	Body          []byte
	Authorization string // full header value, e.g. "Bearer <jwt>"
}

// Response is the upstream answer, whatever its status.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err converts a non-2xx response into an *APIError, or nil.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return &APIError{
		StatusCode: r.StatusCode,
		Message:    errorMessage(r.StatusCode, r.Body),
		Body:       r.Body,
	}
}

// Forward sends req upstream and returns the response for any status.
// An error is returned only when no response was received.
// GET requests are retried on 5xx/429; other methods are sent exactly once.
func (c *Client) Forward(ctx context.Context, req Request) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	if req.Method == http.MethodGet {
		return c.doWithRetry(ctx, req)
	}
	return c.doRequest(ctx, req)
}

// doRequest performs a single HTTP request.
func (c *Client) doRequest(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	fullURL := c.baseURL + req.Path
	if req.RawQuery != "" {
		fullURL += "?" + req.RawQuery
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		httpReq.Header.Set("x-api-key", c.apiKey)
	}
	if req.Authorization != "" {
		httpReq.Header.Set("Authorization", req.Authorization)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.ObserveUpstream(req.Method, 0, time.Since(start))
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	metrics.ObserveUpstream(req.Method, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}

// doWithRetry performs a request with exponential backoff retry.
// When retries run out on a retryable status, the last response is returned
// so callers still see the upstream status and body.
func (c *Client) doWithRetry(ctx context.Context, req Request) (*Response, error) {
	var last *Response
	attempt := 0

	op := func() error {
		attempt++
		resp, err := c.doRequest(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		last = resp
		if apiErr, ok := resp.Err().(*APIError); ok && apiErr.IsRetryable() {
			return apiErr
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Debug("retrying request",
			"attempt", attempt,
			"backoff", wait,
			"path", req.Path,
			"err", err,
		)
	}

	err := backoff.RetryNotify(op, c.newBackOff(ctx), notify)
	if err == nil {
		return last, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && last != nil && ctx.Err() == nil {
		return last, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return nil, fmt.Errorf("%w: %w", ctxErr, err)
	}
	return nil, err
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0.5
	b.MaxElapsedTime = 0
	b.Reset()

	retries := c.maxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// call forwards a request and decodes a successful envelope's data into result.
func (c *Client) call(ctx context.Context, req Request, result any) error {
	resp, err := c.Forward(ctx, req)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}

	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if !env.Success {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, resp.Body),
			Body:       resp.Body,
		}
	}
	if result == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, result); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	return nil
}

// get performs a GET request with retries.
func (c *Client) get(ctx context.Context, path string, query url.Values, authorization string, result any) error {
	return c.call(ctx, Request{
		Method:        http.MethodGet,
		Path:          path,
		RawQuery:      query.Encode(),
		Authorization: authorization,
	}, result)
}

// post performs a single POST request with a JSON body.
func (c *Client) post(ctx context.Context, path string, payload any, authorization string, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.call(ctx, Request{
		Method:        http.MethodPost,
		Path:          path,
		Body:          body,
		Authorization: authorization,
	}, result)
}

// errorMessage extracts the upstream message, falling back to the status text.
func errorMessage(status int, body []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		switch e := env.Error.(type) {
		case string:
			if e != "" {
				return e
			}
		case map[string]any:
			if m, ok := e["message"].(string); ok && m != "" {
				return m
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}
