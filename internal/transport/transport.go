package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/trophyline/gametrack-go/internal/types"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// Transport executes HTTP calls against a vendor API with bounded
// exponential backoff on transient failures.
type Transport struct {
	baseURL     string
	httpClient  *http.Client
	retryClient *retryablehttp.Client
	logger      types.Logger
	hooks       *types.Hooks
	limiter     types.RateLimiter

	// headerMu guards headers: auth token rotation writes the map while
	// in-flight requests read it.
	headerMu sync.RWMutex
	headers  map[string]string
}

// Options for the transport
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Headers     map[string]string
	RetryConfig *types.RetryConfig
	Logger      types.Logger
	Hooks       *types.Hooks
	RateLimiter types.RateLimiter
}

// Response is the raw result of a successful (2xx) call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NoContent reports whether the response carried no body.
func (r *Response) NoContent() bool {
	return r.StatusCode == http.StatusNoContent || len(r.Body) == 0
}

// New creates a new transport
func New(opts *Options) *Transport {
	if opts == nil {
		opts = &Options{}
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: types.DefaultTimeout,
		}
	}

	// Create retry client if configured
	var retryClient *retryablehttp.Client
	if opts.RetryConfig != nil {
		cfg := opts.RetryConfig
		retryClient = retryablehttp.NewClient()
		retryClient.HTTPClient = opts.HTTPClient
		retryClient.RetryMax = cfg.MaxRetries
		retryClient.RetryWaitMin = cfg.BaseDelay
		retryClient.RetryWaitMax = cfg.MaxDelay
		retryClient.CheckRetry = checkRetry
		retryClient.Backoff = backoff(cfg)
		// Hand the final 429/5xx response back so its own status
		// semantics decide how the error surfaces.
		retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

		if opts.Logger != nil {
			retryClient.Logger = &retryLogger{logger: opts.Logger}
		} else {
			retryClient.Logger = nil
		}
	}

	headers := map[string]string{
		"Accept":     contentTypeJSON,
		"User-Agent": types.UserAgent,
	}
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &Transport{
		baseURL:     opts.BaseURL,
		httpClient:  opts.HTTPClient,
		retryClient: retryClient,
		headers:     headers,
		logger:      opts.Logger,
		hooks:       opts.Hooks,
		limiter:     opts.RateLimiter,
	}
}

// SetHeader sets a default header sent on every request (e.g. a bearer
// token). Safe to call while requests are in flight.
func (t *Transport) SetHeader(key, value string) {
	t.headerMu.Lock()
	defer t.headerMu.Unlock()
	t.headers[key] = value
}

// Get issues a GET request with optional query parameters.
func (t *Transport) Get(ctx context.Context, rawURL string, query url.Values) (*Response, error) {
	return t.GetWithHeaders(ctx, rawURL, query, nil)
}

// GetWithHeaders issues a GET request with per-request headers, for callers
// whose auth material rotates between calls.
func (t *Transport) GetWithHeaders(ctx context.Context, rawURL string, query url.Values, headers map[string]string) (*Response, error) {
	u := t.resolveURL(rawURL)
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u = u + sep + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return t.do(ctx, req)
}

// PostJSON issues a POST request with a JSON-encoded payload.
func (t *Transport) PostJSON(ctx context.Context, rawURL string, payload interface{}) (*Response, error) {
	return t.PostJSONWithHeaders(ctx, rawURL, payload, nil)
}

// PostJSONWithHeaders issues a POST request with per-request headers.
func (t *Transport) PostJSONWithHeaders(ctx context.Context, rawURL string, payload interface{}, headers map[string]string) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.resolveURL(rawURL), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return t.do(ctx, req)
}

// PostForm issues a POST request with a form-encoded body.
func (t *Transport) PostForm(ctx context.Context, rawURL string, form url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.resolveURL(rawURL), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", contentTypeForm)
	return t.do(ctx, req)
}

// resolveURL prefixes relative paths with the configured base URL.
func (t *Transport) resolveURL(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	return t.baseURL + rawURL
}

// do executes the request, retrying transient failures when configured.
func (t *Transport) do(ctx context.Context, req *http.Request) (*Response, error) {
	t.headerMu.RLock()
	for k, v := range t.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	t.headerMu.RUnlock()

	// Correlation ID ties log lines and hook callbacks to one logical call
	// across its retries.
	requestID := uuid.New().String()
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limiter")
		}
	}

	if t.hooks != nil && t.hooks.OnRequest != nil {
		t.hooks.OnRequest(ctx, req)
	}

	if t.logger != nil {
		t.logger.Debug("request", "method", req.Method, "url", req.URL.String(), "request_id", requestID)
	}

	start := time.Now()
	resp, err := t.send(req)
	duration := time.Since(start)

	if err != nil {
		if t.hooks != nil && t.hooks.OnError != nil {
			t.hooks.OnError(ctx, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if t.hooks != nil && t.hooks.OnResponse != nil {
		t.hooks.OnResponse(ctx, resp, duration)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if t.logger != nil {
		t.logger.Debug("response", "status", resp.StatusCode, "duration", duration, "size", len(body), "request_id", requestID)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := t.handleHTTPError(resp.StatusCode, body)
		if t.hooks != nil && t.hooks.OnError != nil {
			t.hooks.OnError(ctx, err)
		}
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// send executes the HTTP request with retry if configured
func (t *Transport) send(req *http.Request) (*http.Response, error) {
	if t.retryClient != nil {
		retryReq, err := retryablehttp.FromRequest(req)
		if err != nil {
			return nil, err
		}
		return t.retryClient.Do(retryReq)
	}
	return t.httpClient.Do(req)
}

// checkRetry retries exactly 429, 5xx and connection-level failures.
// Other 4xx statuses indicate caller or auth errors, not transient load.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return true, nil
	}
	return false, nil
}

// backoff doubles the delay on each retry, capped at MaxDelay, then scales
// it by a random factor in [1-j, 1+j] so concurrent clients hitting the
// same rate-limited endpoint do not retry in lockstep.
//
// A vendor-supplied Retry-After header is not consulted.
func backoff(cfg *types.RetryConfig) retryablehttp.Backoff {
	return func(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
		delay := unjitteredDelay(cfg, attemptNum)
		jitter := 1 - cfg.JitterFactor + 2*cfg.JitterFactor*rand.Float64()
		return time.Duration(float64(delay) * jitter)
	}
}

// unjitteredDelay returns BaseDelay doubled attemptNum+1 times, capped at
// MaxDelay. attemptNum is zero-based: the delay before the first retry is
// BaseDelay*2.
func unjitteredDelay(cfg *types.RetryConfig, attemptNum int) time.Duration {
	delay := cfg.BaseDelay
	for i := 0; i <= attemptNum; i++ {
		delay *= 2
		if delay >= cfg.MaxDelay {
			return cfg.MaxDelay
		}
	}
	return delay
}

// handleHTTPError maps a non-success status to a typed error carrying the
// raw body for diagnosis.
func (t *Transport) handleHTTPError(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &types.APIError{
			Code:       "UNAUTHORIZED",
			Message:    fmt.Sprintf("request rejected with status %d", statusCode),
			StatusCode: statusCode,
			RawBody:    string(body),
			Err:        types.ErrNotAuthenticated,
		}
	case http.StatusNotFound:
		return &types.APIError{
			Code:       "NOT_FOUND",
			Message:    "resource not found",
			StatusCode: statusCode,
			RawBody:    string(body),
			Err:        types.ErrNotFound,
		}
	case http.StatusTooManyRequests:
		return &types.APIError{
			Code:       "RATE_LIMITED",
			Message:    "rate limited after retries exhausted",
			StatusCode: statusCode,
			RawBody:    string(body),
			Err:        types.ErrRateLimited,
		}
	default:
		if statusCode >= 500 {
			msg := fmt.Sprintf("server error: %d", statusCode)
			if desc := httpStatusDescription(statusCode); desc != "" {
				msg = fmt.Sprintf("server error: %d (%s)", statusCode, desc)
			}
			return &types.APIError{
				Code:       "SERVER_ERROR",
				Message:    msg,
				StatusCode: statusCode,
				RawBody:    string(body),
				Err:        types.ErrServerError,
			}
		}
		return &types.APIError{
			Code:       "HTTP_ERROR",
			Message:    fmt.Sprintf("HTTP error: %d", statusCode),
			StatusCode: statusCode,
			RawBody:    string(body),
		}
	}
}

// httpStatusDescription returns a human-readable description for common HTTP
// status codes, including the CDN-specific 5xx range vendors sit behind.
func httpStatusDescription(statusCode int) string {
	descriptions := map[int]string{
		500: "Internal Server Error",
		501: "Not Implemented",
		502: "Bad Gateway",
		503: "Service Unavailable",
		504: "Gateway Timeout",
		520: "Web Server Error",
		521: "Web Server Is Down",
		522: "Connection Timed Out",
		523: "Origin Is Unreachable",
		524: "A Timeout Occurred",
	}
	return descriptions[statusCode]
}

// retryLogger adapts our logger to retryablehttp
type retryLogger struct {
	logger types.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
