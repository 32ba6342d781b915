package types

import (
	"context"
	"net/http"
	"time"
)

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RetryConfig configures retry behavior for the transport.
// Only 429, 5xx and connection-level failures are retried; every other
// non-success status is terminal on first occurrence.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int `json:"maxRetries"`

	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration `json:"baseDelay"`

	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration `json:"maxDelay"`

	// JitterFactor in [0,1] randomizes each delay by ±JitterFactor.
	JitterFactor float64 `json:"jitterFactor"`
}

// DefaultRetryConfig returns the retry defaults shared by the vendor clients.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:   3,
		BaseDelay:    1 * time.Second,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0.2,
	}
}

// Hooks provides lifecycle hooks for requests
type Hooks struct {
	OnRequest  func(ctx context.Context, req *http.Request)
	OnResponse func(ctx context.Context, resp *http.Response, duration time.Duration)
	OnError    func(ctx context.Context, err error)
}

// RateLimiter gates outbound requests. golang.org/x/time/rate satisfies it.
type RateLimiter interface {
	Wait(ctx context.Context) error
}
