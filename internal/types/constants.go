package types

import (
	"errors"
	"time"
)

const (
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// UserAgent is the user agent string sent on every request
	UserAgent = "gametrack-go/1.0.0"
)

// Common errors
var (
	// ErrNotAuthenticated is returned when authentication is required
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired is returned when the stored session has expired
	ErrSessionExpired = errors.New("session expired")

	// ErrRateLimited is returned when the vendor rate limits us
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout is returned on timeout
	ErrTimeout = errors.New("request timeout")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrServerError is returned for vendor server errors
	ErrServerError = errors.New("server error")

	// ErrNoContent is returned when a response body was expected but absent
	ErrNoContent = errors.New("content expected but absent")
)
