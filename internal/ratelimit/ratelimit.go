// Package ratelimit provides a client-side request gate so callers stay
// under the per-key quotas the gaming vendors enforce.
package ratelimit

import (
	"golang.org/x/time/rate"
)

// New returns a limiter allowing requestsPerSecond sustained throughput with
// the given burst. The returned *rate.Limiter satisfies types.RateLimiter.
func New(requestsPerSecond float64, burst int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}
