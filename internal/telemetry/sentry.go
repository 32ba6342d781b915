// Package telemetry wires optional Sentry error reporting into the vendor
// clients.
package telemetry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/trophyline/gametrack-go/internal/types"
)

// Init initializes Sentry from a DSN and optional custom options. Errors are
// logged, never fatal: a client must still work without telemetry.
func Init(dsn string, opts *sentry.ClientOptions, log types.Logger) {
	if dsn == "" && opts == nil {
		return
	}

	sentryOpts := sentry.ClientOptions{}
	if opts != nil {
		sentryOpts = *opts
	}
	if dsn != "" {
		sentryOpts.Dsn = dsn
	}
	if sentryOpts.Environment == "" {
		sentryOpts.Environment = "production"
	}

	if err := sentry.Init(sentryOpts); err != nil && log != nil {
		log.Error("Failed to initialize Sentry", "error", err)
	}
}

// Capture reports err tagged with the vendor and operation that produced it.
func Capture(ctx context.Context, err error, vendor, operation string) {
	if err == nil {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("vendor", vendor)
		scope.SetTag("operation", operation)
		hub.CaptureException(err)
	})
}

// Flush drains pending events; call from client Close.
func Flush() {
	sentry.Flush(2 * time.Second)
}
