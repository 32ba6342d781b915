// Package xbl is a typed client for the Xbox Live web APIs.
//
// Construction requires a Microsoft OAuth access token, which the client
// exchanges for an XSTS session. Sessions lapse after ~55 minutes; configure
// RefreshToken to let the client re-run the exchange on demand, otherwise
// expired sessions surface as errors demanding re-authentication.
package xbl

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"github.com/trophyline/gametrack-go/internal/telemetry"
	"github.com/trophyline/gametrack-go/internal/transport"
	internalTypes "github.com/trophyline/gametrack-go/internal/types"
	"github.com/trophyline/gametrack-go/internal/xblauth"
)

const (
	// DefaultProfileURL is the profile service origin
	DefaultProfileURL = "https://profile.xboxlive.com"

	// DefaultTitleHubURL is the title hub service origin
	DefaultTitleHubURL = "https://titlehub.xboxlive.com"

	// DefaultAchievementsURL is the achievements service origin
	DefaultAchievementsURL = "https://achievements.xboxlive.com"

	// DefaultStatsURL is the user stats service origin
	DefaultStatsURL = "https://userstats.xboxlive.com"
)

// Client is an Xbox Live API client. Safe for concurrent use; session
// rotation is serialized internally.
type Client struct {
	transport *transport.Transport
	options   *ClientOptions
	auth      *xblauth.Service

	mu      sync.Mutex
	session *xblauth.Session
}

// ClientOptions configures the client
type ClientOptions struct {
	// ProfileURL, TitleHubURL, AchievementsURL and StatsURL override the
	// fixed Xbox Live service origins
	ProfileURL      string
	TitleHubURL     string
	AchievementsURL string
	StatsURL        string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// RetryConfig configures retry behavior; nil disables retries
	RetryConfig *internalTypes.RetryConfig

	// Logger for debug logging
	Logger internalTypes.Logger

	// Hooks for observability
	Hooks *internalTypes.Hooks

	// RateLimiter gates outbound requests
	RateLimiter internalTypes.RateLimiter

	// RefreshToken supplies a fresh Microsoft access token when the
	// session has expired. Without it, expired sessions fail fast.
	RefreshToken func(ctx context.Context) (string, error)

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions

	// authService overrides the exchange service. Used by tests.
	authService *xblauth.Service
}

// NewClient creates an Xbox Live client and runs the token exchange.
func NewClient(ctx context.Context, msAccessToken string, opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	telemetry.Init(opts.SentryDSN, opts.SentryOptions, opts.Logger)

	if opts.ProfileURL == "" {
		opts.ProfileURL = DefaultProfileURL
	}
	if opts.TitleHubURL == "" {
		opts.TitleHubURL = DefaultTitleHubURL
	}
	if opts.AchievementsURL == "" {
		opts.AchievementsURL = DefaultAchievementsURL
	}
	if opts.StatsURL == "" {
		opts.StatsURL = DefaultStatsURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: internalTypes.DefaultTimeout}
	}
	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	trans := transport.New(&transport.Options{
		HTTPClient:  opts.HTTPClient,
		RetryConfig: opts.RetryConfig,
		Logger:      opts.Logger,
		Hooks:       opts.Hooks,
		RateLimiter: opts.RateLimiter,
	})

	auth := opts.authService
	if auth == nil {
		auth = xblauth.NewService(opts.HTTPClient, opts.Logger)
	}

	c := &Client{
		transport: trans,
		options:   opts,
		auth:      auth,
	}

	if err := c.Authenticate(ctx, msAccessToken); err != nil {
		return nil, err
	}

	return c, nil
}

// Authenticate runs the token exchange and installs the resulting session.
// Concurrent calls are serialized so two exchanges never race to overwrite
// each other's session.
func (c *Client) Authenticate(ctx context.Context, msAccessToken string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticateLocked(ctx, msAccessToken)
}

func (c *Client) authenticateLocked(ctx context.Context, msAccessToken string) error {
	session, err := c.auth.Exchange(ctx, msAccessToken)
	if err != nil {
		c.capture(ctx, err, "Authenticate")
		return err
	}

	c.session = session

	if c.options.Logger != nil {
		c.options.Logger.Info("Xbox Live authentication successful",
			"xuid", session.XUID, "expiresAt", session.ExpiresAt)
	}

	return nil
}

// XUID returns the authenticated user's Xbox User ID.
func (c *Client) XUID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.XUID
}

// Session returns a copy of the current session.
func (c *Client) Session() xblauth.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return xblauth.Session{}
	}
	return *c.session
}

// ensureSession returns a valid session, rotating an expired one through the
// refresh callback. The expiry check happens locally, before any network
// call. Rotation holds the mutex so concurrent expired calls produce one
// exchange, not several.
func (c *Client) ensureSession(ctx context.Context) (*xblauth.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Valid() {
		return c.session, nil
	}

	if c.options.RefreshToken == nil {
		return nil, &internalTypes.APIError{
			Code:    "XBL_SESSION_EXPIRED",
			Message: "the Xbox Live session has expired; re-authenticate with a fresh Microsoft access token or configure RefreshToken",
			Err:     internalTypes.ErrSessionExpired,
		}
	}

	msToken, err := c.options.RefreshToken(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "refresh callback failed")
	}

	if err := c.authenticateLocked(ctx, msToken); err != nil {
		return nil, err
	}

	return c.session, nil
}

// headers builds the per-request auth headers for a given contract version.
func headers(session *xblauth.Session, contractVersion string) map[string]string {
	return map[string]string{
		"Authorization":          session.AuthorizationHeader(),
		"x-xbl-contract-version": contractVersion,
		"Accept-Language":        "en-US",
	}
}

// Close flushes any pending Sentry events.
func (c *Client) Close() {
	telemetry.Flush()
}

func (c *Client) capture(ctx context.Context, err error, operation string) {
	if c.options.SentryDSN != "" || c.options.SentryOptions != nil {
		telemetry.Capture(ctx, err, "xbl", operation)
	}
}
