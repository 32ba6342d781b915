// Package psn is a typed client for the PlayStation Network trophy API.
//
// Construction requires an NPSSO session cookie, which the client exchanges
// for a short-lived bearer token. The token is not refreshed automatically;
// call Authenticate again to rotate it.
package psn

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/trophyline/gametrack-go/internal/psnauth"
	"github.com/trophyline/gametrack-go/internal/telemetry"
	"github.com/trophyline/gametrack-go/internal/transport"
	internalTypes "github.com/trophyline/gametrack-go/internal/types"
)

const (
	// DefaultBaseURL is the PSN mobile API trophy origin
	DefaultBaseURL = "https://m.np.playstation.com/api/trophy/v1"

	// DefaultGraphQLURL is the PSN persisted-query GraphQL endpoint
	DefaultGraphQLURL = "https://m.np.playstation.com/api/graphql/v1/op"

	// DefaultProfileURL is the user profile API origin
	DefaultProfileURL = "https://m.np.playstation.com/api/userProfile/v1/internal/users"

	// ServiceNamePS4 scopes trophy queries to PS3/PS4/Vita titles
	ServiceNamePS4 = "trophy"

	// ServiceNamePS5 scopes trophy queries to PS5 titles
	ServiceNamePS5 = "trophy2"
)

// Client is a PSN trophy API client. Safe for concurrent use; Authenticate
// serializes token rotation internally.
type Client struct {
	transport  *transport.Transport
	options    *ClientOptions
	auth       *psnauth.Service
	graphqlURL string
	profileURL string

	mu        sync.Mutex
	token     *psnauth.Token
	expiresAt time.Time
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default trophy API base URL
	BaseURL string

	// GraphQLURL overrides the default GraphQL op endpoint
	GraphQLURL string

	// ProfileURL overrides the default user profile API base URL
	ProfileURL string

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

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions

	// authService overrides the exchange service. Used by tests.
	authService *psnauth.Service
}

// NewClient creates a PSN client and runs the NPSSO exchange.
func NewClient(ctx context.Context, npsso string, opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	telemetry.Init(opts.SentryDSN, opts.SentryOptions, opts.Logger)

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.GraphQLURL == "" {
		opts.GraphQLURL = DefaultGraphQLURL
	}
	if opts.ProfileURL == "" {
		opts.ProfileURL = DefaultProfileURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: internalTypes.DefaultTimeout}
	}
	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	trans := transport.New(&transport.Options{
		BaseURL:     opts.BaseURL,
		HTTPClient:  opts.HTTPClient,
		RetryConfig: opts.RetryConfig,
		Logger:      opts.Logger,
		Hooks:       opts.Hooks,
		RateLimiter: opts.RateLimiter,
	})

	auth := opts.authService
	if auth == nil {
		auth = psnauth.NewService(opts.HTTPClient, opts.Logger)
	}

	c := &Client{
		transport:  trans,
		options:    opts,
		auth:       auth,
		graphqlURL: opts.GraphQLURL,
		profileURL: opts.ProfileURL,
	}

	if err := c.Authenticate(ctx, npsso); err != nil {
		return nil, err
	}

	return c, nil
}

// NewClientWithToken creates a client around an already-obtained bearer
// token, skipping the NPSSO exchange.
func NewClientWithToken(accessToken string, opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.GraphQLURL == "" {
		opts.GraphQLURL = DefaultGraphQLURL
	}
	if opts.ProfileURL == "" {
		opts.ProfileURL = DefaultProfileURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: internalTypes.DefaultTimeout}
	}

	trans := transport.New(&transport.Options{
		BaseURL:     opts.BaseURL,
		HTTPClient:  opts.HTTPClient,
		RetryConfig: opts.RetryConfig,
		Logger:      opts.Logger,
		Hooks:       opts.Hooks,
		RateLimiter: opts.RateLimiter,
	})
	trans.SetHeader("Authorization", "Bearer "+accessToken)

	return &Client{
		transport:  trans,
		options:    opts,
		auth:       psnauth.NewService(opts.HTTPClient, opts.Logger),
		graphqlURL: opts.GraphQLURL,
		profileURL: opts.ProfileURL,
		token:      &psnauth.Token{AccessToken: accessToken},
	}, nil
}

// Authenticate runs the NPSSO exchange and installs the resulting bearer
// token. Concurrent calls are serialized; callers racing here would
// otherwise consume two single-use authorization codes for one rotation.
func (c *Client) Authenticate(ctx context.Context, npsso string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, err := c.auth.Exchange(ctx, npsso)
	if err != nil {
		c.capture(ctx, err, "Authenticate")
		return err
	}

	c.token = token
	c.expiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	c.transport.SetHeader("Authorization", "Bearer "+token.AccessToken)

	if c.options.Logger != nil {
		c.options.Logger.Info("PSN authentication successful", "expiresIn", token.ExpiresIn)
	}

	return nil
}

// TokenExpiresAt reports when the current bearer token lapses. Zero when the
// client was built from a raw token.
func (c *Client) TokenExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiresAt
}

// Close flushes any pending Sentry events.
func (c *Client) Close() {
	telemetry.Flush()
}

func (c *Client) capture(ctx context.Context, err error, operation string) {
	if c.options.SentryDSN != "" || c.options.SentryOptions != nil {
		telemetry.Capture(ctx, err, "psn", operation)
	}
}
