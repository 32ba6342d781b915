// Package steam is a typed client for the Steam Web API.
package steam

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/trophyline/gametrack-go/internal/telemetry"
	"github.com/trophyline/gametrack-go/internal/transport"
	internalTypes "github.com/trophyline/gametrack-go/internal/types"
)

const (
	// DefaultBaseURL is the Steam Web API origin
	DefaultBaseURL = "https://api.steampowered.com"

	ownedGamesPath          = "/IPlayerService/GetOwnedGames/v1/"
	recentlyPlayedPath      = "/IPlayerService/GetRecentlyPlayedGames/v1/"
	playerSummariesPath     = "/ISteamUser/GetPlayerSummaries/v2/"
	resolveVanityPath       = "/ISteamUser/ResolveVanityURL/v1/"
	playerAchievementsPath  = "/ISteamUserStats/GetPlayerAchievements/v1/"
	schemaForGamePath       = "/ISteamUserStats/GetSchemaForGame/v2/"
	globalAchievementsPath  = "/ISteamUserStats/GetGlobalAchievementPercentagesForApp/v2/"
)

// Client is a Steam Web API client. Safe for concurrent use.
type Client struct {
	apiKey    string
	transport *transport.Transport
	options   *ClientOptions
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

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
}

// NewClient creates a Steam client. The API key is supplied by the caller;
// obtain one at https://steamcommunity.com/dev/apikey.
func NewClient(apiKey string, opts *ClientOptions) *Client {
	if opts == nil {
		opts = &ClientOptions{}
	}

	telemetry.Init(opts.SentryDSN, opts.SentryOptions, opts.Logger)

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
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

	return &Client{
		apiKey:    apiKey,
		transport: trans,
		options:   opts,
	}
}

// Close flushes any pending Sentry events.
func (c *Client) Close() {
	telemetry.Flush()
}

// get issues a GET with the API key and format attached, reporting failures
// to Sentry when configured.
func (c *Client) get(ctx context.Context, operation, path string, params url.Values) (*transport.Response, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.apiKey)
	params.Set("format", "json")

	resp, err := c.transport.Get(ctx, path, params)
	if err != nil && (c.options.SentryDSN != "" || c.options.SentryOptions != nil) {
		telemetry.Capture(ctx, err, "steam", operation)
	}
	return resp, err
}
