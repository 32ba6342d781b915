// Package openxbl is a typed client for the OpenXBL (xbl.io) API, an
// API-key alternative to the first-party Xbox Live endpoints that skips the
// Microsoft OAuth and XSTS exchanges entirely.
package openxbl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/trophyline/gametrack-go/internal/transport"
	internalTypes "github.com/trophyline/gametrack-go/internal/types"
)

// DefaultBaseURL is the OpenXBL API origin
const DefaultBaseURL = "https://xbl.io/api/v2"

// Client is an OpenXBL API client. Safe for concurrent use.
type Client struct {
	transport *transport.Transport
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
}

// NewClient creates an OpenXBL client. Obtain an API key at
// https://xbl.io/console.
func NewClient(apiKey string, opts *ClientOptions) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("apiKey cannot be empty")
	}
	if opts == nil {
		opts = &ClientOptions{}
	}
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
	trans.SetHeader("X-Authorization", apiKey)

	return &Client{transport: trans}, nil
}

// Profile mirrors the first-party profile settings shape OpenXBL proxies.
type Profile struct {
	ID       string `json:"id"`
	Settings []struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"settings"`
}

type accountEnvelope struct {
	ProfileUsers []Profile `json:"profileUsers"`
}

// PlayerAchievement is one achievement record from the achievements proxy.
type PlayerAchievement struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ProgressState string `json:"progressState"`
	Progression   struct {
		TimeUnlocked *time.Time `json:"timeUnlocked,omitempty"`
	} `json:"progression"`
}

type achievementsEnvelope struct {
	Achievements []PlayerAchievement `json:"achievements"`
}

// GetAccount retrieves the profile of the account owning the API key.
func (c *Client) GetAccount(ctx context.Context) ([]Profile, error) {
	resp, err := c.transport.Get(ctx, "/account", nil)
	if err != nil {
		return nil, err
	}

	envelope, err := transport.DecodeObject[accountEnvelope](resp)
	if err != nil {
		return nil, err
	}
	if envelope.ProfileUsers == nil {
		envelope.ProfileUsers = []Profile{}
	}
	return envelope.ProfileUsers, nil
}

// GetPlayer retrieves another player's profile by XUID.
func (c *Client) GetPlayer(ctx context.Context, xuid string) ([]Profile, error) {
	if xuid == "" {
		return nil, errors.New("xuid cannot be empty")
	}

	resp, err := c.transport.Get(ctx, "/account/"+url.PathEscape(xuid), nil)
	if err != nil {
		return nil, err
	}

	envelope, err := transport.DecodeObject[accountEnvelope](resp)
	if err != nil {
		return nil, err
	}
	return envelope.ProfileUsers, nil
}

// GetPlayerTitleAchievements retrieves a player's achievements for a title.
func (c *Client) GetPlayerTitleAchievements(ctx context.Context, xuid, titleID string) ([]PlayerAchievement, error) {
	if xuid == "" || titleID == "" {
		return nil, errors.New("xuid and titleID cannot be empty")
	}

	path := fmt.Sprintf("/achievements/player/%s/%s", url.PathEscape(xuid), url.PathEscape(titleID))
	resp, err := c.transport.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	envelope, err := transport.DecodeObject[achievementsEnvelope](resp)
	if err != nil {
		return nil, err
	}
	if envelope.Achievements == nil {
		envelope.Achievements = []PlayerAchievement{}
	}
	return envelope.Achievements, nil
}
