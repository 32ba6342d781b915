// Package retroachievements is a typed client for the RetroAchievements Web
// API and its emulator-facing Connect API.
package retroachievements

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/trophyline/gametrack-go/internal/telemetry"
	"github.com/trophyline/gametrack-go/internal/transport"
	internalTypes "github.com/trophyline/gametrack-go/internal/types"
)

// DefaultBaseURL is the Web API origin.
const DefaultBaseURL = "https://retroachievements.org/API"

const (
	pathUserProfile               = "/API_GetUserProfile.php"
	pathUserRecentlyPlayed        = "/API_GetUserRecentlyPlayedGames.php"
	pathGameInfoAndUserProgress   = "/API_GetGameInfoAndUserProgress.php"
	pathUserSummary               = "/API_GetUserSummary.php"
	pathGameList                  = "/API_GetGameList.php"
	pathAchievementsEarnedBetween = "/API_GetAchievementsEarnedBetween.php"
)

// Client is a RetroAchievements Web API client. Safe for concurrent use.
type Client struct {
	apiKey    string
	transport *transport.Transport
	options   *ClientOptions
}

// ClientOptions configures the client.
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

	// SentryDSN enables Sentry error reporting when set
	SentryDSN string
}

// NewClient creates a Web API client. The key comes from the user's
// RetroAchievements control panel.
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
	telemetry.Init(opts.SentryDSN, nil, opts.Logger)

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
	}, nil
}

// get performs an authenticated Web API request. The key travels in the y
// query parameter.
func (c *Client) get(ctx context.Context, path string, params url.Values, operation string) (*transport.Response, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("y", c.apiKey)

	resp, err := c.transport.Get(ctx, path, params)
	if err != nil {
		telemetry.Capture(ctx, err, "retroachievements", operation)
		return nil, err
	}
	return resp, nil
}

// GetUserProfile retrieves a user's public profile.
func (c *Client) GetUserProfile(ctx context.Context, username string) (*UserProfile, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}

	resp, err := c.get(ctx, pathUserProfile, url.Values{"u": {username}}, "GetUserProfile")
	if err != nil {
		return nil, err
	}
	return transport.DecodeObject[UserProfile](resp)
}

// GetUserRecentlyPlayedGames retrieves a user's recently played games. Count
// is capped server-side at 50; 0 uses the server default.
func (c *Client) GetUserRecentlyPlayedGames(ctx context.Context, username string, count, offset int) ([]RecentlyPlayedGame, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}

	params := url.Values{"u": {username}}
	if count > 0 {
		params.Set("c", strconv.Itoa(count))
	}
	if offset > 0 {
		params.Set("o", strconv.Itoa(offset))
	}

	resp, err := c.get(ctx, pathUserRecentlyPlayed, params, "GetUserRecentlyPlayedGames")
	if err != nil {
		return nil, err
	}
	return transport.DecodeList[RecentlyPlayedGame](resp)
}

// GetGameInfoAndUserProgress retrieves a game's metadata together with the
// user's earn state for each achievement.
func (c *Client) GetGameInfoAndUserProgress(ctx context.Context, username string, gameID int) (*GameProgress, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if gameID <= 0 {
		return nil, errors.New("gameID must be positive")
	}

	params := url.Values{"u": {username}, "g": {strconv.Itoa(gameID)}}
	resp, err := c.get(ctx, pathGameInfoAndUserProgress, params, "GetGameInfoAndUserProgress")
	if err != nil {
		return nil, err
	}

	progress, err := transport.DecodeObject[GameProgress](resp)
	if err != nil {
		return nil, err
	}
	if progress.Achievements == nil {
		progress.Achievements = map[string]GameAchievement{}
	}
	return progress, nil
}

// GetUserSummary retrieves a user's points, rank, and recent activity.
// recentGames controls how many recently played entries to include.
func (c *Client) GetUserSummary(ctx context.Context, username string, recentGames int) (*UserSummary, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}

	params := url.Values{"u": {username}}
	if recentGames > 0 {
		params.Set("g", strconv.Itoa(recentGames))
	}

	resp, err := c.get(ctx, pathUserSummary, params, "GetUserSummary")
	if err != nil {
		return nil, err
	}

	summary, err := transport.DecodeObject[UserSummary](resp)
	if err != nil {
		return nil, err
	}
	if summary.RecentlyPlayed == nil {
		summary.RecentlyPlayed = []RecentlyPlayedGame{}
	}
	return summary, nil
}

// GetGameList retrieves the game catalogue for a console. When
// achievementsOnly is set, games without published achievements are skipped.
func (c *Client) GetGameList(ctx context.Context, consoleID int, achievementsOnly, includeHashes bool) ([]GameListEntry, error) {
	if consoleID <= 0 {
		return nil, errors.New("consoleID must be positive")
	}

	params := url.Values{"i": {strconv.Itoa(consoleID)}}
	if achievementsOnly {
		params.Set("f", "1")
	}
	if includeHashes {
		params.Set("h", "1")
	}

	resp, err := c.get(ctx, pathGameList, params, "GetGameList")
	if err != nil {
		return nil, err
	}
	return transport.DecodeList[GameListEntry](resp)
}

// GetAchievementsEarnedBetween retrieves the achievements a user earned in
// the given time window.
func (c *Client) GetAchievementsEarnedBetween(ctx context.Context, username string, from, to time.Time) ([]EarnedAchievement, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if to.Before(from) {
		return nil, errors.New("to must not precede from")
	}

	params := url.Values{
		"u": {username},
		"f": {strconv.FormatInt(from.Unix(), 10)},
		"t": {strconv.FormatInt(to.Unix(), 10)},
	}

	resp, err := c.get(ctx, pathAchievementsEarnedBetween, params, "GetAchievementsEarnedBetween")
	if err != nil {
		return nil, err
	}
	return transport.DecodeList[EarnedAchievement](resp)
}
