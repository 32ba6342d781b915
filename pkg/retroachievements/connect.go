package retroachievements

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/trophyline/gametrack-go/internal/transport"
	internalTypes "github.com/trophyline/gametrack-go/internal/types"
)

// DefaultConnectURL is the emulator-facing Connect API endpoint.
const DefaultConnectURL = "https://retroachievements.org/dorequest.php"

// ConnectClient talks to the Connect API used by emulators: session login,
// play sessions, and achievement unlock submission. Unlike the Web API it
// authenticates with a connect token obtained from Login, not a Web API key.
type ConnectClient struct {
	connectURL string
	transport  *transport.Transport
	username   string
	token      string
}

// ConnectOptions configures the Connect client.
type ConnectOptions struct {
	// ConnectURL overrides the default endpoint
	ConnectURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// RetryConfig configures retry behavior; nil disables retries
	RetryConfig *internalTypes.RetryConfig

	// Logger for debug logging
	Logger internalTypes.Logger
}

// LoginResult is the session state returned by Login.
type LoginResult struct {
	User          string  `json:"User"`
	Token         string  `json:"Token"`
	Score         FlexInt `json:"Score"`
	SoftcoreScore FlexInt `json:"SoftcoreScore"`
	Messages      FlexInt `json:"Messages"`
}

// AwardResult is the server's response to an unlock submission.
type AwardResult struct {
	AchievementID         FlexInt `json:"AchievementID"`
	Score                 FlexInt `json:"Score"`
	SoftcoreScore         FlexInt `json:"SoftcoreScore"`
	AchievementsRemaining FlexInt `json:"AchievementsRemaining"`
}

// SessionStart is the server's response to StartSession: the unlocks the
// server already knows about, so the emulator can reconcile local state.
type SessionStart struct {
	Unlocks         []sessionUnlock `json:"Unlocks"`
	HardcoreUnlocks []sessionUnlock `json:"HardcoreUnlocks"`
	ServerNow       int64           `json:"ServerNow"`
}

type sessionUnlock struct {
	ID   FlexInt `json:"ID"`
	When int64   `json:"When"`
}

// UnlockedIDs returns the IDs of achievements already unlocked server-side.
func (s *SessionStart) UnlockedIDs(hardcore bool) []int {
	source := s.Unlocks
	if hardcore {
		source = s.HardcoreUnlocks
	}
	ids := make([]int, 0, len(source))
	for _, u := range source {
		ids = append(ids, u.ID.Int())
	}
	return ids
}

type connectEnvelope struct {
	Success bool   `json:"Success"`
	Error   string `json:"Error"`
}

// NewConnectClient creates a Connect client. Call Login before any other
// operation.
func NewConnectClient(opts *ConnectOptions) *ConnectClient {
	if opts == nil {
		opts = &ConnectOptions{}
	}
	if opts.ConnectURL == "" {
		opts.ConnectURL = DefaultConnectURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: internalTypes.DefaultTimeout}
	}

	trans := transport.New(&transport.Options{
		HTTPClient:  opts.HTTPClient,
		RetryConfig: opts.RetryConfig,
		Logger:      opts.Logger,
	})

	return &ConnectClient{
		connectURL: opts.ConnectURL,
		transport:  trans,
	}
}

// Login exchanges credentials for a connect token and stores it on the
// client for subsequent calls.
func (c *ConnectClient) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password cannot be empty")
	}

	params := url.Values{"r": {"login2"}, "u": {username}, "p": {password}}
	result, err := doConnect[LoginResult](ctx, c, params)
	if err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, &internalTypes.APIError{
			Code:    "RA_LOGIN_FAILED",
			Message: "connect login response missing token",
			Err:     internalTypes.ErrNotAuthenticated,
		}
	}

	c.username = result.User
	if c.username == "" {
		c.username = username
	}
	c.token = result.Token
	return result, nil
}

// StartSession opens a play session for a game and returns the unlocks the
// server already has.
func (c *ConnectClient) StartSession(ctx context.Context, gameID int) (*SessionStart, error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	if gameID <= 0 {
		return nil, errors.New("gameID must be positive")
	}

	params := url.Values{
		"r": {"startsession"},
		"u": {c.username},
		"t": {c.token},
		"g": {strconv.Itoa(gameID)},
	}
	start, err := doConnect[SessionStart](ctx, c, params)
	if err != nil {
		return nil, err
	}
	if start.Unlocks == nil {
		start.Unlocks = []sessionUnlock{}
	}
	if start.HardcoreUnlocks == nil {
		start.HardcoreUnlocks = []sessionUnlock{}
	}
	return start, nil
}

// AwardAchievement submits an unlock. The request carries a validation
// signature derived from the achievement, user, and mode.
func (c *ConnectClient) AwardAchievement(ctx context.Context, achievementID int, hardcore bool) (*AwardResult, error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	if achievementID <= 0 {
		return nil, errors.New("achievementID must be positive")
	}

	mode := "0"
	if hardcore {
		mode = "1"
	}
	params := url.Values{
		"r": {"awardachievement"},
		"u": {c.username},
		"t": {c.token},
		"a": {strconv.Itoa(achievementID)},
		"h": {mode},
		"v": {awardSignature(achievementID, c.username, mode)},
	}
	return doConnect[AwardResult](ctx, c, params)
}

// Ping reports rich presence for the current session.
func (c *ConnectClient) Ping(ctx context.Context, gameID int, richPresence string) error {
	if err := c.requireLogin(); err != nil {
		return err
	}

	params := url.Values{
		"r": {"ping"},
		"u": {c.username},
		"t": {c.token},
		"g": {strconv.Itoa(gameID)},
		"m": {richPresence},
	}
	_, err := doConnect[struct{}](ctx, c, params)
	return err
}

func (c *ConnectClient) requireLogin() error {
	if c.token == "" {
		return errors.Wrap(internalTypes.ErrNotAuthenticated, "connect client requires Login first")
	}
	return nil
}

// doConnect posts a Connect API form and decodes the typed payload after
// checking the Success flag every Connect response carries.
func doConnect[T any](ctx context.Context, c *ConnectClient, params url.Values) (*T, error) {
	resp, err := c.transport.PostForm(ctx, c.connectURL, params)
	if err != nil {
		return nil, err
	}

	envelope, err := transport.DecodeObject[connectEnvelope](resp)
	if err != nil {
		return nil, err
	}
	if !envelope.Success {
		message := envelope.Error
		if message == "" {
			message = "connect request rejected"
		}
		return nil, &internalTypes.APIError{
			Code:       "RA_CONNECT_ERROR",
			Message:    message,
			StatusCode: resp.StatusCode,
			RawBody:    string(resp.Body),
		}
	}

	return transport.DecodeObject[T](resp)
}

func awardSignature(achievementID int, username, mode string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%d%s%s", achievementID, username, mode)))
	return fmt.Sprintf("%x", sum)
}

// SessionTime converts a ServerNow epoch value to time.Time.
func SessionTime(epoch int64) time.Time {
	return time.Unix(epoch, 0).UTC()
}
