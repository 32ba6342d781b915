// Package xblauth converts a Microsoft OAuth access token into Xbox Live
// authorization material via the user-token and XSTS token services.
package xblauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/trophyline/gametrack-go/internal/types"
)

const (
	// DefaultUserTokenURL is the Xbox Live user-token service.
	DefaultUserTokenURL = "https://user.auth.xboxlive.com/user/authenticate"

	// DefaultXSTSTokenURL is the Xbox Live security token service.
	DefaultXSTSTokenURL = "https://xsts.auth.xboxlive.com/xsts/authorize"

	// SessionTTL is deliberately shorter than the ~60 minute vendor token
	// lifetime, leaving headroom for clock skew and in-flight requests.
	SessionTTL = 55 * time.Minute
)

// Known XErr codes from the XSTS service.
const (
	xerrNoXboxAccount     = 2148916233
	xerrRegionUnavailable = 2148916235
	xerrChildAccount      = 2148916238
)

// Session is the authorization material for Xbox Live calls. It is created
// by Exchange and considered invalid once time.Now() reaches ExpiresAt.
type Session struct {
	UserHash  string
	XSTSToken string
	XUID      string
	ExpiresAt time.Time
}

// Valid reports whether the session can still authorize calls.
func (s *Session) Valid() bool {
	return s != nil && time.Now().Before(s.ExpiresAt)
}

// AuthorizationHeader formats the XBL3.0 Authorization header value.
func (s *Session) AuthorizationHeader() string {
	return fmt.Sprintf("XBL3.0 x=%s;%s", s.UserHash, s.XSTSToken)
}

// Service runs the two-hop Xbox Live token exchange.
type Service struct {
	httpClient   *http.Client
	userTokenURL string
	xstsTokenURL string
	logger       types.Logger
}

// NewService creates an exchange service. A nil httpClient gets a default
// with the shared timeout.
func NewService(httpClient *http.Client, logger types.Logger) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: types.DefaultTimeout}
	}
	return &Service{
		httpClient:   httpClient,
		userTokenURL: DefaultUserTokenURL,
		xstsTokenURL: DefaultXSTSTokenURL,
		logger:       logger,
	}
}

// SetEndpoints overrides the token service endpoints. Used by tests.
func (s *Service) SetEndpoints(userTokenURL, xstsTokenURL string) {
	s.userTokenURL = userTokenURL
	s.xstsTokenURL = xstsTokenURL
}

// Exchange converts a Microsoft OAuth access token into an Xbox Live
// session. Both hops are single-shot POSTs with no retry wrapper: the
// intermediate tokens are single-use, so a retried hop would fail anyway.
func (s *Service) Exchange(ctx context.Context, msAccessToken string) (*Session, error) {
	if msAccessToken == "" {
		return nil, errors.New("microsoft access token must not be empty")
	}

	userToken, userHash, err := s.obtainUserToken(ctx, msAccessToken)
	if err != nil {
		return nil, err
	}

	xstsToken, xuid, err := s.obtainXSTSToken(ctx, userToken)
	if err != nil {
		return nil, err
	}

	return &Session{
		UserHash:  userHash,
		XSTSToken: xstsToken,
		XUID:      xuid,
		ExpiresAt: time.Now().Add(SessionTTL),
	}, nil
}

// tokenResponse is the common shape of both token service responses.
type tokenResponse struct {
	Token         string `json:"Token"`
	DisplayClaims struct {
		XUI []map[string]string `json:"xui"`
	} `json:"DisplayClaims"`
}

// xstsErrorResponse is the error body the XSTS service answers with.
type xstsErrorResponse struct {
	XErr    int64  `json:"XErr"`
	Message string `json:"Message"`
}

// obtainUserToken trades the Microsoft access token for an Xbox user token
// and the user hash claim.
func (s *Service) obtainUserToken(ctx context.Context, msAccessToken string) (token, userHash string, err error) {
	payload := map[string]interface{}{
		"Properties": map[string]interface{}{
			"AuthMethod": "RPS",
			"SiteName":   "user.auth.xboxlive.com",
			"RpsTicket":  "d=" + msAccessToken,
		},
		"RelyingParty": "http://auth.xboxlive.com",
		"TokenType":    "JWT",
	}

	status, body, err := s.post(ctx, s.userTokenURL, payload)
	if err != nil {
		return "", "", err
	}

	if status != http.StatusOK {
		return "", "", &types.APIError{
			Code:       "XBL_USER_TOKEN_FAILED",
			Message:    fmt.Sprintf("user token service answered %d; the Microsoft access token is likely expired", status),
			StatusCode: status,
			RawBody:    string(body),
			Err:        types.ErrNotAuthenticated,
		}
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", &types.APIError{
			Code:    "XBL_USER_TOKEN_FAILED",
			Message: "user token response could not be parsed",
			RawBody: string(body),
			Err:     err,
		}
	}

	userHash = claim(&resp, "uhs")
	if resp.Token == "" || userHash == "" {
		return "", "", &types.APIError{
			Code:    "XBL_USER_TOKEN_FAILED",
			Message: "user token response carries no Token or uhs claim",
			RawBody: string(body),
		}
	}

	return resp.Token, userHash, nil
}

// obtainXSTSToken trades the user token for an XSTS token and the XUID
// claim, translating known XErr codes into actionable diagnostics.
func (s *Service) obtainXSTSToken(ctx context.Context, userToken string) (token, xuid string, err error) {
	payload := map[string]interface{}{
		"Properties": map[string]interface{}{
			"SandboxId":  "RETAIL",
			"UserTokens": []string{userToken},
		},
		"RelyingParty": "http://xboxlive.com",
		"TokenType":    "JWT",
	}

	status, body, err := s.post(ctx, s.xstsTokenURL, payload)
	if err != nil {
		return "", "", err
	}

	if status != http.StatusOK {
		return "", "", xstsError(status, body)
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", &types.APIError{
			Code:    "XBL_XSTS_TOKEN_FAILED",
			Message: "XSTS response could not be parsed",
			RawBody: string(body),
			Err:     err,
		}
	}

	xuid = claim(&resp, "xid")
	if resp.Token == "" || xuid == "" {
		return "", "", &types.APIError{
			Code:    "XBL_XSTS_TOKEN_FAILED",
			Message: "XSTS response carries no Token or xid claim",
			RawBody: string(body),
		}
	}

	return resp.Token, xuid, nil
}

// post sends a JSON body and returns the status and raw response body.
func (s *Service) post(ctx context.Context, url string, payload interface{}) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-xbl-contract-version", "1")
	req.Header.Set("User-Agent", types.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.Wrap(err, "token exchange request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "failed to read response")
	}

	if s.logger != nil {
		s.logger.Debug("token exchange response", "url", url, "status", resp.StatusCode)
	}

	return resp.StatusCode, respBody, nil
}

// claim returns the named claim from the first xui entry.
func claim(resp *tokenResponse, name string) string {
	if len(resp.DisplayClaims.XUI) == 0 {
		return ""
	}
	return resp.DisplayClaims.XUI[0][name]
}

// xstsError maps a failed XSTS response to a diagnostic. Known XErr codes
// get specific messages; unknown ones fall back to a generic message that
// embeds the code and raw body.
func xstsError(status int, body []byte) error {
	var errResp xstsErrorResponse
	_ = json.Unmarshal(body, &errResp)

	var message string
	switch errResp.XErr {
	case xerrNoXboxAccount:
		message = "this Microsoft account has no Xbox Live account; sign in to xbox.com once to create one"
	case xerrRegionUnavailable:
		message = "Xbox Live is banned or unavailable in this account's country or region"
	case xerrChildAccount:
		message = "this is a child account and needs to be verified by an adult in the family before it can sign in"
	default:
		message = fmt.Sprintf("XSTS authorization failed with XErr %d: %s", errResp.XErr, string(body))
	}

	return &types.APIError{
		Code:       "XBL_XSTS_TOKEN_FAILED",
		Message:    message,
		StatusCode: status,
		RawBody:    string(body),
		Err:        types.ErrNotAuthenticated,
	}
}
