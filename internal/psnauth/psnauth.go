// Package psnauth converts a long-lived NPSSO session cookie into a
// short-lived PSN bearer token via the Sony OAuth authorize/token endpoints.
package psnauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/trophyline/gametrack-go/internal/types"
)

const (
	// DefaultAuthorizeURL is Sony's OAuth authorize endpoint.
	DefaultAuthorizeURL = "https://ca.account.sony.com/api/authz/v3/oauth/authorize"

	// DefaultTokenURL is Sony's OAuth token endpoint.
	DefaultTokenURL = "https://ca.account.sony.com/api/authz/v3/oauth/token"

	// NpssoRenewalURL is where a user obtains a fresh NPSSO value after
	// signing in to their PSN account in a browser.
	NpssoRenewalURL = "https://ca.account.sony.com/api/v1/ssocookie"

	clientID    = "09515159-7237-4370-9b40-3806e67c0891"
	redirectURI = "com.scee.psxandroid.scecompcall://redirect"
	scope       = "psn:mobile.v2.core psn:clientapp"

	// basicAuth is base64(clientID:secret) for the PSN Android client.
	basicAuth = "MDk1MTUxNTktNzIzNy00MzcwLTliNDAtMzgwNmU2N2MwODkxOnVjUGprYTV0bnRCMktxc1A="
)

// Token is the bearer credential produced by a successful exchange. It is
// immutable; rotating it means re-running the exchange with a valid NPSSO.
type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// Service runs the NPSSO exchange against the Sony OAuth endpoints.
type Service struct {
	httpClient   *http.Client
	authorizeURL string
	tokenURL     string
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
		authorizeURL: DefaultAuthorizeURL,
		tokenURL:     DefaultTokenURL,
		logger:       logger,
	}
}

// SetEndpoints overrides the OAuth endpoints. Used by tests.
func (s *Service) SetEndpoints(authorizeURL, tokenURL string) {
	s.authorizeURL = authorizeURL
	s.tokenURL = tokenURL
}

// Exchange runs the two-hop NPSSO exchange: an authorize call that must
// answer with a redirect carrying a single-use authorization code, then a
// token call trading that code for a bearer token.
//
// Both hops use a plain HTTP client on purpose. The authorization code is
// single-use, so retrying a failed hop would consume the code and then fail
// again on the token endpoint.
func (s *Service) Exchange(ctx context.Context, npsso string) (*Token, error) {
	if npsso == "" {
		return nil, errors.New("npsso must not be empty")
	}

	code, err := s.obtainAccessCode(ctx, npsso)
	if err != nil {
		return nil, err
	}

	return s.exchangeCode(ctx, code)
}

// obtainAccessCode performs the authorize hop with redirect-following
// disabled and parses the authorization code from the Location header.
func (s *Service) obtainAccessCode(ctx context.Context, npsso string) (string, error) {
	query := url.Values{
		"access_type":   {"offline"},
		"client_id":     {clientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {scope},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.authorizeURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create authorize request")
	}
	req.Header.Set("Cookie", "npsso="+npsso)
	req.Header.Set("User-Agent", types.UserAgent)

	// The redirect target is a custom app scheme; following it would fail.
	// The code lives in the Location header of the redirect itself.
	client := *s.httpClient
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "authorize request failed")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if s.logger != nil {
		s.logger.Debug("authorize response", "status", resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if resp.StatusCode < 300 || resp.StatusCode >= 400 || location == "" {
		return "", invalidNpssoError(fmt.Sprintf("authorize endpoint answered %d without a redirect", resp.StatusCode))
	}

	return parseCode(location)
}

// parseCode extracts the code query parameter from the redirect target.
func parseCode(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", invalidNpssoError("redirect target could not be parsed")
	}

	code := u.Query().Get("code")
	if code == "" {
		return "", invalidNpssoError("redirect target carries no authorization code")
	}
	return code, nil
}

// exchangeCode trades the single-use authorization code for a bearer token.
func (s *Service) exchangeCode(ctx context.Context, code string) (*Token, error) {
	form := url.Values{
		"code":         {code},
		"redirect_uri": {redirectURI},
		"grant_type":   {"authorization_code"},
		"token_format": {"jwt"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+basicAuth)
	req.Header.Set("User-Agent", types.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "token request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read token response")
	}

	if s.logger != nil {
		s.logger.Debug("token response", "status", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &types.APIError{
			Code:       "PSN_TOKEN_EXCHANGE_FAILED",
			Message:    fmt.Sprintf("token endpoint answered %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			RawBody:    string(body),
		}
	}

	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, &types.APIError{
			Code:    "PSN_TOKEN_EXCHANGE_FAILED",
			Message: "token response could not be parsed",
			RawBody: string(body),
			Err:     err,
		}
	}

	if token.AccessToken == "" {
		return nil, &types.APIError{
			Code:    "PSN_TOKEN_EXCHANGE_FAILED",
			Message: "token response carries no access_token",
			RawBody: string(body),
		}
	}

	return &token, nil
}

// invalidNpssoError builds the diagnostic users see when their session
// cookie no longer authorizes: it names the renewal URL so the failure is
// actionable without reading vendor docs.
func invalidNpssoError(detail string) error {
	return &types.APIError{
		Code: "PSN_NPSSO_INVALID",
		Message: fmt.Sprintf(
			"%s; your NPSSO session cookie is likely expired or invalid, sign in to PSN and obtain a fresh one at %s",
			detail, NpssoRenewalURL),
		Err: types.ErrNotAuthenticated,
	}
}
