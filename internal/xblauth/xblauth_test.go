package xblauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trophyline/gametrack-go/internal/types"
)

func TestExchange_HappyPath(t *testing.T) {
	userToken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Properties map[string]interface{} `json:"Properties"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "RPS", req.Properties["AuthMethod"])
		assert.Equal(t, "d=ms-token", req.Properties["RpsTicket"])

		w.Write([]byte(`{"Token":"user-token","DisplayClaims":{"xui":[{"uhs":"hash123"}]}}`))
	}))
	defer userToken.Close()

	xsts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Properties struct {
				SandboxID  string   `json:"SandboxId"`
				UserTokens []string `json:"UserTokens"`
			} `json:"Properties"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "RETAIL", req.Properties.SandboxID)
		assert.Equal(t, []string{"user-token"}, req.Properties.UserTokens)

		w.Write([]byte(`{"Token":"xsts-token","DisplayClaims":{"xui":[{"uhs":"hash123","xid":"2535400000000000"}]}}`))
	}))
	defer xsts.Close()

	service := NewService(nil, nil)
	service.SetEndpoints(userToken.URL, xsts.URL)

	before := time.Now()
	session, err := service.Exchange(context.Background(), "ms-token")

	require.NoError(t, err)
	assert.Equal(t, "hash123", session.UserHash)
	assert.Equal(t, "xsts-token", session.XSTSToken)
	assert.Equal(t, "2535400000000000", session.XUID)
	assert.WithinDuration(t, before.Add(SessionTTL), session.ExpiresAt, 5*time.Second)
	assert.True(t, session.Valid())
	assert.Equal(t, "XBL3.0 x=hash123;xsts-token", session.AuthorizationHeader())
}

func TestExchange_KnownXErrCodes(t *testing.T) {
	tests := []struct {
		name          string
		xerr          int64
		expectedInMsg string
	}{
		{"no xbox account", 2148916233, "no Xbox Live account"},
		{"region unavailable", 2148916235, "banned or unavailable"},
		{"child account", 2148916238, "child account"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userToken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Token":"user-token","DisplayClaims":{"xui":[{"uhs":"hash123"}]}}`))
			}))
			defer userToken.Close()

			xsts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]interface{}{"XErr": tt.xerr})
			}))
			defer xsts.Close()

			service := NewService(nil, nil)
			service.SetEndpoints(userToken.URL, xsts.URL)

			_, err := service.Exchange(context.Background(), "ms-token")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedInMsg)
			assert.ErrorIs(t, err, types.ErrNotAuthenticated)
		})
	}
}

func TestExchange_UnknownXErrFallsBackToGenericMessage(t *testing.T) {
	userToken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Token":"user-token","DisplayClaims":{"xui":[{"uhs":"hash123"}]}}`))
	}))
	defer userToken.Close()

	xsts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"XErr":1234567890,"Message":"nope"}`))
	}))
	defer xsts.Close()

	service := NewService(nil, nil)
	service.SetEndpoints(userToken.URL, xsts.URL)

	_, err := service.Exchange(context.Background(), "ms-token")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1234567890")
	assert.Contains(t, err.Error(), "nope")
}

func TestExchange_UserTokenMissingClaims(t *testing.T) {
	userToken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Token":"user-token","DisplayClaims":{"xui":[]}}`))
	}))
	defer userToken.Close()

	service := NewService(nil, nil)
	service.SetEndpoints(userToken.URL, "http://unused.invalid")

	_, err := service.Exchange(context.Background(), "ms-token")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "uhs")
}

func TestExchange_UserTokenRejected(t *testing.T) {
	userToken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid ticket"}`))
	}))
	defer userToken.Close()

	service := NewService(nil, nil)
	service.SetEndpoints(userToken.URL, "http://unused.invalid")

	_, err := service.Exchange(context.Background(), "ms-token")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Microsoft access token")
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
}

func TestExchange_EmptyToken(t *testing.T) {
	service := NewService(nil, nil)

	_, err := service.Exchange(context.Background(), "")

	require.Error(t, err)
}

func TestSession_Valid(t *testing.T) {
	assert.False(t, (&Session{ExpiresAt: time.Now().Add(-time.Minute)}).Valid())
	assert.True(t, (&Session{ExpiresAt: time.Now().Add(time.Minute)}).Valid())

	var nilSession *Session
	assert.False(t, nilSession.Valid())
}
