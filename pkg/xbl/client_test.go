package xbl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	internalTypes "github.com/trophyline/gametrack-go/internal/types"
	"github.com/trophyline/gametrack-go/internal/xblauth"
)

// newAuthService returns an exchange service backed by mock token endpoints,
// plus a counter of completed exchanges.
func newAuthService(t *testing.T) (*xblauth.Service, *int32) {
	t.Helper()
	var exchanges int32

	userToken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Token":"user-token","DisplayClaims":{"xui":[{"uhs":"hash123"}]}}`))
	}))
	t.Cleanup(userToken.Close)

	xsts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&exchanges, 1)
		w.Write([]byte(`{"Token":"xsts-token","DisplayClaims":{"xui":[{"uhs":"hash123","xid":"253540001"}]}}`))
	}))
	t.Cleanup(xsts.Close)

	service := xblauth.NewService(nil, nil)
	service.SetEndpoints(userToken.URL, xsts.URL)
	return service, &exchanges
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts *ClientOptions) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	if opts == nil {
		opts = &ClientOptions{}
	}
	if opts.authService == nil {
		opts.authService, _ = newAuthService(t)
	}
	opts.ProfileURL = server.URL
	opts.TitleHubURL = server.URL
	opts.AchievementsURL = server.URL
	opts.StatsURL = server.URL

	client, err := NewClient(context.Background(), "ms-token", opts)
	require.NoError(t, err)
	return client
}

func TestNewClient_EstablishesSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, nil)

	session := client.Session()
	assert.Equal(t, "hash123", session.UserHash)
	assert.Equal(t, "253540001", client.XUID())
	assert.WithinDuration(t, time.Now().Add(xblauth.SessionTTL), session.ExpiresAt, 5*time.Second)
}

func TestGetProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/batch/profile/settings", r.URL.Path)
		assert.Equal(t, "XBL3.0 x=hash123;xsts-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.Header.Get("x-xbl-contract-version"))
		w.Write([]byte(`{"profileUsers":[{"id":"253540001","settings":[
			{"id":"Gamertag","value":"TestGamer"},
			{"id":"Gamerscore","value":"12345"}
		]}]}`))
	}, nil)

	profiles, err := client.GetProfile(context.Background(), []string{"253540001"}, nil)

	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "TestGamer", profiles[0].Setting("Gamertag"))
	assert.Equal(t, "12345", profiles[0].Setting("Gamerscore"))
	assert.Equal(t, "", profiles[0].Setting("Missing"))
}

func TestGetTitleHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/xuid(253540001)/titles/titlehistory/decoration/achievement,image", r.URL.Path)
		w.Write([]byte(`{"xuid":"253540001","titles":[{
			"titleId":"1144039928",
			"name":"Halo Infinite",
			"achievement":{"currentAchievements":10,"totalAchievements":119,"currentGamerscore":155,"totalGamerscore":1600,"progressPercentage":9.6},
			"titleHistory":{"lastTimePlayed":"2023-06-15T20:00:00Z"}
		}]}`))
	}, nil)

	titles, err := client.GetTitleHistory(context.Background(), "", 0)

	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, "Halo Infinite", titles[0].Name)
	assert.Equal(t, 155, titles[0].Achievement.CurrentGamerscore)
	require.NotNil(t, titles[0].TitleHistory)
	assert.Equal(t, 2023, titles[0].TitleHistory.LastTimePlayed.Year())
}

func TestGetAchievements(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1144039928", r.URL.Query().Get("titleId"))
		w.Write([]byte(`{"achievements":[
			{"id":"1","name":"First Steps","progressState":"Achieved","progression":{"timeUnlocked":"2023-06-01T10:00:00Z"},"rewards":[{"value":"10","type":"Gamerscore"}]},
			{"id":"2","name":"Locked One","progressState":"NotStarted","progression":{}}
		],"pagingInfo":{"totalRecords":2}}`))
	}, nil)

	page, err := client.GetAchievements(context.Background(), "", "1144039928", "")

	require.NoError(t, err)
	require.Len(t, page.Achievements, 2)
	assert.True(t, page.Achievements[0].Unlocked())
	require.NotNil(t, page.Achievements[0].Progression.TimeUnlocked)
	assert.False(t, page.Achievements[1].Unlocked())
	assert.Nil(t, page.Achievements[1].Progression.TimeUnlocked)
	assert.Equal(t, 2, page.TotalRecords)
}

func TestGetStats(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/batch", r.URL.Path)
		assert.Equal(t, "1", r.Header.Get("x-xbl-contract-version"))
		w.Write([]byte(`{"statlistscollection":[{"stats":[{"name":"MinutesPlayed","titleid":"1144039928","value":"5400"}]}]}`))
	}, nil)

	stats, err := client.GetStats(context.Background(), "", []StatRequest{{Name: "MinutesPlayed", TitleID: "1144039928"}})

	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "MinutesPlayed", stats[0].Name)
}

func TestExpiredSession_FailsFastWithoutNetworkCall(t *testing.T) {
	var apiCalls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiCalls, 1)
	}, nil)

	// Force the session past its expiry.
	client.mu.Lock()
	client.session.ExpiresAt = time.Now().Add(-time.Minute)
	client.mu.Unlock()

	_, err := client.GetProfile(context.Background(), []string{"253540001"}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, internalTypes.ErrSessionExpired)
	assert.Contains(t, err.Error(), "re-authenticate")
	assert.EqualValues(t, 0, atomic.LoadInt32(&apiCalls), "expiry must be detected locally")
}

func TestExpiredSession_RefreshCallbackRotatesSession(t *testing.T) {
	authService, exchanges := newAuthService(t)
	var refreshCalls int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"profileUsers":[]}`))
	}, &ClientOptions{
		authService: authService,
		RefreshToken: func(ctx context.Context) (string, error) {
			atomic.AddInt32(&refreshCalls, 1)
			return "fresh-ms-token", nil
		},
	})

	client.mu.Lock()
	client.session.ExpiresAt = time.Now().Add(-time.Minute)
	client.mu.Unlock()

	_, err := client.GetProfile(context.Background(), []string{"253540001"}, nil)

	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
	assert.EqualValues(t, 2, atomic.LoadInt32(exchanges), "one exchange at construction, one at refresh")
	session := client.Session()
	assert.True(t, session.Valid())
}

func TestValidSession_DoesNotInvokeRefreshCallback(t *testing.T) {
	var refreshCalls int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"profileUsers":[]}`))
	}, &ClientOptions{
		RefreshToken: func(ctx context.Context) (string, error) {
			atomic.AddInt32(&refreshCalls, 1)
			return "fresh-ms-token", nil
		},
	})

	_, err := client.GetProfile(context.Background(), []string{"253540001"}, nil)

	require.NoError(t, err)
	assert.EqualValues(t, 0, atomic.LoadInt32(&refreshCalls))
}
