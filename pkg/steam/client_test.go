package steam

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	internalTypes "github.com/trophyline/gametrack-go/internal/types"
)

const testSteamID = "76561197987123908"

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient("test-key", &ClientOptions{BaseURL: server.URL})
	return client, server
}

func TestGetOwnedGames(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ownedGamesPath, r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, testSteamID, r.URL.Query().Get("steamid"))

		w.Write([]byte(`{"response":{"game_count":2,"games":[
			{"appid":440,"name":"Team Fortress 2","playtime_forever":1200},
			{"appid":620,"name":"Portal 2","playtime_forever":340,"rtime_last_played":1699999999}
		]}}`))
	})

	games, err := client.GetOwnedGames(context.Background(), testSteamID)

	require.NoError(t, err)
	assert.Equal(t, 2, games.GameCount)
	require.Len(t, games.Games, 2)
	assert.Equal(t, uint64(440), games.Games[0].AppID)
	assert.Equal(t, "Portal 2", games.Games[1].Name)
	assert.Equal(t, int64(1699999999), games.Games[1].RTimeLastPlayed)
}

func TestGetOwnedGames_EmptyLibraryYieldsEmptySlice(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"game_count":0}}`))
	})

	games, err := client.GetOwnedGames(context.Background(), testSteamID)

	require.NoError(t, err)
	require.NotNil(t, games.Games)
	assert.Empty(t, games.Games)
}

func TestGetOwnedGames_RejectsNonNumericIDWithoutNetworkCall(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.GetOwnedGames(context.Background(), "gaben")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ResolveVanityURL")
	assert.False(t, called)
}

func TestGetPlayerAchievements(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "440", r.URL.Query().Get("appid"))
		w.Write([]byte(`{"playerstats":{"steamID":"` + testSteamID + `","gameName":"Team Fortress 2","success":true,
			"achievements":[{"apiname":"TF_GET_HEADSHOTS","achieved":1,"unlocktime":1600000000}]}}`))
	})

	stats, err := client.GetPlayerAchievements(context.Background(), testSteamID, 440)

	require.NoError(t, err)
	assert.Equal(t, "Team Fortress 2", stats.GameName)
	require.Len(t, stats.Achievements, 1)
	assert.Equal(t, "TF_GET_HEADSHOTS", stats.Achievements[0].APIName)
	assert.Equal(t, 1, stats.Achievements[0].Achieved)
}

func TestGetPlayerAchievements_PrivateProfile(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"playerstats":{"success":false,"error":"Profile is not public"}}`))
	})

	_, err := client.GetPlayerAchievements(context.Background(), testSteamID, 440)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Profile is not public")
}

func TestGetPlayerSummaries(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testSteamID, r.URL.Query().Get("steamids"))
		w.Write([]byte(`{"response":{"players":[{"steamid":"` + testSteamID + `","personaname":"tester","timecreated":1100000000}]}}`))
	})

	players, err := client.GetPlayerSummaries(context.Background(), []string{testSteamID})

	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "tester", players[0].PersonaName)
}

func TestResolveVanityURL(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gaben", r.URL.Query().Get("vanityurl"))
		w.Write([]byte(`{"response":{"steamid":"` + testSteamID + `","success":1}}`))
	})

	steamID, err := client.ResolveVanityURL(context.Background(), "gaben")

	require.NoError(t, err)
	assert.Equal(t, testSteamID, steamID)
}

func TestResolveVanityURL_NoMatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"success":42,"message":"No match"}}`))
	})

	_, err := client.ResolveVanityURL(context.Background(), "nobody")

	require.Error(t, err)
	assert.ErrorIs(t, err, internalTypes.ErrNotFound)
}

func TestGetGlobalAchievementPercentages_StringAndNumberPercents(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"achievementpercentages":{"achievements":[
			{"name":"A","percent":"64.9"},
			{"name":"B","percent":12.5}
		]}}`))
	})

	achievements, err := client.GetGlobalAchievementPercentages(context.Background(), 440)

	require.NoError(t, err)
	require.Len(t, achievements, 2)
	assert.InDelta(t, 64.9, float64(achievements[0].Percent), 0.001)
	assert.InDelta(t, 12.5, float64(achievements[1].Percent), 0.001)
}

func TestPercent_MarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal(GlobalAchievement{Name: "A", Percent: 33.3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"A","percent":33.3}`, string(data))
}
