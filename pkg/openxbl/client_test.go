package openxbl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("test-api-key", &ClientOptions{BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient("", nil)
	require.Error(t, err)
}

func TestGetAccount_SendsAPIKeyHeader(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("X-Authorization"))
		w.Write([]byte(`{"profileUsers":[{"id":"253540001","settings":[{"id":"Gamertag","value":"TestGamer"}]}]}`))
	})

	profiles, err := client.GetAccount(context.Background())

	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "253540001", profiles[0].ID)
}

func TestGetPlayerTitleAchievements(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/achievements/player/253540001/1144039928", r.URL.Path)
		w.Write([]byte(`{"achievements":[{"id":"1","name":"First Steps","progressState":"Achieved"}]}`))
	})

	achievements, err := client.GetPlayerTitleAchievements(context.Background(), "253540001", "1144039928")

	require.NoError(t, err)
	require.Len(t, achievements, 1)
	assert.Equal(t, "First Steps", achievements[0].Name)
}

func TestGetPlayerTitleAchievements_EmptyYieldsEmptySlice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	achievements, err := client.GetPlayerTitleAchievements(context.Background(), "253540001", "1144039928")

	require.NoError(t, err)
	require.NotNil(t, achievements)
	assert.Empty(t, achievements)
}
