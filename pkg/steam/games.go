package steam

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/trophyline/gametrack-go/internal/transport"
)

// GetOwnedGames retrieves the games a user owns, including app metadata and
// free titles with playtime.
func (c *Client) GetOwnedGames(ctx context.Context, steamID string) (*OwnedGames, error) {
	if err := validateSteamID(steamID); err != nil {
		return nil, err
	}

	params := url.Values{
		"steamid":                   {steamID},
		"include_appinfo":           {"true"},
		"include_played_free_games": {"true"},
	}

	resp, err := c.get(ctx, "GetOwnedGames", ownedGamesPath, params)
	if err != nil {
		return nil, err
	}

	envelope, err := transport.DecodeObject[ownedGamesEnvelope](resp)
	if err != nil {
		return nil, err
	}
	if envelope.Response.Games == nil {
		envelope.Response.Games = []OwnedGame{}
	}
	return &envelope.Response, nil
}

// GetRecentlyPlayedGames retrieves games played in the last two weeks.
func (c *Client) GetRecentlyPlayedGames(ctx context.Context, steamID string, count int) (*RecentlyPlayedGames, error) {
	if err := validateSteamID(steamID); err != nil {
		return nil, err
	}

	params := url.Values{"steamid": {steamID}}
	if count > 0 {
		params.Set("count", strconv.Itoa(count))
	}

	resp, err := c.get(ctx, "GetRecentlyPlayedGames", recentlyPlayedPath, params)
	if err != nil {
		return nil, err
	}

	envelope, err := transport.DecodeObject[recentlyPlayedEnvelope](resp)
	if err != nil {
		return nil, err
	}
	if envelope.Response.Games == nil {
		envelope.Response.Games = []OwnedGame{}
	}
	return &envelope.Response, nil
}

// validateSteamID rejects obviously malformed IDs before any network call.
// Steam IDs are numeric, typically 17 digits; a name here usually means the
// caller forgot to resolve their vanity URL first.
func validateSteamID(steamID string) error {
	if steamID == "" {
		return errors.New("steam ID cannot be empty")
	}
	if _, err := strconv.ParseUint(steamID, 10, 64); err != nil {
		return errors.Errorf("invalid steam ID %q: steam IDs are numeric; use ResolveVanityURL for profile names", steamID)
	}
	return nil
}
