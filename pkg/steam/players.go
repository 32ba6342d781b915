package steam

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/trophyline/gametrack-go/internal/transport"
	internalTypes "github.com/trophyline/gametrack-go/internal/types"
)

// GetPlayerSummaries retrieves profile records for up to 100 users.
func (c *Client) GetPlayerSummaries(ctx context.Context, steamIDs []string) ([]PlayerSummary, error) {
	if len(steamIDs) == 0 {
		return nil, errors.New("steamIDs cannot be empty")
	}
	for _, id := range steamIDs {
		if err := validateSteamID(id); err != nil {
			return nil, err
		}
	}

	params := url.Values{"steamids": {strings.Join(steamIDs, ",")}}

	resp, err := c.get(ctx, "GetPlayerSummaries", playerSummariesPath, params)
	if err != nil {
		return nil, err
	}

	envelope, err := transport.DecodeObject[playerSummariesEnvelope](resp)
	if err != nil {
		return nil, err
	}
	if envelope.Response.Players == nil {
		envelope.Response.Players = []PlayerSummary{}
	}
	return envelope.Response.Players, nil
}

// ResolveVanityURL resolves a profile name to a numeric steam ID.
func (c *Client) ResolveVanityURL(ctx context.Context, vanityName string) (string, error) {
	if vanityName == "" {
		return "", errors.New("vanity name cannot be empty")
	}

	params := url.Values{"vanityurl": {vanityName}}

	resp, err := c.get(ctx, "ResolveVanityURL", resolveVanityPath, params)
	if err != nil {
		return "", err
	}

	envelope, err := transport.DecodeObject[resolveVanityEnvelope](resp)
	if err != nil {
		return "", err
	}

	// success=1 is a match; anything else is no-match with a message.
	if envelope.Response.Success != 1 || envelope.Response.SteamID == "" {
		return "", &internalTypes.APIError{
			Code:    "STEAM_VANITY_NOT_FOUND",
			Message: errors.Errorf("no steam ID found for %q: %s", vanityName, envelope.Response.Message).Error(),
			Err:     internalTypes.ErrNotFound,
		}
	}

	return envelope.Response.SteamID, nil
}
