package steam

import (
	"context"
	"net/url"
	"strconv"

	"github.com/trophyline/gametrack-go/internal/transport"
	internalTypes "github.com/trophyline/gametrack-go/internal/types"
)

// GetPlayerAchievements retrieves a user's earned achievements for one app.
func (c *Client) GetPlayerAchievements(ctx context.Context, steamID string, appID uint64) (*PlayerStats, error) {
	if err := validateSteamID(steamID); err != nil {
		return nil, err
	}

	params := url.Values{
		"steamid": {steamID},
		"appid":   {strconv.FormatUint(appID, 10)},
	}

	resp, err := c.get(ctx, "GetPlayerAchievements", playerAchievementsPath, params)
	if err != nil {
		return nil, err
	}

	envelope, err := transport.DecodeObject[playerStatsEnvelope](resp)
	if err != nil {
		return nil, err
	}

	stats := envelope.PlayerStats
	// Steam answers 200 with success=false for private profiles and
	// titles without stats.
	if !stats.Success && stats.Error != "" {
		return nil, &internalTypes.APIError{
			Code:    "STEAM_STATS_UNAVAILABLE",
			Message: stats.Error,
		}
	}
	if stats.Achievements == nil {
		stats.Achievements = []PlayerAchievement{}
	}
	return &stats, nil
}

// GetSchemaForGame retrieves the achievement definitions for one app.
func (c *Client) GetSchemaForGame(ctx context.Context, appID uint64) (*GameSchema, error) {
	params := url.Values{"appid": {strconv.FormatUint(appID, 10)}}

	resp, err := c.get(ctx, "GetSchemaForGame", schemaForGamePath, params)
	if err != nil {
		return nil, err
	}

	envelope, err := transport.DecodeObject[gameSchemaEnvelope](resp)
	if err != nil {
		return nil, err
	}
	if envelope.Game.AvailableGameStats.Achievements == nil {
		envelope.Game.AvailableGameStats.Achievements = []SchemaAchievement{}
	}
	return &envelope.Game, nil
}

// GetGlobalAchievementPercentages retrieves global unlock rates for one app.
func (c *Client) GetGlobalAchievementPercentages(ctx context.Context, appID uint64) ([]GlobalAchievement, error) {
	params := url.Values{"gameid": {strconv.FormatUint(appID, 10)}}

	resp, err := c.get(ctx, "GetGlobalAchievementPercentages", globalAchievementsPath, params)
	if err != nil {
		return nil, err
	}

	envelope, err := transport.DecodeObject[globalAchievementsEnvelope](resp)
	if err != nil {
		return nil, err
	}
	if envelope.AchievementPercentages.Achievements == nil {
		envelope.AchievementPercentages.Achievements = []GlobalAchievement{}
	}
	return envelope.AchievementPercentages.Achievements, nil
}
