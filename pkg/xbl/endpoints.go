package xbl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/trophyline/gametrack-go/internal/transport"
)

// DefaultProfileSettings are the profile fields most aggregators need.
var DefaultProfileSettings = []string{
	"Gamertag", "GameDisplayPicRaw", "Gamerscore", "AccountTier", "XboxOneRep",
}

// GetProfile retrieves profile settings for the given XUIDs. Empty settings
// fetches DefaultProfileSettings.
func (c *Client) GetProfile(ctx context.Context, xuids []string, settings []string) ([]Profile, error) {
	if len(xuids) == 0 {
		return nil, errors.New("xuids cannot be empty")
	}
	if len(settings) == 0 {
		settings = DefaultProfileSettings
	}

	session, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"userIds":  xuids,
		"settings": settings,
	}

	resp, err := c.transport.PostJSONWithHeaders(ctx,
		c.options.ProfileURL+"/users/batch/profile/settings", payload, headers(session, "2"))
	if err != nil {
		c.capture(ctx, err, "GetProfile")
		return nil, err
	}

	envelope, err := transport.DecodeObject[profileEnvelope](resp)
	if err != nil {
		return nil, err
	}
	if envelope.ProfileUsers == nil {
		envelope.ProfileUsers = []Profile{}
	}
	return envelope.ProfileUsers, nil
}

// GetTitleHistory retrieves the user's played titles decorated with
// achievement summaries.
func (c *Client) GetTitleHistory(ctx context.Context, xuid string, maxItems int) ([]Title, error) {
	session, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}
	if xuid == "" {
		xuid = session.XUID
	}

	query := url.Values{}
	if maxItems > 0 {
		query.Set("maxItems", strconv.Itoa(maxItems))
	}

	path := fmt.Sprintf("%s/users/xuid(%s)/titles/titlehistory/decoration/achievement,image",
		c.options.TitleHubURL, url.PathEscape(xuid))
	resp, err := c.transport.GetWithHeaders(ctx, path, query, headers(session, "2"))
	if err != nil {
		c.capture(ctx, err, "GetTitleHistory")
		return nil, err
	}

	envelope, err := transport.DecodeObject[titleHistoryEnvelope](resp)
	if err != nil {
		return nil, err
	}
	if envelope.Titles == nil {
		envelope.Titles = []Title{}
	}
	return envelope.Titles, nil
}

// GetAchievements retrieves a page of the user's achievements for a title.
// Pass continuationToken from the previous page to continue.
func (c *Client) GetAchievements(ctx context.Context, xuid, titleID string, continuationToken string) (*AchievementsPage, error) {
	if titleID == "" {
		return nil, errors.New("titleID cannot be empty")
	}

	session, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}
	if xuid == "" {
		xuid = session.XUID
	}

	query := url.Values{"titleId": {titleID}}
	if continuationToken != "" {
		query.Set("continuationToken", continuationToken)
	}

	path := fmt.Sprintf("%s/users/xuid(%s)/achievements", c.options.AchievementsURL, url.PathEscape(xuid))
	resp, err := c.transport.GetWithHeaders(ctx, path, query, headers(session, "2"))
	if err != nil {
		c.capture(ctx, err, "GetAchievements")
		return nil, err
	}

	envelope, err := transport.DecodeObject[achievementsEnvelope](resp)
	if err != nil {
		return nil, err
	}

	page := &AchievementsPage{
		Achievements:      envelope.Achievements,
		ContinuationToken: envelope.PagingInfo.ContinuationToken,
		TotalRecords:      envelope.PagingInfo.TotalRecords,
	}
	if page.Achievements == nil {
		page.Achievements = []Achievement{}
	}
	return page, nil
}

// GetStats retrieves named statistics for the user across titles via the
// stats batch endpoint.
func (c *Client) GetStats(ctx context.Context, xuid string, stats []StatRequest) ([]Stat, error) {
	if len(stats) == 0 {
		return nil, errors.New("stats cannot be empty")
	}

	session, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}
	if xuid == "" {
		xuid = session.XUID
	}

	payload := map[string]interface{}{
		"arrangebyfield": "xuid",
		"xuids":          []string{xuid},
		"stats":          stats,
	}

	resp, err := c.transport.PostJSONWithHeaders(ctx,
		c.options.StatsURL+"/batch", payload, headers(session, "1"))
	if err != nil {
		c.capture(ctx, err, "GetStats")
		return nil, err
	}

	envelope, err := transport.DecodeObject[statsEnvelope](resp)
	if err != nil {
		return nil, err
	}

	out := []Stat{}
	for _, list := range envelope.StatListsCollection {
		out = append(out, list.Stats...)
	}
	return out, nil
}
