package psn

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/trophyline/gametrack-go/internal/transport"
)

// GetUserTitles retrieves a page of the user's trophy titles. Use "me" as
// accountID for the authenticated user.
func (c *Client) GetUserTitles(ctx context.Context, accountID string, limit, offset int) (*TrophyTitlesPage, error) {
	if accountID == "" {
		return nil, errors.New("accountID cannot be empty")
	}

	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}

	path := fmt.Sprintf("/users/%s/trophyTitles", url.PathEscape(accountID))
	resp, err := c.transport.Get(ctx, path, params)
	if err != nil {
		c.capture(ctx, err, "GetUserTitles")
		return nil, err
	}

	page, err := transport.DecodeObject[TrophyTitlesPage](resp)
	if err != nil {
		return nil, err
	}
	if page.TrophyTitles == nil {
		page.TrophyTitles = []TrophyTitle{}
	}
	return page, nil
}

// GetTitleTrophies retrieves the trophy definitions of a title. serviceName
// is ServiceNamePS4 or ServiceNamePS5 depending on the title's platform.
func (c *Client) GetTitleTrophies(ctx context.Context, npCommunicationID, serviceName string) (*TrophiesPage, error) {
	if npCommunicationID == "" {
		return nil, errors.New("npCommunicationID cannot be empty")
	}

	params := url.Values{"npServiceName": {serviceNameOrDefault(serviceName)}}

	path := fmt.Sprintf("/npCommunicationIds/%s/trophyGroups/all/trophies", url.PathEscape(npCommunicationID))
	resp, err := c.transport.Get(ctx, path, params)
	if err != nil {
		c.capture(ctx, err, "GetTitleTrophies")
		return nil, err
	}

	page, err := transport.DecodeObject[TrophiesPage](resp)
	if err != nil {
		return nil, err
	}
	if page.Trophies == nil {
		page.Trophies = []Trophy{}
	}
	return page, nil
}

// GetUserEarnedTrophies retrieves the user's earned state for every trophy
// of a title.
func (c *Client) GetUserEarnedTrophies(ctx context.Context, accountID, npCommunicationID, serviceName string) (*EarnedTrophiesPage, error) {
	if accountID == "" {
		return nil, errors.New("accountID cannot be empty")
	}
	if npCommunicationID == "" {
		return nil, errors.New("npCommunicationID cannot be empty")
	}

	params := url.Values{"npServiceName": {serviceNameOrDefault(serviceName)}}

	path := fmt.Sprintf("/users/%s/npCommunicationIds/%s/trophyGroups/all/trophies",
		url.PathEscape(accountID), url.PathEscape(npCommunicationID))
	resp, err := c.transport.Get(ctx, path, params)
	if err != nil {
		c.capture(ctx, err, "GetUserEarnedTrophies")
		return nil, err
	}

	page, err := transport.DecodeObject[EarnedTrophiesPage](resp)
	if err != nil {
		return nil, err
	}
	if page.Trophies == nil {
		page.Trophies = []EarnedTrophy{}
	}
	return page, nil
}

// GetUserTrophySummary retrieves the user's overall trophy level and counts.
func (c *Client) GetUserTrophySummary(ctx context.Context, accountID string) (*TrophySummary, error) {
	if accountID == "" {
		return nil, errors.New("accountID cannot be empty")
	}

	path := fmt.Sprintf("/users/%s/trophySummary", url.PathEscape(accountID))
	resp, err := c.transport.Get(ctx, path, nil)
	if err != nil {
		c.capture(ctx, err, "GetUserTrophySummary")
		return nil, err
	}

	return transport.DecodeObject[TrophySummary](resp)
}

func serviceNameOrDefault(serviceName string) string {
	if serviceName == "" {
		return ServiceNamePS4
	}
	return serviceName
}
