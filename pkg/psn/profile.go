package psn

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
	"github.com/trophyline/gametrack-go/internal/transport"
)

// Avatar is one size variant of a profile picture.
type Avatar struct {
	Size string `json:"size"`
	URL  string `json:"url"`
}

// Profile is a user's public profile.
type Profile struct {
	OnlineID             string   `json:"onlineId"`
	AboutMe              string   `json:"aboutMe"`
	Avatars              []Avatar `json:"avatars"`
	Languages            []string `json:"languages"`
	IsPlus               bool     `json:"isPlus"`
	IsOfficiallyVerified bool     `json:"isOfficiallyVerified"`
}

// GetUserProfile retrieves a user's public profile by account ID ("me" for
// the authenticated user).
func (c *Client) GetUserProfile(ctx context.Context, accountID string) (*Profile, error) {
	if accountID == "" {
		return nil, errors.New("accountID cannot be empty")
	}

	resp, err := c.transport.Get(ctx, c.profileURL+"/"+url.PathEscape(accountID)+"/profiles", nil)
	if err != nil {
		c.capture(ctx, err, "GetUserProfile")
		return nil, err
	}

	return transport.DecodeObject[Profile](resp)
}
