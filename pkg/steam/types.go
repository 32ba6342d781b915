package steam

import (
	"encoding/json"
	"strconv"
	"strings"
)

// OwnedGame is a title in a user's library.
type OwnedGame struct {
	AppID                    uint64 `json:"appid"`
	Name                     string `json:"name"`
	PlaytimeForeverMinutes   int    `json:"playtime_forever"`
	PlaytimeTwoWeeksMinutes  int    `json:"playtime_2weeks"`
	ImgIconURL               string `json:"img_icon_url"`
	RTimeLastPlayed          int64  `json:"rtime_last_played"`
	HasCommunityVisibleStats bool   `json:"has_community_visible_stats"`
}

// OwnedGames is the payload of GetOwnedGames.
type OwnedGames struct {
	GameCount int         `json:"game_count"`
	Games     []OwnedGame `json:"games"`
}

// RecentlyPlayedGames is the payload of GetRecentlyPlayedGames.
type RecentlyPlayedGames struct {
	TotalCount int         `json:"total_count"`
	Games      []OwnedGame `json:"games"`
}

// PlayerSummary is a user profile record.
type PlayerSummary struct {
	SteamID      string `json:"steamid"`
	PersonaName  string `json:"personaname"`
	ProfileURL   string `json:"profileurl"`
	Avatar       string `json:"avatar"`
	AvatarFull   string `json:"avatarfull"`
	PersonaState int    `json:"personastate"`
	LastLogoff   int64  `json:"lastlogoff"`
	TimeCreated  int64  `json:"timecreated"`
}

// PlayerAchievement is a single achievement's earned state for one user.
type PlayerAchievement struct {
	APIName    string `json:"apiname"`
	Achieved   int    `json:"achieved"`
	UnlockTime int64  `json:"unlocktime"`
	Name       string `json:"name"`
}

// PlayerStats is the payload of GetPlayerAchievements.
type PlayerStats struct {
	SteamID      string              `json:"steamID"`
	GameName     string              `json:"gameName"`
	Achievements []PlayerAchievement `json:"achievements"`
	Success      bool                `json:"success"`
	Error        string              `json:"error"`
}

// SchemaAchievement is an achievement definition from the game schema.
type SchemaAchievement struct {
	Name         string `json:"name"`
	DefaultValue int    `json:"defaultvalue"`
	DisplayName  string `json:"displayName"`
	Hidden       int    `json:"hidden"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	IconGray     string `json:"icongray"`
}

// GameSchema is the payload of GetSchemaForGame.
type GameSchema struct {
	GameName           string `json:"gameName"`
	GameVersion        string `json:"gameVersion"`
	AvailableGameStats struct {
		Achievements []SchemaAchievement `json:"achievements"`
	} `json:"availableGameStats"`
}

// GlobalAchievement is a global unlock percentage for one achievement.
// Steam encodes the percentage as a bare number or a quoted string
// depending on endpoint version, so it decodes through Percent.
type GlobalAchievement struct {
	Name    string  `json:"name"`
	Percent Percent `json:"percent"`
}

// Percent accepts both a bare JSON number and a string-wrapped number.
type Percent float64

// UnmarshalJSON implements json.Unmarshaler for Percent
func (p *Percent) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	if str == "" || str == "null" {
		*p = 0
		return nil
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return err
	}
	*p = Percent(v)
	return nil
}

// MarshalJSON implements json.Marshaler for Percent
func (p Percent) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(p))
}

// Response envelopes. Steam wraps every payload in a single-key object.
type ownedGamesEnvelope struct {
	Response OwnedGames `json:"response"`
}

type recentlyPlayedEnvelope struct {
	Response RecentlyPlayedGames `json:"response"`
}

type playerSummariesEnvelope struct {
	Response struct {
		Players []PlayerSummary `json:"players"`
	} `json:"response"`
}

type resolveVanityEnvelope struct {
	Response struct {
		SteamID string `json:"steamid"`
		Success int    `json:"success"`
		Message string `json:"message"`
	} `json:"response"`
}

type playerStatsEnvelope struct {
	PlayerStats PlayerStats `json:"playerstats"`
}

type gameSchemaEnvelope struct {
	Game GameSchema `json:"game"`
}

type globalAchievementsEnvelope struct {
	AchievementPercentages struct {
		Achievements []GlobalAchievement `json:"achievements"`
	} `json:"achievementpercentages"`
}
