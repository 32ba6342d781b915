package psn

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// TrophyCounts groups trophies by grade.
type TrophyCounts struct {
	Bronze   int `json:"bronze"`
	Silver   int `json:"silver"`
	Gold     int `json:"gold"`
	Platinum int `json:"platinum"`
}

// TrophyTitle is one entry in a user's trophy title list.
type TrophyTitle struct {
	NpServiceName       string       `json:"npServiceName"`
	NpCommunicationID   string       `json:"npCommunicationId"`
	TrophyTitleName     string       `json:"trophyTitleName"`
	TrophyTitleIconURL  string       `json:"trophyTitleIconUrl"`
	TrophyTitlePlatform string       `json:"trophyTitlePlatform"`
	HasTrophyGroups     bool         `json:"hasTrophyGroups"`
	Progress            int          `json:"progress"`
	HiddenFlag          bool         `json:"hiddenFlag"`
	DefinedTrophies     TrophyCounts `json:"definedTrophies"`
	EarnedTrophies      TrophyCounts `json:"earnedTrophies"`
	LastUpdatedDateTime time.Time    `json:"lastUpdatedDateTime"`
}

// TrophyTitlesPage is the payload of GetUserTitles.
type TrophyTitlesPage struct {
	TrophyTitles   []TrophyTitle `json:"trophyTitles"`
	TotalItemCount int           `json:"totalItemCount"`
	NextOffset     int           `json:"nextOffset"`
	PreviousOffset int           `json:"previousOffset"`
}

// Trophy is a trophy definition within a title.
type Trophy struct {
	TrophyID      int    `json:"trophyId"`
	TrophyHidden  bool   `json:"trophyHidden"`
	TrophyType    string `json:"trophyType"`
	TrophyName    string `json:"trophyName"`
	TrophyDetail  string `json:"trophyDetail"`
	TrophyIconURL string `json:"trophyIconUrl"`
	TrophyGroupID string `json:"trophyGroupId"`
}

// TrophiesPage is the payload of GetTitleTrophies.
type TrophiesPage struct {
	TrophySetVersion string   `json:"trophySetVersion"`
	HasTrophyGroups  bool     `json:"hasTrophyGroups"`
	Trophies         []Trophy `json:"trophies"`
	TotalItemCount   int      `json:"totalItemCount"`
}

// EarnedTrophy is a user's earned state for one trophy. EarnedDateTime is
// nil for trophies never earned; PSN omits the field rather than sending a
// zero date.
type EarnedTrophy struct {
	TrophyID         int        `json:"trophyId"`
	TrophyHidden     bool       `json:"trophyHidden"`
	Earned           bool       `json:"earned"`
	EarnedDateTime   *time.Time `json:"earnedDateTime,omitempty"`
	TrophyType       string     `json:"trophyType"`
	TrophyRare       int        `json:"trophyRare"`
	TrophyEarnedRate EarnedRate `json:"trophyEarnedRate"`
}

// EarnedTrophiesPage is the payload of GetUserEarnedTrophies.
type EarnedTrophiesPage struct {
	TrophySetVersion    string         `json:"trophySetVersion"`
	Trophies            []EarnedTrophy `json:"trophies"`
	TotalItemCount      int            `json:"totalItemCount"`
	LastUpdatedDateTime time.Time      `json:"lastUpdatedDateTime"`
}

// TrophySummary is the payload of GetUserTrophySummary.
type TrophySummary struct {
	AccountID      string       `json:"accountId"`
	TrophyLevel    int          `json:"trophyLevel"`
	Progress       int          `json:"progress"`
	Tier           int          `json:"tier"`
	EarnedTrophies TrophyCounts `json:"earnedTrophies"`
}

// EarnedRate accepts PSN's string-wrapped percentages ("48.4") as well as
// bare numbers.
type EarnedRate float64

// UnmarshalJSON implements json.Unmarshaler for EarnedRate
func (r *EarnedRate) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	if str == "" || str == "null" {
		*r = 0
		return nil
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return err
	}
	*r = EarnedRate(v)
	return nil
}

// MarshalJSON implements json.Marshaler for EarnedRate
func (r EarnedRate) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatFloat(float64(r), 'f', -1, 64))
}

// SearchResult is one hit from the universal search GraphQL operation.
type SearchResult struct {
	ID     string `json:"id"`
	Type   string `json:"__typename"`
	Name   string `json:"name"`
	Result json.RawMessage `json:"result"`
}
