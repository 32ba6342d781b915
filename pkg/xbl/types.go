package xbl

import "time"

// ProfileSetting is a single key/value profile field.
type ProfileSetting struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Profile is one user from the profile settings batch.
type Profile struct {
	ID       string           `json:"id"`
	HostID   string           `json:"hostId"`
	Settings []ProfileSetting `json:"settings"`
}

// Setting returns the value of a named profile setting, or "".
func (p *Profile) Setting(id string) string {
	for _, s := range p.Settings {
		if s.ID == id {
			return s.Value
		}
	}
	return ""
}

type profileEnvelope struct {
	ProfileUsers []Profile `json:"profileUsers"`
}

// TitleAchievementSummary is the achievement decoration on a title record.
type TitleAchievementSummary struct {
	CurrentAchievements int     `json:"currentAchievements"`
	TotalAchievements   int     `json:"totalAchievements"`
	CurrentGamerscore   int     `json:"currentGamerscore"`
	TotalGamerscore     int     `json:"totalGamerscore"`
	ProgressPercentage  float64 `json:"progressPercentage"`
}

// TitleHistory records when a title was last played.
type TitleHistory struct {
	LastTimePlayed time.Time `json:"lastTimePlayed"`
}

// Title is one entry from the title hub history.
type Title struct {
	TitleID      string                  `json:"titleId"`
	Name         string                  `json:"name"`
	DisplayImage string                  `json:"displayImage"`
	Achievement  TitleAchievementSummary `json:"achievement"`
	TitleHistory *TitleHistory           `json:"titleHistory,omitempty"`
}

type titleHistoryEnvelope struct {
	XUID   string  `json:"xuid"`
	Titles []Title `json:"titles"`
}

// AchievementReward is a reward attached to an achievement, usually
// gamerscore.
type AchievementReward struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// AchievementProgression records when an achievement unlocked. TimeUnlocked
// is nil for locked achievements.
type AchievementProgression struct {
	TimeUnlocked *time.Time `json:"timeUnlocked,omitempty"`
}

// Achievement is a single achievement's state for the authenticated user.
type Achievement struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	ProgressState string                 `json:"progressState"`
	IsSecret      bool                   `json:"isSecret"`
	Progression   AchievementProgression `json:"progression"`
	Rewards       []AchievementReward    `json:"rewards"`
}

// Unlocked reports whether the achievement has been achieved.
func (a *Achievement) Unlocked() bool {
	return a.ProgressState == "Achieved"
}

type achievementsEnvelope struct {
	Achievements []Achievement `json:"achievements"`
	PagingInfo   struct {
		ContinuationToken string `json:"continuationToken"`
		TotalRecords      int    `json:"totalRecords"`
	} `json:"pagingInfo"`
}

// AchievementsPage is the payload of GetAchievements.
type AchievementsPage struct {
	Achievements      []Achievement
	ContinuationToken string
	TotalRecords      int
}

// StatRequest names one statistic to fetch for a title.
type StatRequest struct {
	Name    string `json:"name"`
	TitleID string `json:"titleId"`
}

// Stat is one statistic value for one user and title.
type Stat struct {
	Name    string      `json:"name"`
	TitleID string      `json:"titleid"`
	Value   interface{} `json:"value"`
}

type statsEnvelope struct {
	StatListsCollection []struct {
		Stats []Stat `json:"stats"`
	} `json:"statlistscollection"`
}
