package retroachievements

// UserProfile is the response of GetUserProfile.
type UserProfile struct {
	User            string    `json:"User"`
	ULID            string    `json:"ULID"`
	UserPic         string    `json:"UserPic"`
	MemberSince     Timestamp `json:"MemberSince"`
	RichPresenceMsg string    `json:"RichPresenceMsg"`
	LastGameID      FlexInt   `json:"LastGameID"`
	ContribCount    FlexInt   `json:"ContribCount"`
	ContribYield    FlexInt   `json:"ContribYield"`
	TotalPoints     FlexInt   `json:"TotalPoints"`
	TotalTruePoints FlexInt   `json:"TotalTruePoints"`
	Permissions     FlexInt   `json:"Permissions"`
	Untracked       FlexInt   `json:"Untracked"`
	ID              FlexInt   `json:"ID"`
	Motto           string    `json:"Motto"`
}

// RecentlyPlayedGame is one entry from GetUserRecentlyPlayedGames.
type RecentlyPlayedGame struct {
	GameID                  FlexInt   `json:"GameID"`
	ConsoleID               FlexInt   `json:"ConsoleID"`
	ConsoleName             string    `json:"ConsoleName"`
	Title                   string    `json:"Title"`
	ImageIcon               string    `json:"ImageIcon"`
	LastPlayed              Timestamp `json:"LastPlayed"`
	NumPossibleAchievements FlexInt   `json:"NumPossibleAchievements"`
	PossibleScore           FlexInt   `json:"PossibleScore"`
	NumAchieved             FlexInt   `json:"NumAchieved"`
	ScoreAchieved           FlexInt   `json:"ScoreAchieved"`
	NumAchievedHardcore     FlexInt   `json:"NumAchievedHardcore"`
	ScoreAchievedHardcore   FlexInt   `json:"ScoreAchievedHardcore"`
}

// GameAchievement is a single achievement with the user's earn state, as
// embedded in GetGameInfoAndUserProgress.
type GameAchievement struct {
	ID                 FlexInt   `json:"ID"`
	Title              string    `json:"Title"`
	Description        string    `json:"Description"`
	Points             FlexInt   `json:"Points"`
	TrueRatio          FlexInt   `json:"TrueRatio"`
	BadgeName          string    `json:"BadgeName"`
	DisplayOrder       FlexInt   `json:"DisplayOrder"`
	DateEarned         Timestamp `json:"DateEarned"`
	DateEarnedHardcore Timestamp `json:"DateEarnedHardcore"`
}

// Earned reports whether the user has unlocked the achievement in any mode.
func (a *GameAchievement) Earned() bool {
	return a.DateEarned.Valid || a.DateEarnedHardcore.Valid
}

// GameProgress is the response of GetGameInfoAndUserProgress.
type GameProgress struct {
	ID                     FlexInt                    `json:"ID"`
	Title                  string                     `json:"Title"`
	ConsoleID              FlexInt                    `json:"ConsoleID"`
	ConsoleName            string                     `json:"ConsoleName"`
	ImageIcon              string                     `json:"ImageIcon"`
	NumAchievements        FlexInt                    `json:"NumAchievements"`
	NumDistinctPlayers     FlexInt                    `json:"NumDistinctPlayers"`
	Achievements           map[string]GameAchievement `json:"Achievements"`
	NumAwardedToUser       FlexInt                    `json:"NumAwardedToUser"`
	UserCompletion         string                     `json:"UserCompletion"`
	UserCompletionHardcore string                     `json:"UserCompletionHardcore"`
}

// UserSummary is the response of GetUserSummary.
type UserSummary struct {
	User            string               `json:"User"`
	TotalPoints     FlexInt              `json:"TotalPoints"`
	TotalTruePoints FlexInt              `json:"TotalTruePoints"`
	Rank            FlexInt              `json:"Rank"`
	TotalRanked     FlexInt              `json:"TotalRanked"`
	MemberSince     Timestamp            `json:"MemberSince"`
	RichPresenceMsg string               `json:"RichPresenceMsg"`
	RecentlyPlayed  []RecentlyPlayedGame `json:"RecentlyPlayed"`
	Status          string               `json:"Status"`
}

// GameListEntry is one game from GetGameList.
type GameListEntry struct {
	ID              FlexInt  `json:"ID"`
	Title           string   `json:"Title"`
	ConsoleID       FlexInt  `json:"ConsoleID"`
	ConsoleName     string   `json:"ConsoleName"`
	ImageIcon       string   `json:"ImageIcon"`
	NumAchievements FlexInt  `json:"NumAchievements"`
	Points          FlexInt  `json:"Points"`
	NumLeaderboards FlexInt  `json:"NumLeaderboards"`
	Hashes          []string `json:"Hashes"`
}

// EarnedAchievement is one entry from GetAchievementsEarnedBetween.
type EarnedAchievement struct {
	Date          Timestamp `json:"Date"`
	HardcoreMode  FlexInt   `json:"HardcoreMode"`
	AchievementID FlexInt   `json:"AchievementID"`
	Title         string    `json:"Title"`
	Description   string    `json:"Description"`
	Points        FlexInt   `json:"Points"`
	BadgeName     string    `json:"BadgeName"`
	GameID        FlexInt   `json:"GameID"`
	GameTitle     string    `json:"GameTitle"`
	ConsoleName   string    `json:"ConsoleName"`
}
