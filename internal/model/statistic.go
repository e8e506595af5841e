package model

// LeaderboardEntry ranks users by the points of their finds in the period.
// TotalPoints is the ledger total, which also includes quest and achievement
// rewards.
type LeaderboardEntry struct {
	Rank           int  `json:"rank"`
	User           User `json:"user"`
	Points         int  `json:"points"`
	TotalPoints    int  `json:"total_points"`
	Level          int  `json:"level"`
	MushroomsFound int  `json:"mushrooms_found"`
}

type GetLeaderBoardRequest struct {
	Period string `json:"period" validate:"required,oneof=daily weekly monthly all_time"`
	Offset int    `json:"offset" validate:"gte=0"`
	Limit  int    `json:"limit" validate:"gte=0"`
}

type GetLeaderBoardResponse struct {
	Period      string             `json:"period"`
	LeaderBoard []LeaderboardEntry `json:"leaderboard"`
}

type GetMyRankRequest struct {
	Period string `json:"period" validate:"required,oneof=daily weekly monthly all_time"`
}

type GetMyRankResponse struct {
	Rank uint64 `json:"rank"`
}
