package player

type ProfileResponse struct {
	Address         string `json:"address"`
	Username        string `json:"username,omitempty"`
	Registered      bool   `json:"registered"`
	TotalPoints     uint64 `json:"total_points"`
	TotalPointsText string `json:"total_points_text"`
	TotalGames      uint32 `json:"total_games"`
	Wins            uint32 `json:"wins"`
	Losses          uint32 `json:"losses"`
	WinRate         int    `json:"win_rate"`
	UnclaimedPoints uint64 `json:"unclaimed_points"`
	HasUnclaimed    bool   `json:"has_unclaimed"`
}

type RegisterRequest struct {
	Username string `json:"username"`
}
