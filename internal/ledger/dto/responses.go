package dto

type MessageResponse struct {
	Message string `json:"message"`
}

type ProposeResultResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type LeaderboardEntry struct {
	Rank             int    `json:"rank"`
	Team             string `json:"team"`
	Balance          int64  `json:"balance"`
	BalanceFormatted string `json:"balance_formatted"`
}
