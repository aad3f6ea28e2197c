package events

type BetPlaced struct {
	Team       string `json:"team"`
	MatchID    int    `json:"match_id"`
	Prediction string `json:"prediction"`
	Amount     int64  `json:"amount"`
	IsHomeTeam bool   `json:"is_home_team"`
	TsUnixMs   int64  `json:"ts_unix_ms"`
}
