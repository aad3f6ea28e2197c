package events

type MatchSettled struct {
	MatchID       int    `json:"match_id"`
	Winner        string `json:"winner"`
	BetsWon       int    `json:"bets_won"`
	BetsLost      int    `json:"bets_lost"`
	TotalWinnings int64  `json:"total_winnings"` // soma creditada aos vencedores
	TsUnixMs      int64  `json:"ts_unix_ms"`
}
