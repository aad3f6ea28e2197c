package topics

const (
	// Ledger
	BetPlaced    = "bet_placed"
	MatchSettled = "match_settled"
	LedgerSynced = "ledger_synced"
)
