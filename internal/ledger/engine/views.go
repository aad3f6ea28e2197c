package engine

import (
	"fmt"
	"sort"

	"github.com/radieske/tournament-ledger-poc/internal/ledger"
)

// Leaderboard retorna os times por saldo decrescente. Empates preservam a
// ordem do documento
func Leaderboard(ds *ledger.Dataset) []ledger.Team {
	out := make([]ledger.Team, len(ds.Teams))
	copy(out, ds.Teams)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Balance > out[j].Balance
	})
	return out
}

// HistoryEntry é uma aposta liquidada vista do lado do time
type HistoryEntry struct {
	MatchID       int    `json:"match_id"`
	Match         string `json:"match"` // "Team1 vs Team2"
	Date          string `json:"date"`
	BetAmount     int64  `json:"bet_amount"`
	Prediction    string `json:"prediction"`
	ActualWinner  string `json:"actual_winner"`
	Result        string `json:"result"`
	Winnings      int64  `json:"winnings"`
	BalanceChange int64  `json:"balance_change"`
}

// TeamHistory agrega as apostas liquidadas de um time e o valor ainda preso
// em apostas pendentes
type TeamHistory struct {
	Team           string         `json:"team"`
	CurrentBalance int64          `json:"current_balance"`
	HomeTeam       string         `json:"home_team"`
	PendingAmount  int64          `json:"pending_amount"` // stake em apostas não liquidadas
	History        []HistoryEntry `json:"history"`
}

// History monta o extrato de um time: apostas com partida resolvida, em ordem
// de timestamp crescente. Apostas pendentes ficam fora do extrato e aparecem
// só no agregado PendingAmount
func History(ds *ledger.Dataset, teamName string) (*TeamHistory, error) {
	team := ds.Team(teamName)
	if team == nil {
		return nil, fmt.Errorf("%w: team %s", ErrTeamNotFound, teamName)
	}

	var teamBets []ledger.Bet
	for _, b := range ds.Bets {
		if b.Team == teamName {
			teamBets = append(teamBets, b)
		}
	}
	sort.SliceStable(teamBets, func(i, j int) bool {
		return teamBets[i].Timestamp < teamBets[j].Timestamp
	})

	th := &TeamHistory{
		Team:           teamName,
		CurrentBalance: team.Balance,
		HomeTeam:       team.HomeTeam,
		History:        []HistoryEntry{},
	}

	for _, bet := range teamBets {
		match := ds.Match(bet.MatchID)
		if match == nil {
			continue
		}

		if !match.Settled() {
			th.PendingAmount += bet.Amount
			continue
		}

		change := -bet.Amount
		if bet.Status == ledger.StatusWon {
			change = bet.Winnings - bet.Amount
		}

		th.History = append(th.History, HistoryEntry{
			MatchID:       bet.MatchID,
			Match:         fmt.Sprintf("%s vs %s", match.Team1, match.Team2),
			Date:          match.Date,
			BetAmount:     bet.Amount,
			Prediction:    bet.Prediction,
			ActualWinner:  match.Winner,
			Result:        bet.Status,
			Winnings:      bet.Winnings,
			BalanceChange: change,
		})
	}

	return th, nil
}
