package engine

import (
	"fmt"
	"time"

	"github.com/radieske/tournament-ledger-poc/internal/ledger"
)

// PlaceBet valida e aplica uma aposta sobre o dataset em memória. A primeira
// validação que falhar interrompe o fluxo e nada é mutado. O saldo do time é
// debitado imediatamente; o crédito só acontece no acerto de contas
func PlaceBet(ds *ledger.Dataset, teamName string, matchID int, prediction string, amount int64, now time.Time) (*ledger.Bet, error) {
	match := ds.Match(matchID)
	if match == nil {
		return nil, fmt.Errorf("%w: match ID %d", ErrMatchNotFound, matchID)
	}

	team := ds.Team(teamName)
	if team == nil {
		return nil, fmt.Errorf("%w: team %s", ErrTeamNotFound, teamName)
	}

	if existing := ds.BetFor(matchID, teamName); existing != nil {
		return nil, fmt.Errorf("%w: team %s, match %d", ErrDuplicateBet, teamName, matchID)
	}

	if amount <= 0 || amount%ledger.BetUnit != 0 {
		return nil, ErrInvalidAmount
	}

	if team.Balance < amount {
		return nil, ErrInsufficientBalance
	}

	// restrição de time da casa: se a franquia do participante joga a
	// partida, a aposta só pode ser nela
	isHomeTeam := match.HasTeam(team.HomeTeam)
	if isHomeTeam && prediction != team.HomeTeam {
		return nil, fmt.Errorf("%w: %s", ErrHomeTeamConstraint, team.HomeTeam)
	}

	team.Balance -= amount

	bet := ledger.Bet{
		MatchID:    matchID,
		Team:       teamName,
		Prediction: prediction,
		Amount:     amount,
		IsHomeTeam: isHomeTeam,
		Status:     ledger.StatusPending,
		Winnings:   0,
		Timestamp:  now.Format(time.RFC3339),
	}
	ds.Bets = append(ds.Bets, bet)

	return &ds.Bets[len(ds.Bets)-1], nil
}
