package engine

import (
	"fmt"
	"strings"

	"github.com/radieske/tournament-ledger-poc/internal/ledger"
)

// Settlement resume o efeito de um acerto de contas
type Settlement struct {
	MatchID       int
	Winner        string
	BetsWon       int
	BetsLost      int
	TotalWinnings int64 // total creditado aos vencedores
}

// ValidateSettlement executa só as validações de SettleMatch, sem mutação.
// Usado na etapa de proposta do fluxo de confirmação em dois passos
func ValidateSettlement(ds *ledger.Dataset, matchID int, winner string) error {
	if strings.TrimSpace(winner) == "" {
		return fmt.Errorf("%w: winner team name cannot be empty", ErrInvalidWinner)
	}

	match := ds.Match(matchID)
	if match == nil {
		return fmt.Errorf("%w: match ID %d", ErrMatchNotFound, matchID)
	}

	// resultado já lançado não pode ser relançado; reprocessar apostas já
	// liquidadas sob outro vencedor deixaria o ledger inconsistente
	if match.Settled() {
		return fmt.Errorf("%w: match %d, winner %s", ErrMatchAlreadySettled, matchID, match.Winner)
	}

	if !match.HasTeam(winner) {
		return fmt.Errorf("%w: winner must be either %s or %s", ErrInvalidWinner, match.Team1, match.Team2)
	}

	return nil
}

// SettleMatch lança o vencedor da partida e liquida todas as apostas
// pendentes sobre ela. Só apostas pending são tocadas, então a aritmética é
// idempotente por aposta. Aposta certa paga 4x para time da casa, 2x caso
// contrário; a perdedora não debita de novo, o stake saiu na colocação
func SettleMatch(ds *ledger.Dataset, matchID int, winner string) (*Settlement, error) {
	if err := ValidateSettlement(ds, matchID, winner); err != nil {
		return nil, err
	}

	match := ds.Match(matchID)
	match.Winner = winner

	res := &Settlement{MatchID: matchID, Winner: winner}

	for i := range ds.Bets {
		bet := &ds.Bets[i]
		if bet.MatchID != matchID || bet.Status != ledger.StatusPending {
			continue
		}

		team := ds.Team(bet.Team)
		if team == nil {
			// registro do time sumiu; não deveria ocorrer, pula sem travar
			// a liquidação das demais apostas
			continue
		}

		if bet.Prediction == winner {
			multiplier := int64(ledger.MultiplierAway)
			if bet.IsHomeTeam {
				multiplier = ledger.MultiplierHome
			}
			bet.Winnings = bet.Amount * multiplier
			bet.Status = ledger.StatusWon
			team.Balance += bet.Winnings

			res.BetsWon++
			res.TotalWinnings += bet.Winnings
		} else {
			bet.Winnings = 0
			bet.Status = ledger.StatusLost
			res.BetsLost++
		}
	}

	return res, nil
}
