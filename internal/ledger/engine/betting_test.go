package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/radieske/tournament-ledger-poc/internal/ledger"
)

func sampleDataset() *ledger.Dataset {
	return &ledger.Dataset{
		Teams: []ledger.Team{
			{Name: "Alpha", Balance: 10_000_000, HomeTeam: "A"},
			{Name: "Charlie", Balance: 5_000_000, HomeTeam: "C"},
			{Name: "Echo", Balance: 2_000_000, HomeTeam: "E"},
		},
		Matches: []ledger.Match{
			{MatchID: 1, Team1: "A", Team2: "B", Date: "2026-04-01", Venue: "Mumbai"},
			{MatchID: 2, Team1: "C", Team2: "D", Date: "2026-04-02", Venue: "Chennai"},
			{MatchID: 3, Team1: "B", Team2: "D", Date: "2026-04-03", Venue: "Delhi"},
		},
	}
}

func TestPlaceBet_Success(t *testing.T) {
	ds := sampleDataset()
	now := time.Date(2026, time.March, 30, 12, 0, 0, 0, time.UTC)

	bet, err := PlaceBet(ds, "Alpha", 1, "A", 500_000, now)
	if err != nil {
		t.Fatalf("PlaceBet() error = %v", err)
	}

	if got := ds.Team("Alpha").Balance; got != 9_500_000 {
		t.Errorf("balance after placement = %d, want 9500000", got)
	}
	if len(ds.Bets) != 1 {
		t.Fatalf("bets = %d, want exactly 1", len(ds.Bets))
	}
	if bet.Status != ledger.StatusPending {
		t.Errorf("status = %q, want pending", bet.Status)
	}
	if !bet.IsHomeTeam {
		t.Errorf("is_home_team = false, want true (A plays match 1)")
	}
	if bet.Winnings != 0 {
		t.Errorf("winnings = %d, want 0", bet.Winnings)
	}
	if bet.Timestamp != now.Format(time.RFC3339) {
		t.Errorf("timestamp = %q, want %q", bet.Timestamp, now.Format(time.RFC3339))
	}
}

func TestPlaceBet_AwayPrediction(t *testing.T) {
	ds := sampleDataset()

	// partida 3 não envolve a franquia do Alpha; qualquer lado vale
	bet, err := PlaceBet(ds, "Alpha", 3, "D", 1_000_000, time.Now())
	if err != nil {
		t.Fatalf("PlaceBet() error = %v", err)
	}
	if bet.IsHomeTeam {
		t.Errorf("is_home_team = true, want false (A does not play match 3)")
	}
}

func TestPlaceBet_Validation(t *testing.T) {
	testCases := []struct {
		name       string
		team       string
		matchID    int
		prediction string
		amount     int64
		wantErr    error
	}{
		{"unknown match", "Alpha", 99, "A", 500_000, ErrMatchNotFound},
		{"unknown team", "Nobody", 1, "A", 500_000, ErrTeamNotFound},
		{"zero amount", "Alpha", 3, "B", 0, ErrInvalidAmount},
		{"negative amount", "Alpha", 3, "B", -500_000, ErrInvalidAmount},
		{"not a unit multiple", "Alpha", 3, "B", 750_000, ErrInvalidAmount},
		{"insufficient balance", "Echo", 3, "B", 2_500_000, ErrInsufficientBalance},
		{"home team constraint", "Charlie", 2, "D", 500_000, ErrHomeTeamConstraint},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ds := sampleDataset()
			before := append([]ledger.Team(nil), ds.Teams...)

			_, err := PlaceBet(ds, tc.team, tc.matchID, tc.prediction, tc.amount, time.Now())
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("PlaceBet() error = %v, want %v", err, tc.wantErr)
			}

			// falha de validação nunca deixa efeito colateral
			if len(ds.Bets) != 0 {
				t.Errorf("bets = %d after rejected placement, want 0", len(ds.Bets))
			}
			for i, tm := range ds.Teams {
				if tm.Balance != before[i].Balance {
					t.Errorf("team %s balance changed on rejected placement", tm.Name)
				}
			}
		})
	}
}

func TestPlaceBet_HomeTeamMessageNamesRequiredTeam(t *testing.T) {
	ds := sampleDataset()

	_, err := PlaceBet(ds, "Charlie", 2, "D", 500_000, time.Now())
	if err == nil {
		t.Fatal("PlaceBet() accepted a bet against the home team")
	}
	if want := "must bet on home team: C"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestPlaceBet_Duplicate(t *testing.T) {
	ds := sampleDataset()

	if _, err := PlaceBet(ds, "Alpha", 1, "A", 500_000, time.Now()); err != nil {
		t.Fatalf("first placement: %v", err)
	}

	// segunda aposta do mesmo time na mesma partida falha sempre,
	// independente de valor ou palpite
	_, err := PlaceBet(ds, "Alpha", 1, "B", 1_000_000, time.Now())
	if !errors.Is(err, ErrDuplicateBet) {
		t.Fatalf("PlaceBet() error = %v, want ErrDuplicateBet", err)
	}
	if got := ds.Team("Alpha").Balance; got != 9_500_000 {
		t.Errorf("balance changed on rejected duplicate: %d", got)
	}
}
