package mirror

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/radieske/tournament-ledger-poc/internal/ledger"
)

// Arquivos do espelho tabular, um por documento
const (
	TeamsCSV   = "teams.csv"
	MatchesCSV = "matches.csv"
	BetsCSV    = "bets.csv"
)

// CSV exporta os três documentos do ledger pra arquivos tabulares. É um
// espelho derivado de melhor esforço: nunca é lido de volta como fonte da
// verdade e falha aqui não derruba a operação que o disparou
type CSV struct{ dir string }

func New(dir string) *CSV { return &CSV{dir: dir} }

// Export reescreve os três arquivos a partir do dataset corrente
func (c *CSV) Export(ds *ledger.Dataset) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("mirror dir: %w", err)
	}

	if err := c.write(TeamsCSV, teamRows(ds.Teams)); err != nil {
		return err
	}
	if err := c.write(MatchesCSV, matchRows(ds.Matches)); err != nil {
		return err
	}
	return c.write(BetsCSV, betRows(ds.Bets))
}

func (c *CSV) write(name string, rows [][]string) error {
	f, err := os.Create(filepath.Join(c.dir, name))
	if err != nil {
		return fmt.Errorf("mirror %s: %w", name, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("mirror %s: %w", name, err)
	}
	return f.Close()
}

func teamRows(teams []ledger.Team) [][]string {
	rows := [][]string{{"team", "balance", "home_team"}}
	for _, t := range teams {
		rows = append(rows, []string{t.Name, strconv.FormatInt(t.Balance, 10), t.HomeTeam})
	}
	return rows
}

// venue vai por último, depois de winner, na planilha original
func matchRows(matches []ledger.Match) [][]string {
	rows := [][]string{{"match_id", "date", "team1", "team2", "winner", "venue"}}
	for _, m := range matches {
		rows = append(rows, []string{
			strconv.Itoa(m.MatchID), m.Date, m.Team1, m.Team2, m.Winner, m.Venue,
		})
	}
	return rows
}

func betRows(bets []ledger.Bet) [][]string {
	rows := [][]string{{"match_id", "team", "prediction", "amount", "is_home_team", "status", "winnings", "timestamp"}}
	for _, b := range bets {
		rows = append(rows, []string{
			strconv.Itoa(b.MatchID), b.Team, b.Prediction,
			strconv.FormatInt(b.Amount, 10), strconv.FormatBool(b.IsHomeTeam),
			b.Status, strconv.FormatInt(b.Winnings, 10), b.Timestamp,
		})
	}
	return rows
}
