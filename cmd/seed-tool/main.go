package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/tournament-ledger-poc/internal/ledger"
	"github.com/radieske/tournament-ledger-poc/internal/ledger/repo"
	"github.com/radieske/tournament-ledger-poc/internal/shared/logger"
)

// seed-tool cria os documentos iniciais do torneio: participantes com saldo
// de largada e a grade de partidas (round robin simples entre as franquias).
// Partidas são criadas só por aqui; o serviço nunca as cria
func main() {
	var (
		dataDir = flag.String("data", "data", "diretório dos documentos do ledger")
		balance = flag.Int64("balance", 10_000_000, "saldo inicial de cada participante")
		teams   = flag.String("teams", "", "participantes, formato Nome=Franquia,Nome=Franquia,...")
		start   = flag.String("start", time.Now().Format("2006-01-02"), "data da primeira partida (YYYY-MM-DD)")
		venue   = flag.String("venue", "TBD", "estádio padrão das partidas")
		force   = flag.Bool("force", false, "sobrescreve documentos existentes")
	)
	flag.Parse()

	log, err := logger.New("seed-tool", "local")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if *teams == "" {
		log.Fatal("-teams is required (ex: Alpha=MI,Bravo=CSK)")
	}

	files := repo.NewFiles(*dataDir)
	if _, err := os.Stat(files.Path(repo.TeamsFile)); err == nil && !*force {
		log.Fatal("documents already exist; use -force to overwrite", zap.String("dir", *dataDir))
	}

	ds, err := buildDataset(*teams, *balance, *start, *venue)
	if err != nil {
		log.Fatal("seed", zap.Error(err))
	}

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		log.Fatal("data dir", zap.Error(err))
	}
	if err := files.SaveAll(ds); err != nil {
		log.Fatal("write documents", zap.Error(err))
	}

	log.Info("ledger seeded",
		zap.Int("teams", len(ds.Teams)),
		zap.Int("matches", len(ds.Matches)),
		zap.String("dir", *dataDir),
	)
}

func buildDataset(spec string, balance int64, start, venue string) (*ledger.Dataset, error) {
	firstDay, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}

	ds := &ledger.Dataset{Bets: []ledger.Bet{}}

	var franchises []string
	seen := map[string]bool{}
	for _, part := range strings.Split(spec, ",") {
		name, franchise, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name == "" || franchise == "" {
			return nil, fmt.Errorf("invalid team spec %q", part)
		}
		ds.Teams = append(ds.Teams, ledger.Team{Name: name, Balance: balance, HomeTeam: franchise})
		if !seen[franchise] {
			seen[franchise] = true
			franchises = append(franchises, franchise)
		}
	}

	// round robin: cada franquia enfrenta cada outra uma vez, um jogo por dia
	id := 0
	for i := 0; i < len(franchises); i++ {
		for j := i + 1; j < len(franchises); j++ {
			id++
			ds.Matches = append(ds.Matches, ledger.Match{
				MatchID: id,
				Team1:   franchises[i],
				Team2:   franchises[j],
				Date:    firstDay.AddDate(0, 0, id-1).Format("2006-01-02"),
				Venue:   venue,
			})
		}
	}

	return ds, nil
}
