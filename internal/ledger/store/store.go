package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/tournament-ledger-poc/internal/ledger"
	"github.com/radieske/tournament-ledger-poc/internal/ledger/engine"
	"github.com/radieske/tournament-ledger-poc/internal/ledger/proposal"
	"github.com/radieske/tournament-ledger-poc/internal/ledger/repo"
	"github.com/radieske/tournament-ledger-poc/internal/mirror"
	"github.com/radieske/tournament-ledger-poc/internal/remote"
	"github.com/radieske/tournament-ledger-poc/pkg/contracts/events"
)

var opsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "ledger_operations_total", Help: "operações do ledger por desfecho"},
	[]string{"op", "result"},
)

func init() {
	prometheus.MustRegister(opsTotal)
}

// Publisher emite os eventos de domínio do ledger (fire-and-forget)
type Publisher interface {
	PublishBetPlaced(context.Context, events.BetPlaced) error
	PublishMatchSettled(context.Context, events.MatchSettled) error
	PublishLedgerSynced(context.Context, events.LedgerSynced) error
}

// Store orquestra cada operação do ledger como uma unidade de trabalho:
// carrega os três documentos, aplica a mutação, persiste local (fonte da
// verdade), empurra pro espelho remoto e dispara os efeitos derivados.
// O mutex serializa os escritores locais; contra escritores de OUTROS
// processos no remoto vale só o protocolo de token de versão do client
type Store struct {
	mu        sync.Mutex
	log       *zap.Logger
	files     *repo.Files
	remote    *remote.Client // nil desabilita o espelho remoto
	proposals proposal.Store
	mirror    *mirror.CSV // nil desabilita o espelho tabular
	publ      Publisher   // nil desabilita eventos

	proposalTTL time.Duration
}

func New(log *zap.Logger, files *repo.Files, rc *remote.Client, props proposal.Store, csv *mirror.CSV, publ Publisher, proposalTTL time.Duration) *Store {
	return &Store{
		log:         log,
		files:       files,
		remote:      rc,
		proposals:   props,
		mirror:      csv,
		publ:        publ,
		proposalTTL: proposalTTL,
	}
}

// PlaceBet valida, debita e registra uma aposta. Falha de validação não
// deixa efeito colateral nenhum; falha do espelho remoto vira aviso na
// mensagem, o estado local já é definitivo
func (s *Store) PlaceBet(ctx context.Context, team string, matchID int, prediction string, amount int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.files.LoadAll()
	if err != nil {
		opsTotal.WithLabelValues("place_bet", "error").Inc()
		return "", fmt.Errorf("load ledger: %w", err)
	}

	bet, err := engine.PlaceBet(ds, team, matchID, prediction, amount, time.Now())
	if err != nil {
		opsTotal.WithLabelValues("place_bet", "rejected").Inc()
		return "", err
	}

	if err := s.files.SaveAll(ds); err != nil {
		opsTotal.WithLabelValues("place_bet", "error").Inc()
		return "", fmt.Errorf("persist ledger: %w", err)
	}

	msg := fmt.Sprintf("Bet placed successfully for %s on match %d (%s staked).",
		team, matchID, ledger.FormatCurrency(amount))
	msg = s.withSyncWarning(msg, s.push(ctx, ds, repo.BetsFile, repo.TeamsFile))

	s.export(ds)
	if s.publ != nil {
		if err := s.publ.PublishBetPlaced(ctx, events.BetPlaced{
			Team: team, MatchID: matchID, Prediction: prediction,
			Amount: amount, IsHomeTeam: bet.IsHomeTeam,
		}); err != nil {
			s.log.Warn("publish bet_placed", zap.Error(err))
		}
	}

	opsTotal.WithLabelValues("place_bet", "ok").Inc()
	return msg, nil
}

// ProposeSettlement valida o lançamento de resultado e devolve um token que
// precisa ser confirmado dentro do TTL. Nada é mutado até a confirmação
func (s *Store) ProposeSettlement(ctx context.Context, matchID int, winner string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.files.LoadAll()
	if err != nil {
		return "", fmt.Errorf("load ledger: %w", err)
	}
	if err := engine.ValidateSettlement(ds, matchID, winner); err != nil {
		opsTotal.WithLabelValues("propose_settlement", "rejected").Inc()
		return "", err
	}

	p := proposal.Proposal{Token: proposal.NewToken(), MatchID: matchID, Winner: winner}
	if err := s.proposals.Put(ctx, p, s.proposalTTL); err != nil {
		return "", fmt.Errorf("stage settlement proposal: %w", err)
	}

	opsTotal.WithLabelValues("propose_settlement", "ok").Inc()
	return p.Token, nil
}

// ConfirmSettlement consome o token (uso único) e executa a liquidação
func (s *Store) ConfirmSettlement(ctx context.Context, token string) (string, error) {
	p, err := s.proposals.Consume(ctx, token)
	if err != nil {
		opsTotal.WithLabelValues("confirm_settlement", "rejected").Inc()
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.files.LoadAll()
	if err != nil {
		return "", fmt.Errorf("load ledger: %w", err)
	}

	res, err := engine.SettleMatch(ds, p.MatchID, p.Winner)
	if err != nil {
		opsTotal.WithLabelValues("confirm_settlement", "rejected").Inc()
		return "", err
	}

	if err := s.files.SaveAll(ds); err != nil {
		opsTotal.WithLabelValues("confirm_settlement", "error").Inc()
		return "", fmt.Errorf("persist ledger: %w", err)
	}

	// só os documentos que mudaram vão pro remoto
	changed := []string{repo.MatchesFile}
	if res.BetsWon+res.BetsLost > 0 {
		changed = append(changed, repo.BetsFile, repo.TeamsFile)
	}

	msg := fmt.Sprintf("Match %d result updated. Winner: %s (%d won, %d lost, %s paid out).",
		p.MatchID, p.Winner, res.BetsWon, res.BetsLost, ledger.FormatCurrency(res.TotalWinnings))
	msg = s.withSyncWarning(msg, s.push(ctx, ds, changed...))

	s.export(ds)
	if s.publ != nil {
		if err := s.publ.PublishMatchSettled(ctx, events.MatchSettled{
			MatchID: res.MatchID, Winner: res.Winner,
			BetsWon: res.BetsWon, BetsLost: res.BetsLost, TotalWinnings: res.TotalWinnings,
		}); err != nil {
			s.log.Warn("publish match_settled", zap.Error(err))
		}
	}

	opsTotal.WithLabelValues("confirm_settlement", "ok").Inc()
	return msg, nil
}

// CancelSettlement descarta uma proposta não confirmada
func (s *Store) CancelSettlement(ctx context.Context, token string) (string, error) {
	if err := s.proposals.Delete(ctx, token); err != nil {
		return "", err
	}
	opsTotal.WithLabelValues("cancel_settlement", "ok").Inc()
	return "Settlement proposal cancelled.", nil
}

// ForceSync empurra os três documentos pro remoto, estejam como estiverem.
// É o caminho de reparo depois de um push parcial
func (s *Store) ForceSync(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.remote == nil {
		return "", errors.New("remote mirror not configured")
	}

	ds, err := s.files.LoadAll()
	if err != nil {
		return "", fmt.Errorf("load ledger: %w", err)
	}

	docs, err := s.encodeDocs(ds, repo.TeamsFile, repo.MatchesFile, repo.BetsFile)
	if err != nil {
		return "", err
	}

	res := s.remote.BatchPut(ctx, docs)
	if !res.OK() {
		opsTotal.WithLabelValues("force_sync", "error").Inc()
		return "", fmt.Errorf("remote sync incomplete: %s", res.Message())
	}

	if s.publ != nil {
		paths := []string{repo.TeamsFile, repo.MatchesFile, repo.BetsFile}
		if err := s.publ.PublishLedgerSynced(ctx, events.LedgerSynced{Paths: paths}); err != nil {
			s.log.Warn("publish ledger_synced", zap.Error(err))
		}
	}

	opsTotal.WithLabelValues("force_sync", "ok").Inc()
	return "All documents synced to remote: " + res.Message(), nil
}

// Leaderboard devolve os times por saldo decrescente
func (s *Store) Leaderboard(ctx context.Context) ([]ledger.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.files.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return engine.Leaderboard(ds), nil
}

// TeamHistory devolve o extrato de apostas liquidadas de um time
func (s *Store) TeamHistory(ctx context.Context, team string) (*engine.TeamHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.files.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return engine.History(ds, team)
}

// TestRemote valida credenciais e alcance do espelho remoto
func (s *Store) TestRemote(ctx context.Context) error {
	if s.remote == nil {
		return errors.New("remote mirror not configured")
	}
	return s.remote.TestConnection(ctx)
}

// Health é a sonda do /healthz: o ledger precisa estar legível
func (s *Store) Health(ctx context.Context) error {
	_, err := s.files.LoadAll()
	return err
}

// push empurra os documentos nomeados pro remoto e devolve o aviso a anexar
// na mensagem da operação ("" quando tudo certo ou remoto desabilitado)
func (s *Store) push(ctx context.Context, ds *ledger.Dataset, names ...string) string {
	if s.remote == nil {
		return ""
	}

	docs, err := s.encodeDocs(ds, names...)
	if err != nil {
		s.log.Error("encode documents for remote push", zap.Error(err))
		return err.Error()
	}

	res := s.remote.BatchPut(ctx, docs)
	if res.OK() {
		s.log.Info("remote mirror synced", zap.String("result", res.Message()))
		return ""
	}

	s.log.Warn("remote mirror sync incomplete", zap.String("result", res.Message()))
	return res.Message()
}

func (s *Store) encodeDocs(ds *ledger.Dataset, names ...string) ([]remote.Document, error) {
	docs := make([]remote.Document, 0, len(names))
	for _, name := range names {
		var v any
		switch name {
		case repo.TeamsFile:
			v = ds.Teams
		case repo.MatchesFile:
			v = ds.Matches
		case repo.BetsFile:
			v = ds.Bets
		default:
			return nil, fmt.Errorf("unknown document %q", name)
		}

		data, err := repo.Encode(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		docs = append(docs, remote.Document{Path: name, Content: data})
	}
	return docs, nil
}

func (s *Store) withSyncWarning(msg, warn string) string {
	if warn == "" {
		return msg
	}
	return msg + " Warning: remote sync incomplete (" + warn + "); a ForceSync will repair it."
}

// export reescreve o espelho tabular; falha aqui é só log, nunca derruba a
// operação que acabou de persistir
func (s *Store) export(ds *ledger.Dataset) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Export(ds); err != nil {
		s.log.Warn("tabular mirror export failed", zap.Error(err))
	}
}
