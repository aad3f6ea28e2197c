package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/radieske/tournament-ledger-poc/internal/ledger"
	"github.com/radieske/tournament-ledger-poc/internal/ledger/dto"
	"github.com/radieske/tournament-ledger-poc/internal/ledger/engine"
	"github.com/radieske/tournament-ledger-poc/internal/ledger/proposal"
	"github.com/radieske/tournament-ledger-poc/internal/ledger/store"
)

// lakh em unidades de moeda; a API fala em lakhs, o ledger em unidades
const lakh int64 = 100_000

type Server struct {
	log   *zap.Logger
	store *store.Store
}

func NewServer(log *zap.Logger, st *store.Store) *Server {
	return &Server{log: log, store: st}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bets", s.placeBet)                 // POST
	mux.HandleFunc("/results", s.proposeResult)         // POST
	mux.HandleFunc("/results/confirm", s.confirmResult) // POST
	mux.HandleFunc("/results/cancel", s.cancelResult)   // POST
	mux.HandleFunc("/leaderboard", s.leaderboard)       // GET
	mux.HandleFunc("/teams/", s.teamHistory)            // GET /teams/{team}/history
	mux.HandleFunc("/sync", s.forceSync)                // POST
	mux.HandleFunc("/remote/ping", s.remotePing)        // GET
	return mux
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Team == "" || req.MatchID <= 0 || req.Prediction == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	msg, err := s.store.PlaceBet(r.Context(), req.Team, req.MatchID, req.Prediction, req.AmountLakhs*lakh)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: msg})
}

func (s *Server) proposeResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ProposeResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	token, err := s.store.ProposeSettlement(r.Context(), req.MatchID, req.Winner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ProposeResultResponse{
		Token:   token,
		Message: "Confirm to settle the match; unconfirmed proposals expire.",
	})
}

func (s *Server) confirmResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ConfirmResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	msg, err := s.store.ConfirmSettlement(r.Context(), req.Token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: msg})
}

func (s *Server) cancelResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ConfirmResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	msg, err := s.store.CancelSettlement(r.Context(), req.Token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: msg})
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	teams, err := s.store.Leaderboard(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]dto.LeaderboardEntry, 0, len(teams))
	for i, t := range teams {
		out = append(out, dto.LeaderboardEntry{
			Rank:             i + 1,
			Team:             t.Name,
			Balance:          t.Balance,
			BalanceFormatted: ledger.FormatCurrency(t.Balance),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) teamHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// path: /teams/{team}/history
	rest := strings.TrimPrefix(r.URL.Path, "/teams/")
	team, ok := strings.CutSuffix(rest, "/history")
	if !ok || team == "" {
		http.Error(w, "team required", http.StatusBadRequest)
		return
	}

	th, err := s.store.TeamHistory(r.Context(), team)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, th)
}

func (s *Server) forceSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	msg, err := s.store.ForceSync(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: msg})
}

func (s *Server) remotePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.store.TestRemote(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, dto.MessageResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "remote mirror reachable"})
}

// writeError mapeia a taxonomia do domínio pra status HTTP, mantendo a
// mensagem legível como corpo
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrMatchNotFound),
		errors.Is(err, engine.ErrTeamNotFound),
		errors.Is(err, proposal.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrDuplicateBet),
		errors.Is(err, engine.ErrMatchAlreadySettled):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrInvalidAmount),
		errors.Is(err, engine.ErrInsufficientBalance),
		errors.Is(err, engine.ErrHomeTeamConstraint),
		errors.Is(err, engine.ErrInvalidWinner):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		s.log.Error("ledger operation failed", zap.Error(err))
	}
	writeJSON(w, status, dto.MessageResponse{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
