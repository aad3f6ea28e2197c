package ledger

// Unidade mínima de aposta: ₹5 Lakh
const BetUnit int64 = 500_000

// Multiplicadores de pagamento
const (
	MultiplierHome = 4 // aposta no time da casa
	MultiplierAway = 2
)

// Status de uma aposta
const (
	StatusPending = "pending"
	StatusWon     = "won"
	StatusLost    = "lost"
)

// Team é um participante do bolão. Name é a chave; HomeTeam é a franquia
// designada do participante no torneio
type Team struct {
	Name     string `json:"team"`
	Balance  int64  `json:"balance"`
	HomeTeam string `json:"home_team"`
}

// Match é criado fora do fluxo normal (seed de dados). Winner transita de
// vazio para o nome de um dos dois times, uma única vez
type Match struct {
	MatchID int    `json:"match_id"`
	Team1   string `json:"team1"`
	Team2   string `json:"team2"`
	Date    string `json:"date"`
	Venue   string `json:"venue"`
	Winner  string `json:"winner,omitempty"`
}

// Settled indica se o resultado da partida já foi lançado
func (m Match) Settled() bool { return m.Winner != "" }

// HasTeam indica se name é um dos dois lados da partida
func (m Match) HasTeam(name string) bool { return m.Team1 == name || m.Team2 == name }

// Bet é única por (match_id, team). Status e Winnings mudam exatamente uma
// vez, de pending para um estado terminal, no acerto de contas
type Bet struct {
	MatchID    int    `json:"match_id"`
	Team       string `json:"team"`
	Prediction string `json:"prediction"`
	Amount     int64  `json:"amount"`
	IsHomeTeam bool   `json:"is_home_team"`
	Status     string `json:"status"`
	Winnings   int64  `json:"winnings"`
	Timestamp  string `json:"timestamp"`
}

// Dataset é o conjunto de documentos do ledger, sempre carregado e salvo
// como uma unidade
type Dataset struct {
	Teams   []Team
	Matches []Match
	Bets    []Bet
}

// Team retorna o ponteiro do time pelo nome, ou nil
func (d *Dataset) Team(name string) *Team {
	for i := range d.Teams {
		if d.Teams[i].Name == name {
			return &d.Teams[i]
		}
	}
	return nil
}

// Match retorna o ponteiro da partida pelo id, ou nil
func (d *Dataset) Match(id int) *Match {
	for i := range d.Matches {
		if d.Matches[i].MatchID == id {
			return &d.Matches[i]
		}
	}
	return nil
}

// BetFor retorna a aposta de um time em uma partida, ou nil
func (d *Dataset) BetFor(matchID int, team string) *Bet {
	for i := range d.Bets {
		if d.Bets[i].MatchID == matchID && d.Bets[i].Team == team {
			return &d.Bets[i]
		}
	}
	return nil
}
