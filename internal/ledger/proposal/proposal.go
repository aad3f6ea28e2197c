package proposal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound cobre token desconhecido, expirado ou já consumido
var ErrNotFound = errors.New("settlement proposal not found or expired")

// Proposal é um lançamento de resultado aguardando confirmação. O token
// expira se ninguém confirmar dentro do TTL
type Proposal struct {
	Token   string `json:"token"`
	MatchID int    `json:"match_id"`
	Winner  string `json:"winner"`
}

// NewToken gera o identificador opaco de uma proposta
func NewToken() string { return uuid.NewString() }

// Store guarda propostas pendentes de confirmação. Consume é de uso único:
// devolve e remove na mesma chamada, então confirmar duas vezes falha
type Store interface {
	Put(ctx context.Context, p Proposal, ttl time.Duration) error
	Consume(ctx context.Context, token string) (*Proposal, error)
	Delete(ctx context.Context, token string) error
}

// Memory é o store de propostas em processo, usado quando não há Redis
// configurado. O modelo de escritor único local torna isso suficiente
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	p        Proposal
	expireAt time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]memoryEntry{}, now: time.Now}
}

func (m *Memory) Put(_ context.Context, p Proposal, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[p.Token] = memoryEntry{p: p, expireAt: m.now().Add(ttl)}
	return nil
}

func (m *Memory) Consume(_ context.Context, token string) (*Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[token]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.entries, token)

	if m.now().After(e.expireAt) {
		return nil, ErrNotFound
	}
	return &e.p, nil
}

func (m *Memory) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[token]; !ok {
		return ErrNotFound
	}
	delete(m.entries, token)
	return nil
}
