package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Document é um arquivo a empurrar pro remoto
type Document struct {
	Path    string
	Content []byte
}

// PathResult é o desfecho individual de um caminho dentro de um batch
type PathResult struct {
	Path    string
	Outcome Outcome
	Err     error
}

// BatchResult agrega os desfechos de um BatchPut na ordem de entrada
type BatchResult struct {
	Results []PathResult
}

// OK indica sucesso total; uma falha por caminho não invalida os demais
func (r BatchResult) OK() bool {
	for _, p := range r.Results {
		if p.Err != nil {
			return false
		}
	}
	return true
}

// Message monta o resumo legível do batch, no contrato de mensagem única
// das operações do ledger
func (r BatchResult) Message() string {
	parts := make([]string, 0, len(r.Results))
	for _, p := range r.Results {
		if p.Err != nil {
			parts = append(parts, fmt.Sprintf("%s failed: %v", p.Path, p.Err))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", p.Path, p.Outcome))
	}
	return strings.Join(parts, "; ")
}

// BatchPut empurra vários documentos minimizando round-trips: resolve as
// versões de todos os caminhos de uma vez (uma busca concorrente por
// caminho) e então escreve na ordem de entrada, com o pacing do limiter
// entre escritas. Cada caminho resolve seu próprio conflito (um retry);
// falha em um caminho não bloqueia os outros
func (c *Client) BatchPut(ctx context.Context, docs []Document) BatchResult {
	var mu sync.Mutex
	current := make(map[string]*File, len(docs))
	fetchErr := make(map[string]error, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range docs {
		d := d
		g.Go(func() error {
			f, err := c.Get(gctx, d.Path)
			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, ErrNotFound) {
				current[d.Path] = nil // caminho ainda não existe, vira create
				return nil
			}
			if err != nil {
				fetchErr[d.Path] = err
				return nil // falha fica registrada por caminho, não derruba o grupo
			}
			current[d.Path] = f
			return nil
		})
	}
	_ = g.Wait()

	res := BatchResult{Results: make([]PathResult, 0, len(docs))}
	for _, d := range docs {
		if err, ok := fetchErr[d.Path]; ok {
			res.Results = append(res.Results, PathResult{Path: d.Path, Err: err})
			continue
		}

		out, err := c.putResolved(ctx, d.Path, d.Content, current[d.Path])
		if err == nil {
			writesTotal.WithLabelValues(string(out)).Inc()
		}
		res.Results = append(res.Results, PathResult{Path: d.Path, Outcome: out, Err: err})
	}

	return res
}
