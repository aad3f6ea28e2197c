package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

const defaultWriteRPS = 2

var (
	writesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "remote_mirror_writes_total", Help: "escritas no espelho remoto por desfecho"},
		[]string{"outcome"},
	)
	conflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "remote_mirror_conflicts_total", Help: "conflitos de versão detectados"},
	)
)

func init() {
	prometheus.MustRegister(writesTotal, conflictsTotal)
}

// Config são as credenciais e o endereço do espelho remoto, vindos da
// configuração do serviço
type Config struct {
	BaseURL  string
	Repo     string // "owner/name"
	Branch   string
	Token    string
	WriteRPS float64
}

// Client fala com um store remoto de arquivos versionado por hash de
// conteúdo (API estilo GitHub contents). Toda atualização exige o token de
// versão obtido no último Get; token velho é rejeitado com conflito
type Client struct {
	baseURL string
	repo    string
	branch  string
	token   string
	httpc   *http.Client
	limiter *rate.Limiter
}

// Option configura o cliente
type Option func(*Client)

// WithHTTPClient troca o cliente HTTP (timeout customizado, testes)
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// New cria o cliente. Escritas são espaçadas por um token bucket pra
// respeitar a cota do remoto
func New(cfg Config, opts ...Option) *Client {
	rps := cfg.WriteRPS
	if rps <= 0 {
		rps = defaultWriteRPS
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		repo:    cfg.Repo,
		branch:  cfg.Branch,
		token:   cfg.Token,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// File é o conteúdo de um caminho remoto junto com seu token de versão
type File struct {
	Content []byte
	Version string
}

type contentsResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

func (c *Client) contentsURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/contents/%s", c.baseURL, c.repo, path)
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
}

// Get busca o conteúdo e o token de versão atuais de um caminho
func (c *Client) Get(ctx context.Context, path string) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.contentsURL(path)+"?ref="+c.branch, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote transport: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, apiError(res)
	}

	var out contentsResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("remote transport: decode contents: %w", err)
	}

	// a API quebra o base64 em linhas
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(out.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("remote transport: decode content: %w", err)
	}

	return &File{Content: raw, Version: out.SHA}, nil
}

// PutCreate cria um caminho que ainda não existe (sem token de versão)
func (c *Client) PutCreate(ctx context.Context, path string, content []byte) error {
	return c.putRaw(ctx, path, content, "")
}

// PutUpdate atualiza um caminho existente, condicionado ao token de versão
// esperado. Token velho retorna ErrConflict
func (c *Client) PutUpdate(ctx context.Context, path string, content []byte, expectedVersion string) error {
	return c.putRaw(ctx, path, content, expectedVersion)
}

func (c *Client) putRaw(ctx context.Context, path string, content []byte, version string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("remote transport: %w", err)
	}

	body, _ := json.Marshal(putRequest{
		Message: "Update " + path + " via tournament-ledger",
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  c.branch,
		SHA:     version,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("remote transport: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return apiError(res)
	}
	return nil
}

// Desfecho de uma escrita versionada
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped" // conteúdo remoto já idêntico, escrita poupada
)

// Put é a primitiva única de escrita versionada com retry limitado, usada
// tanto no caminho unitário quanto no batch:
//  1. resolve a versão corrente (404 vira create)
//  2. pula a escrita se o conteúdo remoto já é byte a byte igual
//  3. atualiza com o token corrente; em conflito, rebusca e tenta UMA vez
//     com o token fresco. Segundo conflito é falha, não loop
func (c *Client) Put(ctx context.Context, path string, content []byte) (Outcome, error) {
	cur, err := c.Get(ctx, path)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}

	out, err := c.putResolved(ctx, path, content, cur)
	if err == nil {
		writesTotal.WithLabelValues(string(out)).Inc()
	}
	return out, err
}

// putResolved é Put com a versão corrente já resolvida (o batch resolve
// todas de uma vez antes de escrever)
func (c *Client) putResolved(ctx context.Context, path string, content []byte, cur *File) (Outcome, error) {
	if cur == nil {
		if err := c.PutCreate(ctx, path, content); err != nil {
			return "", err
		}
		return OutcomeCreated, nil
	}

	if bytes.Equal(cur.Content, content) {
		return OutcomeSkipped, nil
	}

	err := c.PutUpdate(ctx, path, content, cur.Version)
	if err == nil {
		return OutcomeUpdated, nil
	}
	if !errors.Is(err, ErrConflict) {
		return "", err
	}

	// outro escritor passou na frente; rebusca e tenta uma única vez com o
	// token fresco
	conflictsTotal.Inc()
	fresh, gerr := c.Get(ctx, path)
	if gerr != nil {
		return "", fmt.Errorf("refetch after conflict: %w", gerr)
	}
	if bytes.Equal(fresh.Content, content) {
		return OutcomeSkipped, nil
	}
	if err := c.PutUpdate(ctx, path, content, fresh.Version); err != nil {
		return "", fmt.Errorf("retry exhausted: %w", err)
	}
	return OutcomeUpdated, nil
}

// TestConnection valida credenciais e alcance do repositório remoto
func (c *Client) TestConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/repos/%s", c.baseURL, c.repo), nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("remote transport: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return apiError(res)
	}
	return nil
}
