package repo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/radieske/tournament-ledger-poc/internal/ledger"
)

// Nomes dos documentos, iguais no disco e no espelho remoto
const (
	TeamsFile   = "teams.json"
	MatchesFile = "matches.json"
	BetsFile    = "bets.json"
)

// Files implementa o repositório local dos três documentos JSON do ledger
type Files struct{ dir string }

// NewFiles retorna um repositório sobre o diretório de dados
func NewFiles(dir string) *Files { return &Files{dir: dir} }

// Path retorna o caminho absoluto de um documento
func (f *Files) Path(name string) string { return filepath.Join(f.dir, name) }

// LoadAll carrega os três documentos como uma unidade. bets.json ausente ou
// corrompido vira lista vazia; teams e matches são obrigatórios
func (f *Files) LoadAll() (*ledger.Dataset, error) {
	ds := &ledger.Dataset{}

	if err := f.load(TeamsFile, &ds.Teams); err != nil {
		return nil, fmt.Errorf("load %s: %w", TeamsFile, err)
	}
	if err := f.load(MatchesFile, &ds.Matches); err != nil {
		return nil, fmt.Errorf("load %s: %w", MatchesFile, err)
	}
	if err := f.load(BetsFile, &ds.Bets); err != nil {
		ds.Bets = []ledger.Bet{}
	}

	return ds, nil
}

// SaveAll persiste os três documentos. Escreve tudo em arquivos temporários
// primeiro e só então renomeia por cima, pra não deixar o conjunto pela
// metade se uma escrita falhar
func (f *Files) SaveAll(ds *ledger.Dataset) error {
	docs := []struct {
		name string
		v    any
	}{
		{TeamsFile, ds.Teams},
		{MatchesFile, ds.Matches},
		{BetsFile, ds.Bets},
	}

	tmp := make([]string, 0, len(docs))
	defer func() {
		for _, p := range tmp {
			_ = os.Remove(p) // sobras só existem se o commit abortou
		}
	}()

	for _, d := range docs {
		data, err := Encode(d.v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", d.name, err)
		}

		tf, err := os.CreateTemp(f.dir, d.name+".tmp-*")
		if err != nil {
			return fmt.Errorf("stage %s: %w", d.name, err)
		}
		tmp = append(tmp, tf.Name())

		if _, err := tf.Write(data); err != nil {
			tf.Close()
			return fmt.Errorf("stage %s: %w", d.name, err)
		}
		if err := tf.Close(); err != nil {
			return fmt.Errorf("stage %s: %w", d.name, err)
		}
	}

	for i, d := range docs {
		if err := os.Rename(tmp[i], f.Path(d.name)); err != nil {
			return fmt.Errorf("commit %s: %w", d.name, err)
		}
	}
	tmp = nil

	return nil
}

func (f *Files) load(name string, v any) error {
	data, err := os.ReadFile(f.Path(name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Encode serializa um documento no formato canônico usado no disco e no
// push remoto, pra comparação byte a byte funcionar entre os dois
func Encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
