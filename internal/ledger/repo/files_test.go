package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/radieske/tournament-ledger-poc/internal/ledger"
)

func seed(t *testing.T, dir string) *Files {
	t.Helper()
	f := NewFiles(dir)

	ds := &ledger.Dataset{
		Teams:   []ledger.Team{{Name: "Alpha", Balance: 10_000_000, HomeTeam: "A"}},
		Matches: []ledger.Match{{MatchID: 1, Team1: "A", Team2: "B", Date: "2026-04-01", Venue: "Mumbai"}},
		Bets:    []ledger.Bet{},
	}
	if err := f.SaveAll(ds); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	return f
}

func TestLoadAll_RoundTrip(t *testing.T) {
	f := seed(t, t.TempDir())

	ds, err := f.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(ds.Teams) != 1 || ds.Teams[0].Name != "Alpha" || ds.Teams[0].HomeTeam != "A" {
		t.Errorf("teams = %+v", ds.Teams)
	}
	if len(ds.Matches) != 1 || ds.Matches[0].Winner != "" {
		t.Errorf("matches = %+v", ds.Matches)
	}
	if ds.Bets == nil || len(ds.Bets) != 0 {
		t.Errorf("bets = %+v, want empty list", ds.Bets)
	}
}

func TestLoadAll_MissingBetsFile(t *testing.T) {
	dir := t.TempDir()
	f := seed(t, dir)

	if err := os.Remove(f.Path(BetsFile)); err != nil {
		t.Fatal(err)
	}

	ds, err := f.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v, want bets tolerated", err)
	}
	if len(ds.Bets) != 0 {
		t.Errorf("bets = %+v, want empty list", ds.Bets)
	}
}

func TestLoadAll_CorruptBetsFile(t *testing.T) {
	dir := t.TempDir()
	f := seed(t, dir)

	if err := os.WriteFile(f.Path(BetsFile), []byte("{{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := f.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v, want corrupt bets tolerated", err)
	}
	if len(ds.Bets) != 0 {
		t.Errorf("bets = %+v, want empty list", ds.Bets)
	}
}

func TestLoadAll_MissingTeamsIsFatal(t *testing.T) {
	dir := t.TempDir()
	f := seed(t, dir)

	if err := os.Remove(f.Path(TeamsFile)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.LoadAll(); err == nil {
		t.Fatal("LoadAll() tolerated a missing teams document")
	}
}

func TestSaveAll_NoLeftoverTempFiles(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s after commit", e.Name())
		}
	}
	if len(entries) != 3 {
		t.Errorf("entries = %d, want the 3 documents", len(entries))
	}
}

func TestSaveAll_BadDirFailsWithoutTouchingDocuments(t *testing.T) {
	dir := t.TempDir()
	f := seed(t, dir)

	bad := NewFiles(filepath.Join(dir, "does-not-exist"))
	ds, _ := f.LoadAll()
	if err := bad.SaveAll(ds); err == nil {
		t.Fatal("SaveAll() into a missing dir succeeded")
	}

	// documentos originais continuam legíveis
	if _, err := f.LoadAll(); err != nil {
		t.Fatalf("original documents damaged: %v", err)
	}
}
