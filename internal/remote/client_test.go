package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeContentsAPI simula o store remoto versionado por hash: GET devolve
// conteúdo+sha, PUT exige o sha corrente e rejeita token velho com 409
type fakeContentsAPI struct {
	mu    sync.Mutex
	files map[string]fakeFile
	seq   int
	puts  int
	gets  int

	rejectAuth bool
	beforePut  func(api *fakeContentsAPI, path string) // gancho pra simular escritor concorrente
}

type fakeFile struct {
	content []byte
	sha     string
}

func newFakeAPI() *fakeContentsAPI {
	return &fakeContentsAPI{files: map[string]fakeFile{}}
}

func (a *fakeContentsAPI) nextSHA() string {
	a.seq++
	return fmt.Sprintf("sha-%d", a.seq)
}

// bump simula outro escritor: troca conteúdo e versão de um caminho
func (a *fakeContentsAPI) bump(path string) {
	f := a.files[path]
	f.content = append([]byte(nil), f.content...)
	f.content = append(f.content, []byte(" // racing writer")...)
	f.sha = a.nextSHA()
	a.files[path] = f
}

func (a *fakeContentsAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()

		if a.rejectAuth || r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		const prefix = "/repos/owner/ledger"
		if r.URL.Path == prefix {
			w.WriteHeader(http.StatusOK)
			return
		}
		path := strings.TrimPrefix(r.URL.Path, prefix+"/contents/")

		switch r.Method {
		case http.MethodGet:
			a.gets++
			f, ok := a.files[path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{
				"content": base64.StdEncoding.EncodeToString(f.content),
				"sha":     f.sha,
			})

		case http.MethodPut:
			if a.beforePut != nil {
				a.beforePut(a, path)
			}
			a.puts++

			var req struct {
				Content string `json:"content"`
				SHA     string `json:"sha"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			raw, _ := base64.StdEncoding.DecodeString(req.Content)

			f, exists := a.files[path]
			if exists && req.SHA != f.sha {
				w.WriteHeader(http.StatusConflict)
				return
			}
			if !exists && req.SHA != "" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				return
			}

			a.files[path] = fakeFile{content: raw, sha: a.nextSHA()}
			if exists {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusCreated)
			}

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func newTestClient(t *testing.T, api *fakeContentsAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	return New(Config{
		BaseURL:  srv.URL,
		Repo:     "owner/ledger",
		Branch:   "main",
		Token:    "test-token",
		WriteRPS: 1000, // sem pacing real nos testes
	})
}

func TestPut_CreateWhenAbsent(t *testing.T) {
	api := newFakeAPI()
	c := newTestClient(t, api)

	out, err := c.Put(context.Background(), "bets.json", []byte("[]"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if out != OutcomeCreated {
		t.Errorf("outcome = %s, want created", out)
	}
	if string(api.files["bets.json"].content) != "[]" {
		t.Errorf("remote content = %q", api.files["bets.json"].content)
	}
}

func TestPut_SkipsIdenticalContent(t *testing.T) {
	api := newFakeAPI()
	api.files["teams.json"] = fakeFile{content: []byte(`[{"team":"Alpha"}]`), sha: api.nextSHA()}
	c := newTestClient(t, api)

	out, err := c.Put(context.Background(), "teams.json", []byte(`[{"team":"Alpha"}]`))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if out != OutcomeSkipped {
		t.Errorf("outcome = %s, want skipped", out)
	}
	if api.puts != 0 {
		t.Errorf("puts = %d, want 0 (identical content must not consume a write)", api.puts)
	}
}

func TestPut_ConflictRetriedOnceWithFreshToken(t *testing.T) {
	api := newFakeAPI()
	api.files["teams.json"] = fakeFile{content: []byte("v1"), sha: api.nextSHA()}
	c := newTestClient(t, api)

	// escritor concorrente comita entre o nosso Get e o nosso primeiro PUT
	fired := false
	api.beforePut = func(a *fakeContentsAPI, path string) {
		if !fired {
			fired = true
			a.bump(path)
		}
	}

	out, err := c.Put(context.Background(), "teams.json", []byte("v2"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if out != OutcomeUpdated {
		t.Errorf("outcome = %s, want updated", out)
	}
	if api.puts != 2 {
		t.Errorf("puts = %d, want exactly 2 (original + one retry)", api.puts)
	}
	if string(api.files["teams.json"].content) != "v2" {
		t.Errorf("remote content = %q, want v2", api.files["teams.json"].content)
	}
}

func TestPut_SecondConflictIsSurfaced(t *testing.T) {
	api := newFakeAPI()
	api.files["teams.json"] = fakeFile{content: []byte("v1"), sha: api.nextSHA()}
	c := newTestClient(t, api)

	// contenção sustentada: toda tentativa encontra token velho
	api.beforePut = func(a *fakeContentsAPI, path string) { a.bump(path) }

	_, err := c.Put(context.Background(), "teams.json", []byte("v2"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Put() error = %v, want ErrConflict", err)
	}
	if api.puts != 2 {
		t.Errorf("puts = %d, want exactly 2 (retry is bounded)", api.puts)
	}
}

func TestPut_AuthRejected(t *testing.T) {
	api := newFakeAPI()
	api.rejectAuth = true
	c := newTestClient(t, api)

	_, err := c.Put(context.Background(), "teams.json", []byte("x"))
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("Put() error = %v, want ErrAuth", err)
	}
}

func TestBatchPut_PerPathIsolation(t *testing.T) {
	api := newFakeAPI()
	api.files["teams.json"] = fakeFile{content: []byte("t1"), sha: api.nextSHA()}
	api.files["bets.json"] = fakeFile{content: []byte("b1"), sha: api.nextSHA()}
	c := newTestClient(t, api)

	// só bets.json sofre contenção sustentada
	api.beforePut = func(a *fakeContentsAPI, path string) {
		if path == "bets.json" {
			a.bump(path)
		}
	}

	res := c.BatchPut(context.Background(), []Document{
		{Path: "teams.json", Content: []byte("t2")},
		{Path: "bets.json", Content: []byte("b2")},
		{Path: "matches.json", Content: []byte("m1")}, // ainda não existe
	})

	if res.OK() {
		t.Fatal("BatchPut() reported full success with a conflicted path")
	}
	if len(res.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(res.Results))
	}
	if res.Results[0].Err != nil || res.Results[0].Outcome != OutcomeUpdated {
		t.Errorf("teams.json = %+v, want updated", res.Results[0])
	}
	if !errors.Is(res.Results[1].Err, ErrConflict) {
		t.Errorf("bets.json err = %v, want ErrConflict", res.Results[1].Err)
	}
	if res.Results[2].Err != nil || res.Results[2].Outcome != OutcomeCreated {
		t.Errorf("matches.json = %+v, want created", res.Results[2])
	}

	msg := res.Message()
	if !strings.Contains(msg, "teams.json updated") || !strings.Contains(msg, "bets.json failed") {
		t.Errorf("message = %q", msg)
	}
}

func TestTestConnection(t *testing.T) {
	api := newFakeAPI()
	c := newTestClient(t, api)

	if err := c.TestConnection(context.Background()); err != nil {
		t.Fatalf("TestConnection() error = %v", err)
	}

	api.rejectAuth = true
	if err := c.TestConnection(context.Background()); !errors.Is(err, ErrAuth) {
		t.Fatalf("TestConnection() error = %v, want ErrAuth", err)
	}
}
