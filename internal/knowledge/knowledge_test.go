package knowledge

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/trueloving/deskfolio/internal/content"
)

// mockEmbedder returns deterministic embeddings based on text content so
// texts sharing characters land near each other.
type mockEmbedder struct {
	dims  int
	mu    sync.Mutex
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls += len(texts)
	m.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.vector(strings.ToLower(text))
	}
	return out, nil
}

func (m *mockEmbedder) Name() string { return "mock" }

func (m *mockEmbedder) vector(text string) []float32 {
	vec := make([]float32, m.dims)
	for _, w := range strings.Fields(text) {
		h := 0
		for _, ch := range w {
			h = h*31 + int(ch)
		}
		if h < 0 {
			h = -h
		}
		vec[h%m.dims] += 1
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

func testPortfolio() *content.Portfolio {
	return &content.Portfolio{
		Profile: content.Profile{Name: "Ada", Role: "Software Engineer", Location: "Hangzhou"},
		Contact: content.Contact{Email: "ada@example.com"},
		Experience: []content.Experience{
			{Title: "Frontend Developer", Company: "Hundsun", Period: "2021 - 2024", Technologies: []string{"Vue.js"}},
		},
		Education: []content.Education{{Degree: "BSc", Major: "Computer Science", Institution: "HZNU", Year: "2021"}},
		Projects: []content.Project{
			{ID: "pixuli", Title: "Pixuli", Description: "Image analysis with rust and wasm.", TechStack: []string{"Rust"}},
			{ID: "stationuli", Title: "Stationuli", Description: "Peer to peer file transfer.", TechStack: []string{"Tauri"}},
		},
		Skills: []content.SkillCategory{{Category: "languages", Skills: []content.Skill{{Name: "Go"}, {Name: "Rust"}}}},
	}
}

func TestDocuments(t *testing.T) {
	docs := Documents(testPortfolio())
	if len(docs) != 6 {
		t.Fatalf("got %d documents, want 6", len(docs))
	}
	wantIDs := []string{"profile", "experience:0", "education:0", "project:pixuli", "project:stationuli", "skills:languages"}
	for i, id := range wantIDs {
		if docs[i].ID != id {
			t.Errorf("doc %d id = %q, want %q", i, docs[i].ID, id)
		}
	}
	if !strings.Contains(docs[2].Content, "BSc in Computer Science from HZNU") {
		t.Errorf("education doc = %q", docs[2].Content)
	}
	if !strings.Contains(docs[5].Content, "Go, Rust") {
		t.Errorf("skills doc = %q", docs[5].Content)
	}
}

func TestSyncIsIncremental(t *testing.T) {
	emb := &mockEmbedder{dims: 64}
	base, err := New(emb)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	p := testPortfolio()

	n, err := base.Sync(ctx, p)
	if err != nil || n != 6 {
		t.Fatalf("first Sync = %d, %v", n, err)
	}
	n, err = base.Sync(ctx, p)
	if err != nil || n != 0 {
		t.Errorf("second Sync = %d, %v", n, err)
	}

	p.Projects[0].Description = "Now with GPU support."
	p.Projects = p.Projects[:1]
	n, err = base.Sync(ctx, p)
	if err != nil || n != 1 {
		t.Errorf("third Sync = %d, %v", n, err)
	}
	if base.Count() != 5 {
		t.Errorf("Count = %d, want 5 after removing a project", base.Count())
	}
}

func TestRetrieve(t *testing.T) {
	base, _ := New(&mockEmbedder{dims: 128})
	ctx := context.Background()
	base.Sync(ctx, testPortfolio())

	got, err := base.Retrieve(ctx, "peer to peer file transfer", 1)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 1 || !strings.Contains(got[0], "Stationuli") {
		t.Errorf("Retrieve = %v", got)
	}

	all, _ := base.Retrieve(ctx, "anything", 50)
	if len(all) != 6 {
		t.Errorf("k is not clamped: got %d", len(all))
	}
}

func TestRetrieveEmpty(t *testing.T) {
	base, _ := New(&mockEmbedder{dims: 8})
	got, err := base.Retrieve(context.Background(), "hello", 3)
	if err != nil || got != nil {
		t.Errorf("Retrieve on empty base = %v, %v", got, err)
	}
}

func TestPersistAndLoad(t *testing.T) {
	emb := &mockEmbedder{dims: 32}
	base, _ := New(emb)
	ctx := context.Background()
	base.Sync(ctx, testPortfolio())

	path := filepath.Join(t.TempDir(), FileName)
	if err := base.Persist(path); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	loaded, _ := New(emb)
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Count() != 6 {
		t.Errorf("loaded Count = %d", loaded.Count())
	}
	before := emb.calls
	if n, _ := loaded.Sync(ctx, testPortfolio()); n != 0 {
		t.Errorf("Sync after Load re-embedded %d documents", n)
	}
	if emb.calls != before {
		t.Errorf("Sync after Load made %d embedding calls", emb.calls-before)
	}

	if err := loaded.Load(filepath.Join(t.TempDir(), "missing.gob.gz")); err != nil {
		t.Errorf("Load missing file: %v", err)
	}
}

func TestOllamaEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaEmbedRequest
		json.NewDecoder(r.Body).Decode(&req)
		if r.URL.Path != "/api/embed" || req.Model != "nomic-embed-text" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		resp := ollamaEmbedResponse{}
		for range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{1, 0})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "nomic-embed-text")
	got, err := e.Embed(context.Background(), []string{"a", "b"})
	if err != nil || len(got) != 2 {
		t.Fatalf("Embed = %v, %v", got, err)
	}

	vec, err := ToChromemFunc(e)(context.Background(), "x")
	if err != nil || len(vec) != 2 {
		t.Errorf("ToChromemFunc = %v, %v", vec, err)
	}
}
