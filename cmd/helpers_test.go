package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trueloving/deskfolio/internal/config"
)

func TestCreateEmbedderUsesBaseURL(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.5,0.25]}],"model":"m"}`))
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg := config.DefaultConfig()
	cfg.Chat.Knowledge.EmbeddingProvider = config.ProviderOpenAI
	cfg.Chat.Knowledge.EmbeddingBaseURL = srv.URL + "/v1"

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		t.Fatalf("createEmbedderFromConfig: %v", err)
	}
	vecs, err := embedder.Embed(context.Background(), []string{"hello"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if gotPath != "/v1/embeddings" {
		t.Errorf("path = %q", gotPath)
	}
	if len(vecs) != 1 || len(vecs[0]) != 2 || vecs[0][0] != 0.5 {
		t.Errorf("vectors = %v", vecs)
	}
}

func TestCreateEmbedderRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := config.DefaultConfig()
	cfg.Chat.Knowledge.EmbeddingProvider = config.ProviderOpenAI
	if _, err := createEmbedderFromConfig(cfg); err == nil {
		t.Error("expected error without OPENAI_API_KEY")
	}
}
