package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sandevgo/vndbot/internal/config"
)

func newTestEmbedder(t *testing.T, handler http.HandlerFunc) *OpenRouter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOpenRouter(&config.EmbeddingConfig{
		APIKey:  "test-key",
		Model:   "google/gemini-embedding-001",
		BaseURL: server.URL + "/v1",
	})
}

func TestOpenRouter_Embed(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}

		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Model != "google/gemini-embedding-001" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Input) != 1 || req.Input[0] != "What is the leave policy?" {
			t.Errorf("input = %v", req.Input)
		}

		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	})

	vec, err := e.Embed(context.Background(), "What is the leave policy?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Errorf("vector = %v", vec)
	}
}

func TestOpenRouter_Embed_NoVectors(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	if _, err := e.Embed(context.Background(), "q"); err == nil {
		t.Fatal("expected error for empty data, got nil")
	}
}

func TestOpenRouter_Embed_ProviderError(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusUnauthorized)
	})

	if _, err := e.Embed(context.Background(), "q"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
