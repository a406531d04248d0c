package rag

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sandevgo/vndbot/internal/core"
)

type mockMessenger struct {
	mu    sync.Mutex
	sends []string
	chats []string
	err   error
}

func (m *mockMessenger) SendText(ctx context.Context, chatID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats = append(m.chats, chatID)
	m.sends = append(m.sends, text)
	return m.err
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return m.embedFn(ctx, text)
}

type mockStore struct {
	searchFn func(ctx context.Context, vector []float32, limit int) ([]core.SearchHit, error)
	calls    int
}

func (m *mockStore) Search(ctx context.Context, vector []float32, limit int) ([]core.SearchHit, error) {
	m.calls++
	return m.searchFn(ctx, vector, limit)
}

type mockGenerator struct {
	generateFn func(ctx context.Context, req core.RetrievalRequest) (string, error)
	calls      int
	lastReq    core.RetrievalRequest
}

func (m *mockGenerator) Generate(ctx context.Context, req core.RetrievalRequest) (string, error) {
	m.calls++
	m.lastReq = req
	return m.generateFn(ctx, req)
}

func workingEmbedder() *mockEmbedder {
	return &mockEmbedder{embedFn: func(ctx context.Context, text string) ([]float32, error) {
		return []float32{0.1, 0.2, 0.3}, nil
	}}
}

func storeWithHits(hits ...core.SearchHit) *mockStore {
	return &mockStore{searchFn: func(ctx context.Context, vector []float32, limit int) ([]core.SearchHit, error) {
		return hits, nil
	}}
}

func TestPipeline_AnswersFromRetrievedContext(t *testing.T) {
	messenger := &mockMessenger{}
	store := storeWithHits(core.SearchHit{
		Score:   0.9,
		Payload: core.HitPayload{Text: "Leave policy: 20 days", SourceFile: "hr.pdf"},
	})
	gen := &mockGenerator{generateFn: func(ctx context.Context, req core.RetrievalRequest) (string, error) {
		return "20 days of leave per year.", nil
	}}

	p := NewPipeline(messenger, workingEmbedder(), store, gen, 5)
	p.Answer(context.Background(), "u2", "What is the leave policy?")

	if len(messenger.sends) != 2 {
		t.Fatalf("got %d sends, want acknowledgment + answer", len(messenger.sends))
	}
	if messenger.sends[0] != ReplySearching {
		t.Errorf("first send = %q, want acknowledgment", messenger.sends[0])
	}
	if messenger.sends[1] != "20 days of leave per year." {
		t.Errorf("second send = %q, want the answer", messenger.sends[1])
	}
	if messenger.chats[0] != "u2" || messenger.chats[1] != "u2" {
		t.Errorf("sends went to %v, want u2", messenger.chats)
	}

	if gen.lastReq.Question != "What is the leave policy?" {
		t.Errorf("question = %q", gen.lastReq.Question)
	}
	if gen.lastReq.ModelProvider != "openai" {
		t.Errorf("model provider = %q, want openai", gen.lastReq.ModelProvider)
	}
	wantChunk := core.ContextChunk{Text: "Leave policy: 20 days", Source: "hr.pdf"}
	if len(gen.lastReq.Context) != 1 || gen.lastReq.Context[0] != wantChunk {
		t.Errorf("context = %+v, want [%+v]", gen.lastReq.Context, wantChunk)
	}
}

func TestPipeline_NoHitsSkipsGeneration(t *testing.T) {
	messenger := &mockMessenger{}
	gen := &mockGenerator{generateFn: func(ctx context.Context, req core.RetrievalRequest) (string, error) {
		return "must not be called", nil
	}}

	p := NewPipeline(messenger, workingEmbedder(), storeWithHits(), gen, 5)
	p.Answer(context.Background(), "u3", "xyz")

	if gen.calls != 0 {
		t.Errorf("generation called %d times, want 0", gen.calls)
	}
	if got := messenger.sends[len(messenger.sends)-1]; got != ReplyNoInformation {
		t.Errorf("final reply = %q, want no-information reply", got)
	}
}

func TestPipeline_GenerationRejectionHidesRawBody(t *testing.T) {
	messenger := &mockMessenger{}
	gen := &mockGenerator{generateFn: func(ctx context.Context, req core.RetrievalRequest) (string, error) {
		return "", &core.GenerationError{StatusCode: 500, Body: "traceback: secret internals"}
	}}
	store := storeWithHits(core.SearchHit{Payload: core.HitPayload{Text: "chunk"}})

	p := NewPipeline(messenger, workingEmbedder(), store, gen, 5)
	p.Answer(context.Background(), "u1", "q")

	if got := messenger.sends[len(messenger.sends)-1]; got != ReplyGenerationFailed {
		t.Errorf("final reply = %q, want generation-failure reply", got)
	}
	for _, sent := range messenger.sends {
		if strings.Contains(sent, "secret internals") {
			t.Errorf("raw error body leaked into outbound text: %q", sent)
		}
	}
}

func TestPipeline_StepFailures(t *testing.T) {
	failingEmbedder := &mockEmbedder{embedFn: func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("provider unreachable")
	}}
	emptyEmbedder := &mockEmbedder{embedFn: func(ctx context.Context, text string) ([]float32, error) {
		return nil, nil
	}}
	failingStore := &mockStore{searchFn: func(ctx context.Context, vector []float32, limit int) ([]core.SearchHit, error) {
		return nil, errors.New("store down")
	}}

	tests := []struct {
		name      string
		embedder  core.Embedder
		store     core.VectorSearcher
		generator core.Generator
		want      string
	}{
		{
			name:     "no_embedder_configured",
			embedder: nil,
			store:    storeWithHits(),
			want:     ReplyNotConfigured,
		},
		{
			name:     "embedding_failure",
			embedder: failingEmbedder,
			store:    storeWithHits(),
			want:     ReplyInternalError,
		},
		{
			name:     "empty_embedding_vector",
			embedder: emptyEmbedder,
			store:    storeWithHits(),
			want:     ReplyInternalError,
		},
		{
			name:     "search_failure",
			embedder: workingEmbedder(),
			store:    failingStore,
			want:     ReplyInternalError,
		},
		{
			name:     "generation_transport_failure",
			embedder: workingEmbedder(),
			store:    storeWithHits(core.SearchHit{Payload: core.HitPayload{Text: "chunk"}}),
			generator: &mockGenerator{generateFn: func(ctx context.Context, req core.RetrievalRequest) (string, error) {
				return "", errors.New("connection refused")
			}},
			want: ReplyInternalError,
		},
		{
			name:     "empty_answer_gets_placeholder",
			embedder: workingEmbedder(),
			store:    storeWithHits(core.SearchHit{Payload: core.HitPayload{Text: "chunk"}}),
			generator: &mockGenerator{generateFn: func(ctx context.Context, req core.RetrievalRequest) (string, error) {
				return "", nil
			}},
			want: emptyAnswerPlaceholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messenger := &mockMessenger{}
			gen := tt.generator
			if gen == nil {
				gen = &mockGenerator{generateFn: func(ctx context.Context, req core.RetrievalRequest) (string, error) {
					return "answer", nil
				}}
			}

			p := NewPipeline(messenger, tt.embedder, tt.store, gen, 5)
			p.Answer(context.Background(), "u1", "q")

			if got := messenger.sends[len(messenger.sends)-1]; got != tt.want {
				t.Errorf("final reply = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPipeline_MissingSourceFileDefaultsToUnknown(t *testing.T) {
	messenger := &mockMessenger{}
	store := storeWithHits(
		core.SearchHit{Payload: core.HitPayload{Text: "first", SourceFile: "a.pdf"}},
		core.SearchHit{Payload: core.HitPayload{Text: "second"}},
	)
	gen := &mockGenerator{generateFn: func(ctx context.Context, req core.RetrievalRequest) (string, error) {
		return "ok", nil
	}}

	p := NewPipeline(messenger, workingEmbedder(), store, gen, 5)
	p.Answer(context.Background(), "u1", "q")

	if len(gen.lastReq.Context) != 2 {
		t.Fatalf("context has %d chunks, want 2 in store order", len(gen.lastReq.Context))
	}
	if gen.lastReq.Context[0].Source != "a.pdf" {
		t.Errorf("first chunk source = %q", gen.lastReq.Context[0].Source)
	}
	if gen.lastReq.Context[1].Source != unknownSource {
		t.Errorf("second chunk source = %q, want %q", gen.lastReq.Context[1].Source, unknownSource)
	}
}

func TestPipeline_DeterministicBackendsGiveIdenticalAnswers(t *testing.T) {
	store := storeWithHits(core.SearchHit{Payload: core.HitPayload{Text: "chunk", SourceFile: "f.md"}})
	gen := &mockGenerator{generateFn: func(ctx context.Context, req core.RetrievalRequest) (string, error) {
		return "stable answer", nil
	}}

	first := &mockMessenger{}
	p := NewPipeline(first, workingEmbedder(), store, gen, 5)
	p.Answer(context.Background(), "u1", "same question")

	second := &mockMessenger{}
	p = NewPipeline(second, workingEmbedder(), store, gen, 5)
	p.Answer(context.Background(), "u1", "same question")

	if first.sends[1] != second.sends[1] {
		t.Errorf("answers differ between runs: %q vs %q", first.sends[1], second.sends[1])
	}
}

func TestPipeline_AckFailureStillDeliversAnswer(t *testing.T) {
	// Sends are best effort: a failed acknowledgment must not stop the run.
	messenger := &mockMessenger{err: errors.New("send failed")}
	store := storeWithHits(core.SearchHit{Payload: core.HitPayload{Text: "chunk"}})
	gen := &mockGenerator{generateFn: func(ctx context.Context, req core.RetrievalRequest) (string, error) {
		return "answer", nil
	}}

	p := NewPipeline(messenger, workingEmbedder(), store, gen, 5)
	p.Answer(context.Background(), "u1", "q")

	if len(messenger.sends) != 2 {
		t.Fatalf("got %d send attempts, want 2", len(messenger.sends))
	}
	if messenger.sends[1] != "answer" {
		t.Errorf("final send = %q, want the answer", messenger.sends[1])
	}
}
