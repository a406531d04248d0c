package core

import "context"

const (
	BotName    = "VNDBot"
	BotVersion = "0.1.0"
)

// EventKind discriminates the closed set of inbound event shapes.
type EventKind int

const (
	EventUnrecognized EventKind = iota
	EventText
	EventButton
)

// Event is one inbound item from the chat platform. ChatID is empty when
// no origin chat could be resolved from the payload.
type Event struct {
	ID           int64
	Kind         EventKind
	ChatID       string
	Text         string
	CallbackData string
	Raw          []byte
}

// ContextChunk is one retrieved passage with its provenance label, in the
// wire shape the generation service expects.
type ContextChunk struct {
	Text   string `json:"text"`
	Source string `json:"file"`
}

// RetrievalRequest is immutable once built and sent verbatim to the
// generation service.
type RetrievalRequest struct {
	Question      string         `json:"question"`
	Context       []ContextChunk `json:"context"`
	ModelProvider string         `json:"model_provider"`
}

// SearchHit is a scored vector-store match with its payload attached.
type SearchHit struct {
	Score   float64
	Payload HitPayload
}

type HitPayload struct {
	Text       string `json:"text"`
	SourceFile string `json:"source_file"`
}

type Messenger interface {
	SendText(ctx context.Context, chatID, text string) error
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorSearcher interface {
	Search(ctx context.Context, vector []float32, limit int) ([]SearchHit, error)
}

type Generator interface {
	Generate(ctx context.Context, req RetrievalRequest) (string, error)
}
