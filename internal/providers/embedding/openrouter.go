package embedding

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sandevgo/vndbot/internal/config"
)

// OpenRouter produces query embeddings through OpenRouter's
// OpenAI-compatible embeddings endpoint.
type OpenRouter struct {
	client *openai.Client
	model  string
}

func NewOpenRouter(cfg *config.EmbeddingConfig) *OpenRouter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &OpenRouter{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// Embed returns the embedding vector for a single text.
func (o *OpenRouter) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: openai.EmbeddingModel(o.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding response contains no vectors")
	}
	return resp.Data[0].Embedding, nil
}
