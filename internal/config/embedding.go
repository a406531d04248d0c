package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/vndbot/pkg/log"
)

// EmbeddingConfig has no required fields: a missing API key puts the bot
// into degraded mode instead of refusing to start.
type EmbeddingConfig struct {
	APIKey  string `env:"OPENROUTER_API_KEY"`
	Model   string `env:"OPENROUTER_EMBEDDING_MODEL" envDefault:"google/gemini-embedding-001"`
	BaseURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
}

func NewEmbeddingConfig(ctx context.Context) *EmbeddingConfig {
	c := &EmbeddingConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse embedding config")
	}
	return c
}
