package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/vndbot/pkg/log"
)

type GeneratorConfig struct {
	Endpoint string        `env:"RAG_BOT_ENDPOINT" envDefault:"http://rag-bot:8000/generate_answer"`
	Timeout  time.Duration `env:"RAG_BOT_TIMEOUT" envDefault:"60s"`
}

func NewGeneratorConfig(ctx context.Context) *GeneratorConfig {
	c := &GeneratorConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse generator config")
	}
	return c
}
