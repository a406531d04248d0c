package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/vndbot/pkg/log"
)

type QdrantConfig struct {
	Host       string `env:"QDRANT_HOST" envDefault:"qdrant"`
	Port       int    `env:"QDRANT_PORT" envDefault:"6333"`
	Collection string `env:"QDRANT_COLLECTION_NAME" envDefault:"internal_regulations_v2"`
}

func NewQdrantConfig(ctx context.Context) *QdrantConfig {
	c := &QdrantConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Qdrant config")
	}
	return c
}
