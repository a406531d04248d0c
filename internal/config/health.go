package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/vndbot/pkg/log"
)

type HealthConfig struct {
	Addr string `env:"HEALTH_ADDR" envDefault:":8003"`
}

func NewHealthConfig(ctx context.Context) *HealthConfig {
	c := &HealthConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse health config")
	}
	return c
}
