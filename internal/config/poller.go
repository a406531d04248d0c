package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/vndbot/pkg/log"
)

type PollerConfig struct {
	BatchLimit   int           `env:"POLL_BATCH_LIMIT" envDefault:"10"`
	IdleWait     time.Duration `env:"POLL_IDLE_WAIT" envDefault:"1s"`
	ErrorWait    time.Duration `env:"POLL_ERROR_WAIT" envDefault:"5s"`
	ResumeOffset int64         `env:"RESUME_OFFSET" envDefault:"0"`
	DrainTimeout time.Duration `env:"SHUTDOWN_DRAIN_TIMEOUT" envDefault:"10s"`
}

func NewPollerConfig(ctx context.Context) *PollerConfig {
	c := &PollerConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse poller config")
	}
	return c
}
