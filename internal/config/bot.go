package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/vndbot/pkg/log"
)

type BotConfig struct {
	Token  string `env:"YANDEX_BOT_TOKEN,required,notEmpty"`
	APIURL string `env:"YANDEX_BOT_API_URL" envDefault:"https://botapi.messenger.yandex.net/bot/v1"`
}

func NewBotConfig(ctx context.Context) *BotConfig {
	c := &BotConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse bot config")
	}
	return c
}
