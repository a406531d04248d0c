package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/sandevgo/vndbot/internal/config"
	"github.com/sandevgo/vndbot/internal/core"
	"github.com/sandevgo/vndbot/internal/messenger"
	"github.com/sandevgo/vndbot/internal/poller"
	"github.com/sandevgo/vndbot/internal/providers/embedding"
	"github.com/sandevgo/vndbot/internal/providers/generator"
	"github.com/sandevgo/vndbot/internal/providers/vectorstore"
	"github.com/sandevgo/vndbot/internal/service/handler"
	"github.com/sandevgo/vndbot/internal/service/rag"
	"github.com/sandevgo/vndbot/internal/transport/health"
	"github.com/sandevgo/vndbot/pkg/log"
	"github.com/sandevgo/vndbot/pkg/retry"
	"github.com/sandevgo/vndbot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)

	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}

	// 1. Configuration. A missing bot token is fatal inside NewBotConfig.
	botCfg := config.NewBotConfig(ctx)
	qdrantCfg := config.NewQdrantConfig(ctx)
	embeddingCfg := config.NewEmbeddingConfig(ctx)
	generatorCfg := config.NewGeneratorConfig(ctx)
	ragCfg := config.NewRAGConfig(ctx)
	pollerCfg := config.NewPollerConfig(ctx)
	healthCfg := config.NewHealthConfig(ctx)

	// 2. Chat platform client + startup probe. The probe is idempotent, so
	// it is retried with backoff before giving up.
	client := messenger.NewClient(botCfg)
	probeCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := retry.Do(probeCtx, retry.DefaultConfig(), func() error {
		return client.CheckConnection(probeCtx)
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to the messenger API")
	}

	// 3. Providers. A missing OpenRouter key degrades questions to a
	// not-configured reply instead of refusing to start: commands still
	// work without it.
	var embedder core.Embedder
	if embeddingCfg.APIKey != "" {
		embedder = embedding.NewOpenRouter(embeddingCfg)
	} else {
		logger.Warn().Msg("OPENROUTER_API_KEY is not set, questions will get a not-configured reply")
	}
	store := vectorstore.NewQdrant(qdrantCfg)
	gen := generator.NewClient(generatorCfg)

	// 4. Pipeline and event handling.
	pipeline := rag.NewPipeline(client, embedder, store, gen, ragCfg.SearchLimit)
	h := handler.New(client, pipeline)

	// 5. Services.
	p := poller.New(pollerCfg, client, h.Handle)

	logger.Info().
		Str("generation_endpoint", generatorCfg.Endpoint).
		Str("qdrant", fmt.Sprintf("%s:%d", qdrantCfg.Host, qdrantCfg.Port)).
		Str("collection", qdrantCfg.Collection).
		Int("search_limit", ragCfg.SearchLimit).
		Msg("rag pipeline configured")

	return []srv.Service{
		p,
		health.NewServer(healthCfg, p.InFlight),
	}
}
