package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vigil-labs/vigil/internal/config"
	"github.com/vigil-labs/vigil/internal/kami"
	"github.com/vigil-labs/vigil/internal/oracle"
	"github.com/vigil-labs/vigil/internal/scoring"
	"github.com/vigil-labs/vigil/internal/synapse"
	"github.com/vigil-labs/vigil/internal/tasksupply"
	"github.com/vigil-labs/vigil/internal/telemetry"
	"github.com/vigil-labs/vigil/internal/utils/logger"
	"github.com/vigil-labs/vigil/internal/utils/redis"
	"github.com/vigil-labs/vigil/internal/validator"
	"github.com/vigil-labs/vigil/pkg/signature"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting validator...")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	k, err := kami.NewKami(&cfg.KamiEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init kami client")
	}

	r, err := redis.NewRedis(&cfg.RedisEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init redis client")
	}

	o, err := oracle.NewOracle(&cfg.OracleEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init oracle client")
	}

	keypair, err := signature.LoadKeypairFromHotkey(cfg.WalletColdkey, cfg.WalletHotkey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load validator keypair")
	}
	provider, err := signature.NewProvider(keypair)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init signature provider")
	}

	recorder := telemetry.NewClient(&cfg.TelemetryEnvConfig, signature.ToSs58Address(keypair), provider)

	supply := tasksupply.New(o, cfg.OracleEnvConfig.ListModel)

	dispatcher := synapse.NewClient(synapse.Config{})

	strategies := map[synapse.Category]scoring.Strategy{
		synapse.CategoryText:       scoring.NewTextStrategy(o, cfg.OracleEnvConfig.ChatModel, nil),
		synapse.CategoryImage:      scoring.NewImageStrategy(o),
		synapse.CategoryEmbeddings: scoring.NewEmbeddingsStrategy(o, cfg.OracleEnvConfig.EmbeddingModel, nil),
	}

	v, err := validator.New(cfg, k, r, supply, dispatcher, strategies, recorder)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init validator")
	}

	// setup signal handling for graceful shutdown before starting
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("shutdown signal received, stopping validator")
		v.Stop()
	}()

	v.Start()

	<-v.Done()
	r.Close()
	log.Info().Msg("validator stopped")
}
