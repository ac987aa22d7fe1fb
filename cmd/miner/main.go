package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vigil-labs/vigil/internal/config"
	"github.com/vigil-labs/vigil/internal/miner"
	"github.com/vigil-labs/vigil/internal/utils/logger"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting mock miner axon...")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("shutdown signal received, stopping miner")
		cancel()
	}()

	m := miner.NewMiner(&cfg.MinerEnvConfig)
	if err := m.Run(ctx); err != nil {
		log.Error().Err(err).Msg("miner shutdown failed")
	}
	log.Info().Msg("miner stopped")
}
