// Package config defines environment configuration structs and loaders.
package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	ChainEnvConfig
	WalletEnvConfig
	KamiEnvConfig
	OracleEnvConfig
	RedisEnvConfig
	TelemetryEnvConfig
	MinerEnvConfig
	ValidatorEnvConfig
}

func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ChainEnvConfig holds chain-specific environment values.
type ChainEnvConfig struct {
	Netuid int `env:"NETUID" envDefault:"18"`
}

// WalletEnvConfig holds wallet key configuration.
type WalletEnvConfig struct {
	WalletHotkey  string `env:"WALLET_HOTKEY"`
	WalletColdkey string `env:"WALLET_COLDKEY"`
	BittensorDir  string `env:"BITTENSOR_DIR" envDefault:"~/.bittensor"`
}

// KamiEnvConfig contains the chain RPC sidecar target.
type KamiEnvConfig struct {
	WalletEnvConfig
	SubtensorNetwork string `env:"SUBTENSOR_NETWORK" envDefault:"test"`
	KamiHost         string `env:"KAMI_HOST" envDefault:"127.0.0.1"`
	KamiPort         string `env:"KAMI_PORT" envDefault:"3000"`
}

// OracleEnvConfig configures the generative oracle sidecar used for task
// generation and reference scoring.
type OracleEnvConfig struct {
	OracleAPIUrl   string        `env:"ORACLE_API_URL" envDefault:"http://localhost:5003"`
	OracleAPIKey   string        `env:"ORACLE_API_KEY"`
	OracleTimeout  time.Duration `env:"ORACLE_TIMEOUT" envDefault:"30s"`
	ChatModel      string        `env:"ORACLE_CHAT_MODEL" envDefault:"gpt-4-1106-preview"`
	ListModel      string        `env:"ORACLE_LIST_MODEL" envDefault:"gpt-3.5-turbo"`
	EmbeddingModel string        `env:"ORACLE_EMBEDDING_MODEL" envDefault:"text-embedding-ada-002"`
	ImageModel     string        `env:"ORACLE_IMAGE_MODEL" envDefault:"dall-e-3"`
}

// RedisEnvConfig configures the Redis connection used for queue and score
// state persistence.
type RedisEnvConfig struct {
	RedisHost     string `env:"REDIS_HOST" envDefault:"127.0.0.1"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// TelemetryEnvConfig configures the round-record collector.
type TelemetryEnvConfig struct {
	TelemetryURL string `env:"TELEMETRY_URL" envDefault:"http://localhost:5004"`
	TelemetryOn  bool   `env:"TELEMETRY_ON" envDefault:"true"`
}

// MinerEnvConfig configures the mock miner axon server.
type MinerEnvConfig struct {
	AxonAddress   string `env:"AXON_IP" envDefault:"127.0.0.1"`
	AxonPort      int    `env:"AXON_PORT" envDefault:"8080"`
	BodySizeLimit int    `env:"SERVER_BODY_LIMIT" envDefault:"1048576"`
}

// ValidatorEnvConfig configures the validator runtime.
type ValidatorEnvConfig struct {
	ChainEnvConfig
	Environment   string        `env:"ENVIRONMENT" envDefault:"dev"`
	TaskCategory  string        `env:"TASK_CATEGORY" envDefault:"embeddings"`
	ClientTimeout time.Duration `env:"CLIENT_TIMEOUT" envDefault:"30s"`
}

// IntervalConfig groups the pacing intervals of the validator runtime.
type IntervalConfig struct {
	MetagraphInterval time.Duration
	BlockInterval     time.Duration
	RoundPacing       time.Duration
	EmptyPeerBackoff  time.Duration
}

var (
	DevIntervalConfig = &IntervalConfig{
		MetagraphInterval: 5 * time.Second,
		BlockInterval:     2 * time.Second,
		RoundPacing:       5 * time.Second,
		EmptyPeerBackoff:  time.Second,
	}
	TestIntervalConfig = &IntervalConfig{
		MetagraphInterval: 30 * time.Second,
		BlockInterval:     12 * time.Second,
		RoundPacing:       100 * time.Second,
		EmptyPeerBackoff:  5 * time.Second,
	}

	ProdIntervalConfig = &IntervalConfig{
		MetagraphInterval: 30 * time.Second,
		BlockInterval:     12 * time.Second,
		RoundPacing:       100 * time.Second,
		EmptyPeerBackoff:  5 * time.Second,
	}
)

func NewIntervalConfig(environment string) *IntervalConfig {
	switch strings.ToLower(environment) {
	case "dev":
		return DevIntervalConfig
	case "test":
		return TestIntervalConfig
	case "prod":
		return ProdIntervalConfig
	}

	return DevIntervalConfig
}
