package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// DataDir holds the local mirror files and mock-mode session slots.
	DataDir string `env:"DATA_DIR, default=./data"`

	Mongo MongoConfig
	Redis RedisConfig
	AI    AIConfig
}

// MongoConfig has no default URI on purpose: an absent MONGO_URI is not an
// error, it selects mock mode backed by the local mirror store.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=greenmaster"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type AIConfig struct {
	BaseURL string `env:"AI_BASE_URL, default=https://api.openai.com/v1"`
	APIKey  string `env:"AI_API_KEY"`
	Model   string `env:"AI_MODEL,    default=gpt-4o-mini"`
}

// RemoteMode reports whether a remote document database is configured.
func (c *Config) RemoteMode() bool {
	return c.Mongo.URI != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
