package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

// Config is the process configuration, loaded from the environment. A .env
// file in the working directory is picked up automatically.
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// Metadata store (Postgres).
	DBHost          string `env:"DB_HOST" envDefault:"localhost"`
	DBPort          int    `env:"DB_PORT" envDefault:"5432"`
	DBUsername      string `env:"DB_USERNAME,required"`
	DBPassword      string `env:"DB_PASSWORD,required"`
	DBDatabase      string `env:"DB_DATABASE,required"`
	DBAdminUser     string `env:"DB_ADMIN_USER"`
	DBAdminPassword string `env:"DB_ADMIN_PASSWORD"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	AccessTokenSecret string `env:"ACCESS_TOKEN_SECRET,required"`
	// 32-byte key for AES-256-GCM encryption of stored credentials.
	EncryptionKey string `env:"ENCRYPTION_KEY,required"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if len(cfg.EncryptionKey) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes, got %d", len(cfg.EncryptionKey))
	}
	return &cfg, nil
}
