package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	JWTExpiry time.Duration `env:"JWT_EXPIRES_IN, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// CORSOrigins is the comma-separated browser allow-list.
	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:5173"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI, required"`
	Database string `env:"MONGO_DB,    default=autocredits"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables. A missing required
// variable is a startup failure.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the process runs in development mode, which
// enables verbose error responses and pretty logs.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
