package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	DefaultView string `env:"DEFAULT_VIEW, default=presence_weekday"`

	Presence PresenceConfig
	Session  SessionConfig
	Redis    RedisConfig
}

type PresenceConfig struct {
	BaseURL      string        `env:"PRESENCE_API_URL, default=http://localhost:5000"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT,    default=30s"`
}

type SessionConfig struct {
	IdleTTL       time.Duration `env:"SESSION_IDLE_TTL,       default=30m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL, default=1m"`
	NotifyWorkers int           `env:"NOTIFY_WORKERS,         default=4"`
}

// RedisConfig configures the users listing cache. An empty address disables it.
type RedisConfig struct {
	Addr       string        `env:"REDIS_ADDR"`
	DB         int           `env:"REDIS_DB,          default=0"`
	CatalogTTL time.Duration `env:"CATALOG_CACHE_TTL, default=5m"`
}

// IsDevelopment reports whether logs should be human-friendly.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
