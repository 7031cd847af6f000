package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// APIConfig configures the HTTP server and the shared persistence stack.
// PORT is honored for platform deploys and wins over TUBESIM_API_ADDR.
type APIConfig struct {
	Port          string        `env:"PORT"`
	Addr          string        `env:"TUBESIM_API_ADDR" envDefault:":8080"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	RedisURL      string        `env:"REDIS_URL"`
	AuthSecret    string        `env:"TUBESIM_AUTH_SECRET"`
	SessionExpiry time.Duration `env:"TUBESIM_SESSION_EXPIRY" envDefault:"24h"`
	RunMigrations bool          `env:"TUBESIM_MIGRATE" envDefault:"true"`
}

// WorkerConfig drives the tick loop.
type WorkerConfig struct {
	DatabaseURL   string        `env:"DATABASE_URL"`
	TickEvery     time.Duration `env:"TUBESIM_TICK_EVERY" envDefault:"2s"`
	RunOnce       bool          `env:"TUBESIM_WORKER_RUN_ONCE" envDefault:"false"`
	RunMigrations bool          `env:"TUBESIM_MIGRATE" envDefault:"false"`
}

type CLIConfig struct {
	APIBaseURL string `env:"TUBE_API_BASE_URL" envDefault:"http://localhost:8080"`
}

func LoadAPIFromEnv() (APIConfig, error) {
	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Port != "" {
		cfg.Addr = cfg.Port
		if !strings.HasPrefix(cfg.Addr, ":") {
			cfg.Addr = ":" + cfg.Addr
		}
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(cfg.AuthSecret) == "" {
		return cfg, fmt.Errorf("TUBESIM_AUTH_SECRET is required")
	}
	return cfg, nil
}

func LoadWorkerFromEnv() (WorkerConfig, error) {
	var cfg WorkerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.TickEvery < 500*time.Millisecond {
		cfg.TickEvery = 500 * time.Millisecond
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	var cfg CLIConfig
	_ = env.Parse(&cfg)
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return cfg
}
