// Package config loads server configuration from FLIP7_ environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Log formats
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Server is the complete server configuration
type Server struct {
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT"             envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT"     envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	StorageType    string        `env:"STORAGE_TYPE"     envDefault:"memory"`
	RedisURL       string        `env:"REDIS_URL"`
	RedisPoolSize  int           `env:"REDIS_POOL_SIZE"  envDefault:"10"`
	ResultTTL      time.Duration `env:"RESULT_TTL"       envDefault:"168h"`
	GuestPlayerTTL time.Duration `env:"GUEST_PLAYER_TTL" envDefault:"24h"`

	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"24h"`

	LobbyIdleTimeout time.Duration `env:"LOBBY_IDLE_TIMEOUT" envDefault:"60s"`
	GameIdleTimeout  time.Duration `env:"GAME_IDLE_TIMEOUT"  envDefault:"120s"`
	ReapInterval     time.Duration `env:"REAP_INTERVAL"      envDefault:"10s"`

	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
}

// Load parses the FLIP7_ environment into a validated Server config
func Load() (Server, error) {
	return parse(env.Options{Prefix: "FLIP7_"})
}

// LoadFrom parses cfg from an explicit environment map
func LoadFrom(environment map[string]string) (Server, error) {
	return parse(env.Options{Prefix: "FLIP7_", Environment: environment})
}

func parse(opts env.Options) (Server, error) {
	var cfg Server
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks values the environment parser cannot
func (c Server) Validate() error {
	var errs []error

	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("FLIP7_REDIS_URL is required when FLIP7_STORAGE_TYPE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid FLIP7_STORAGE_TYPE %q: must be memory or redis", c.StorageType))
	}

	switch c.LogFormat {
	case LogFormatJSON, LogFormatText:
	default:
		errs = append(errs, fmt.Errorf("invalid FLIP7_LOG_FORMAT %q: must be json or text", c.LogFormat))
	}

	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid FLIP7_PORT %d", c.Port))
	}
	if c.LobbyIdleTimeout <= 0 || c.GameIdleTimeout <= 0 || c.ReapInterval <= 0 {
		errs = append(errs, errors.New("idle timeouts and reap interval must be positive"))
	}

	return errors.Join(errs...)
}
