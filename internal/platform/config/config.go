package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string        `env:"CLINICDESK_ADDR"             envDefault:":8080"`
	LogLevel        string        `env:"CLINICDESK_LOG_LEVEL"        envDefault:"info"`
	LogFormat       string        `env:"CLINICDESK_LOG_FORMAT"       envDefault:"json"`
	Seed            bool          `env:"CLINICDESK_SEED"             envDefault:"true"`
	ShutdownTimeout time.Duration `env:"CLINICDESK_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Hub   HubConfig
	Redis RedisConfig
}

// HubConfig bounds the realtime connection set.
type HubConfig struct {
	MaxConnections int `env:"CLINICDESK_HUB_MAX_CONNECTIONS" envDefault:"512"`
	QueueSize      int `env:"CLINICDESK_HUB_QUEUE_SIZE"      envDefault:"16"`
}

// RedisConfig configures the optional cross-instance event relay.
// An empty URL disables the relay.
type RedisConfig struct {
	URL          string        `env:"CLINICDESK_REDIS_URL"`
	Channel      string        `env:"CLINICDESK_REDIS_CHANNEL"        envDefault:"clinicdesk:events"`
	PoolSize     int           `env:"CLINICDESK_REDIS_POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"CLINICDESK_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"CLINICDESK_REDIS_DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"CLINICDESK_REDIS_READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"CLINICDESK_REDIS_WRITE_TIMEOUT"  envDefault:"3s"`
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Hub.MaxConnections <= 0 {
		return Server{}, fmt.Errorf("CLINICDESK_HUB_MAX_CONNECTIONS must be positive, got %d", cfg.Hub.MaxConnections)
	}
	if cfg.Hub.QueueSize <= 0 {
		return Server{}, fmt.Errorf("CLINICDESK_HUB_QUEUE_SIZE must be positive, got %d", cfg.Hub.QueueSize)
	}
	return cfg, nil
}
