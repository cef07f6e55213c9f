package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	SQLite  SQLiteConfig
	Metrics MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Session.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GLINTWASH_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"GLINTWASH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GLINTWASH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL        string        `envconfig:"GLINTWASH_API_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"GLINTWASH_API_REQUEST_TIMEOUT" default:"15s"`
}

// SessionConfig selects where the local session mirror lives.
type SessionConfig struct {
	Backend string `envconfig:"GLINTWASH_SESSION_BACKEND" default:"file"`
	Path    string `envconfig:"GLINTWASH_SESSION_PATH" default:".glintwash/session.json"`
}

func (s SessionConfig) validate() error {
	switch s.Backend {
	case SessionBackendFile, SessionBackendRedis, SessionBackendSQLite:
		return nil
	}
	return fmt.Errorf("unknown session backend %q (want %s, %s or %s)",
		s.Backend, SessionBackendFile, SessionBackendRedis, SessionBackendSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"GLINTWASH_REDIS_URL"`
	Address      string        `envconfig:"GLINTWASH_REDIS_ADDR"`
	Password     string        `envconfig:"GLINTWASH_REDIS_PASSWORD"`
	DB           int           `envconfig:"GLINTWASH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GLINTWASH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GLINTWASH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GLINTWASH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GLINTWASH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GLINTWASH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SQLiteConfig struct {
	Path        string `envconfig:"GLINTWASH_SQLITE_PATH" default:".glintwash/session.db"`
	AutoMigrate bool   `envconfig:"GLINTWASH_SQLITE_AUTO_MIGRATE" default:"true"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"GLINTWASH_METRICS_ENABLED" default:"false"`
	Address string `envconfig:"GLINTWASH_METRICS_ADDR" default:":9464"`
}
