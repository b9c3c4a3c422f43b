// Package config reads the service defaults from AUTHD_* environment
// variables. Command line flags override them.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		Bind           string `env:"AUTHD_BIND" envDefault:"localhost:5000"`
		StoreDriver    string `env:"AUTHD_STORE_DRIVER" envDefault:"sqlite3"`
		StoreDSN       string `env:"AUTHD_STORE_DSN" envDefault:"authd-data"`
		Hasher         string `env:"AUTHD_HASHER" envDefault:"bcrypt"`
		HasherCost     int    `env:"AUTHD_HASHER_COST"`
		InsecureCookie bool   `env:"AUTHD_INSECURE_COOKIE"`

		SessionCacheTTL   time.Duration `env:"AUTHD_SESSION_CACHE_TTL" envDefault:"10m"`
		SessionCacheMaxMB int           `env:"AUTHD_SESSION_CACHE_MAX_MB" envDefault:"64"`

		LogLevel  string `env:"AUTHD_LOG_LEVEL" envDefault:"info"`
		LogPretty bool   `env:"AUTHD_LOG_PRETTY"`
	}
)

func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unable to parse environment, cause %w", err)
	}
	return cfg, nil
}

// FromMap is like FromEnv but reads variables from vars instead of the
// process environment.
func FromMap(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("config: unable to parse environment, cause %w", err)
	}
	return cfg, nil
}
