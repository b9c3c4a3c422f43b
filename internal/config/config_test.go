package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromMap(map[string]string{})
	require.NoError(t, err)
	require.Equal(t, Config{
		Bind:              "localhost:5000",
		StoreDriver:       "sqlite3",
		StoreDSN:          "authd-data",
		Hasher:            "bcrypt",
		SessionCacheTTL:   10 * time.Minute,
		SessionCacheMaxMB: 64,
		LogLevel:          "info",
	}, cfg)
}

func TestOverrides(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"AUTHD_BIND":              "0.0.0.0:5000",
		"AUTHD_STORE_DRIVER":      "pgx",
		"AUTHD_STORE_DSN":         "postgres://localhost/authd",
		"AUTHD_HASHER":            "argon2id",
		"AUTHD_HASHER_COST":       "3",
		"AUTHD_INSECURE_COOKIE":   "true",
		"AUTHD_SESSION_CACHE_TTL": "1m",
	})
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:5000", cfg.Bind)
	require.Equal(t, "pgx", cfg.StoreDriver)
	require.Equal(t, "postgres://localhost/authd", cfg.StoreDSN)
	require.Equal(t, "argon2id", cfg.Hasher)
	require.Equal(t, 3, cfg.HasherCost)
	require.True(t, cfg.InsecureCookie)
	require.Equal(t, time.Minute, cfg.SessionCacheTTL)

	_, err = FromMap(map[string]string{"AUTHD_HASHER_COST": "many"})
	require.Error(t, err)
}
