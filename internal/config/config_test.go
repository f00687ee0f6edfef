package config

import (
	"errors"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestLoadDefaults(t *testing.T) {
	t.Cleanup(func() { loadDotEnv = func() error { return godotenv.Load() } })
	loadDotEnv = func() error { return nil }
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@localhost/db", cfg.DatabaseURL)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, 5*time.Minute, cfg.BookCacheTTL)
	require.Equal(t, 4, cfg.WorkerCount)
	require.Equal(t, ":3000", cfg.HTTPAddr)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 0, cfg.RedisDB)
	require.False(t, cfg.MigrateReset)
}

func TestLoadOverrides(t *testing.T) {
	t.Cleanup(func() { loadDotEnv = func() error { return godotenv.Load() } })
	loadDotEnv = func() error { return nil }
	setRequired(t)
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("WORKER_COUNT", "2")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, cfg.TokenTTL)
	require.Equal(t, 2, cfg.WorkerCount)
	require.Equal(t, 3, cfg.RedisDB)
}

func TestLoadErrors(t *testing.T) {
	t.Cleanup(func() { loadDotEnv = func() error { return godotenv.Load() } })
	loadDotEnv = func() error { return nil }

	t.Run("missing secret", func(t *testing.T) {
		setRequired(t)
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("bad worker count", func(t *testing.T) {
		setRequired(t)
		t.Setenv("WORKER_COUNT", "0")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		setRequired(t)
		t.Setenv("TOKEN_TTL", "soon")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("dotenv failure", func(t *testing.T) {
		setRequired(t)
		loadDotEnv = func() error { return errors.New("parse") }
		_, err := Load()
		require.Error(t, err)
	})
}
