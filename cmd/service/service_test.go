package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"e-library/internal/cache"
	"e-library/internal/config"
	"e-library/internal/database"
	"e-library/internal/logger"
	"e-library/internal/worker"
)

func restoreGlobals() {
	loadConfig = config.Load
	newLogger = logger.New
	newPgxPool = database.NewPgxPool
	newRedisClient = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackAllFn = database.RollbackAll
	startServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool = worker.NewPool
	exitFunc = func(code int) {}
}

func testConfig() *config.Config {
	return &config.Config{
		DatabaseURL:   "db",
		RedisAddr:     "127",
		RedisPassword: "pw",
		RedisDB:       1,
		JWTSecret:     "secret",
		TokenTTL:      time.Hour,
		BookCacheTTL:  time.Minute,
		WorkerCount:   2,
		HTTPAddr:      ":3000",
		LogLevel:      "info",
	}
}

// stubAll 讓 run() 不接觸任何外部服務
func stubAll(cfg *config.Config) {
	loadConfig = func() (*config.Config, error) { return cfg, nil }
	newLogger = func(string) (*zap.Logger, error) { return zap.NewNop(), nil }
	newPgxPool = func(context.Context, string) (database.DB, error) { return &database.FakeDB{}, nil }
	newRedisClient = func(string, string, int) (cache.Cache, error) { return &cache.FakeCache{}, nil }
	runMigrationsFn = func(string) error { return nil }
	rollbackAllFn = func(string) error { panic("unexpected RollbackAll") }
	startServer = func(*echo.Echo, string) error { return nil }
}

func TestRunSuccess(t *testing.T) {
	t.Cleanup(restoreGlobals)
	cfg := testConfig()
	stubAll(cfg)

	called := make(map[string]bool)
	newPgxPool = func(ctx context.Context, url string) (database.DB, error) {
		called["pgx"] = true
		require.Equal(t, "db", url)
		return &database.FakeDB{CloseFn: func() { called["dbClose"] = true }}, nil
	}
	newRedisClient = func(addr, pwd string, db int) (cache.Cache, error) {
		called["redis"] = true
		require.Equal(t, "127", addr)
		require.Equal(t, "pw", pwd)
		require.Equal(t, 1, db)
		return &cache.FakeCache{CloseFn: func() error { called["redisClose"] = true; return nil }}, nil
	}
	runMigrationsFn = func(url string) error { called["migrate"] = true; return nil }
	newWorkerPool = func(n int) worker.Pool {
		called["worker"] = true
		require.Equal(t, 2, n)
		return worker.NewPool(n)
	}
	startServer = func(e *echo.Echo, addr string) error {
		called["start"] = true
		require.Equal(t, ":3000", addr)
		require.NotNil(t, e.Validator)
		require.NotEmpty(t, e.Routes())
		return nil
	}

	require.NoError(t, run())
	for _, k := range []string{"pgx", "redis", "migrate", "worker", "start", "dbClose", "redisClose"} {
		require.True(t, called[k], k)
	}
}

func TestRunErrors(t *testing.T) {
	t.Cleanup(restoreGlobals)

	stubAll(testConfig())
	loadConfig = func() (*config.Config, error) { return nil, errors.New("env") }
	require.ErrorContains(t, run(), "設定載入失敗")

	stubAll(testConfig())
	newLogger = func(string) (*zap.Logger, error) { return nil, errors.New("level") }
	require.ErrorContains(t, run(), "Logger 建立失敗")

	stubAll(testConfig())
	newPgxPool = func(context.Context, string) (database.DB, error) { return nil, errors.New("db") }
	require.ErrorContains(t, run(), "DB 連線失敗")

	stubAll(testConfig())
	newRedisClient = func(string, string, int) (cache.Cache, error) { return nil, errors.New("redis") }
	require.ErrorContains(t, run(), "Redis 連線失敗")

	stubAll(testConfig())
	runMigrationsFn = func(string) error { return errors.New("migrate") }
	require.ErrorContains(t, run(), "Migration 執行失敗")

	cfg := testConfig()
	cfg.MigrateReset = true
	stubAll(cfg)
	rollbackAllFn = func(string) error { return errors.New("down") }
	require.ErrorContains(t, run(), "RollbackAll 失敗")

	cfg = testConfig()
	cfg.JWTSecret = ""
	stubAll(cfg)
	require.ErrorContains(t, run(), "TokenService 建立失敗")

	stubAll(testConfig())
	startServer = func(*echo.Echo, string) error { return errors.New("start") }
	require.EqualError(t, run(), "start")
}

func TestRunMigrateReset(t *testing.T) {
	t.Cleanup(restoreGlobals)
	cfg := testConfig()
	cfg.MigrateReset = true
	stubAll(cfg)

	var order []string
	rollbackAllFn = func(string) error { order = append(order, "down"); return nil }
	runMigrationsFn = func(string) error { order = append(order, "up"); return nil }
	require.NoError(t, run())
	require.Equal(t, []string{"down", "up"}, order)
}

func TestMainFunction(t *testing.T) {
	t.Cleanup(restoreGlobals)
	stubAll(testConfig())
	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	main()
	require.Equal(t, 0, exitCode)
}

func TestMainExit(t *testing.T) {
	t.Cleanup(restoreGlobals)
	stubAll(testConfig())
	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	newPgxPool = func(context.Context, string) (database.DB, error) { return nil, errors.New("fail") }
	main()
	require.Equal(t, 1, exitCode)
}
