package main

import (
	"context"
	"fmt"

	"e-library/internal/cache"
	"e-library/internal/config"
	"e-library/internal/database"
	"e-library/internal/logger"
	"e-library/internal/middleware"
	"e-library/internal/router"
	"e-library/internal/service"
	"e-library/internal/worker"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

var (
	loadConfig      = config.Load
	newLogger       = logger.New
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackAllFn   = database.RollbackAll
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool   = worker.NewPool
)

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("Logger 建立失敗: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := newPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer rdb.Close()

	if cfg.MigrateReset {
		log.Warn("rolling back all migrations")
		if err := rollbackAllFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("RollbackAll 失敗: %w", err)
		}
	}
	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	// bcrypt 在 worker pool 中執行，限制同時進行的雜湊數量
	wp := newWorkerPool(cfg.WorkerCount)
	defer wp.Stop()

	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("TokenService 建立失敗: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(logger.RequestLoggerConfig(log)))
	e.Use(echomw.Recover())

	router.Setup(e, router.Deps{
		DB:       db,
		Cache:    rdb,
		Guard:    middleware.NewGuard(tokens),
		Identity: service.NewIdentity(db, service.NewPasswordHasher(wp), tokens, log),
		Catalog:  service.NewCatalog(db, rdb, cfg.BookCacheTTL, log),
		Ledger:   service.NewLedger(db, log),
		Log:      log,
	})

	log.Info("server starting", zap.String("addr", cfg.HTTPAddr))
	return startServer(e, cfg.HTTPAddr)
}
