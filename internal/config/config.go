// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config 服務啟動所需的全部設定，僅於啟動時建立一次並注入各元件
type Config struct {
	DatabaseURL   string        `envconfig:"DATABASE_URL" required:"true"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" required:"true"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"1h"`
	BookCacheTTL  time.Duration `envconfig:"BOOK_CACHE_TTL" default:"5m"`
	WorkerCount   int           `envconfig:"WORKER_COUNT" default:"4"`
	HTTPAddr      string        `envconfig:"HTTP_ADDR" default:":3000"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	// MigrateReset 啟動時先退回所有 migration，只能用於開發環境
	MigrateReset bool `envconfig:"MIGRATE_RESET" default:"false"`
}

var loadDotEnv = func() error { return godotenv.Load() }

// Load 讀取 .env（若存在）與環境變數
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("環境變數 DATABASE_URL 未設定")
	}
	if c.RedisAddr == "" {
		return errors.New("環境變數 REDIS_ADDR 未設定")
	}
	if c.JWTSecret == "" {
		return errors.New("環境變數 JWT_SECRET 未設定")
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("無效的 WORKER_COUNT: %d", c.WorkerCount)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("無效的 TOKEN_TTL: %s", c.TokenTTL)
	}
	return nil
}
