// File: internal/handler/ping.go
package handler

import (
	"net/http"
	"time"

	"e-library/internal/api"
	"e-library/internal/cache"
	"e-library/internal/database"
	"e-library/internal/errs"

	"github.com/labstack/echo/v4"
)

const pingKey = "health:ping"

// PingHandler 健康檢查（需通過認證）
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫與 Redis 連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} api.PingResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /ping [get]
func PingHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "database unhealthy"})
		}
		if err := cch.Set(ctx, pingKey, "pong", time.Minute).Err(); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "cache unhealthy"})
		}
		return c.JSON(http.StatusOK, api.PingResponse{Message: "pong"})
	}
}

// RootHandler 服務狀態文字
func RootHandler(c echo.Context) error {
	return c.String(http.StatusOK, "E-Library API is running")
}

func FaviconHandler(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// NotFoundHandler 未註冊的路由
func NotFoundHandler(echo.Context) error {
	return errs.E(errs.NotFound, "Route not found")
}
