package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"e-library/internal/cache"
	"e-library/internal/database"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPingHandler(t *testing.T) {
	okSet := func(ctx context.Context, key string, val any, exp time.Duration) *redis.StatusCmd {
		require.Equal(t, pingKey, key)
		return redis.NewStatusResult("OK", nil)
	}

	cases := []struct {
		name    string
		pingErr error
		setFn   func(ctx context.Context, key string, val any, exp time.Duration) *redis.StatusCmd
		code    int
		body    string
	}{
		{
			name:    "db unhealthy",
			pingErr: errors.New("fail"),
			code:    http.StatusInternalServerError,
			body:    `{"error":"database unhealthy"}`,
		},
		{
			name: "cache unhealthy",
			setFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
				return redis.NewStatusResult("", errors.New("set"))
			},
			code: http.StatusInternalServerError,
			body: `{"error":"cache unhealthy"}`,
		},
		{
			name:  "ok",
			setFn: okSet,
			code:  http.StatusOK,
			body:  `{"message":"pong"}`,
		},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := &database.FakeDB{PingFn: func(context.Context) error { return tc.pingErr }}
			// SetFn 為 nil 時 FakeCache 會 panic，確保資料庫失敗時不再碰快取
			cch := &cache.FakeCache{SetFn: tc.setFn}

			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/ping", nil), rec)
			require.NoError(t, PingHandler(db, cch)(c))
			require.Equal(t, tc.code, rec.Code)
			require.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestRootAndFavicon(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	require.NoError(t, RootHandler(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	require.Equal(t, "E-Library API is running", rec.Body.String())

	rec = httptest.NewRecorder()
	require.NoError(t, FaviconHandler(e.NewContext(httptest.NewRequest(http.MethodGet, "/favicon.ico", nil), rec)))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestNotFoundHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/missing", nil), rec)
	e.HTTPErrorHandler(NotFoundHandler(c), c)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"Route not found"}`, rec.Body.String())
}
