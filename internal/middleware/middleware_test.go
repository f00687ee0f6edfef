package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"e-library/internal/errs"
	"e-library/internal/model"
	"e-library/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newContext(auth string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newGuard(t *testing.T) (*Guard, *service.TokenService) {
	t.Helper()
	tokens, err := service.NewTokenService("testsecret", time.Minute)
	require.NoError(t, err)
	return NewGuard(tokens), tokens
}

func ok(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRequireAuth(t *testing.T) {
	g, tokens := newGuard(t)

	cases := []struct {
		name   string
		header string
		kind   errs.Kind
		msg    string
	}{
		{"missing header", "", errs.Unauthenticated, "Unauthorized, token missing"},
		{"empty token", "Bearer ", errs.Unauthenticated, "Unauthorized, token missing"},
		{"bad scheme", "Basic abc", errs.Unauthenticated, msgBadHeader},
		{"no scheme", "abc", errs.Unauthenticated, msgBadHeader},
		{"invalid token", "Bearer invalid", errs.InvalidCredential, "Invalid or expired token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := newContext(tc.header)
			err := g.RequireAuth(ok)(ctx)
			require.Equal(t, tc.kind, errs.KindOf(err))
			require.Equal(t, tc.msg, err.Error())
			_, found := PrincipalFrom(ctx)
			require.False(t, found)
		})
	}

	t.Run("valid", func(t *testing.T) {
		tok, err := tokens.Issue(model.User{ID: 2, Role: model.RoleUser})
		require.NoError(t, err)
		ctx, rec := newContext("bearer " + tok)
		require.NoError(t, g.RequireAuth(ok)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		p, found := PrincipalFrom(ctx)
		require.True(t, found)
		require.Equal(t, service.Principal{ID: 2, Role: model.RoleUser}, p)
	})
}

func TestRequireAdmin(t *testing.T) {
	g, tokens := newGuard(t)
	chain := g.RequireAuth(g.RequireAdmin(ok))

	userTok, _ := tokens.Issue(model.User{ID: 2, Role: model.RoleUser})
	ctx, _ := newContext("Bearer " + userTok)
	err := chain(ctx)
	require.True(t, errs.Is(err, errs.Forbidden))
	require.Equal(t, "Forbidden: Admins only", err.Error())

	adminTok, _ := tokens.Issue(model.User{ID: 1, Role: model.RoleAdmin})
	ctx, rec := newContext("Bearer " + adminTok)
	require.NoError(t, chain(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	// 沒有先經過 RequireAuth
	ctx, _ = newContext("")
	require.True(t, errs.Is(g.RequireAdmin(ok)(ctx), errs.Unauthenticated))
}
