package middleware

import (
	"strings"

	"e-library/internal/errs"
	"e-library/internal/service"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

const (
	msgTokenMissing = "Unauthorized, token missing"
	msgBadHeader    = "Unauthorized, invalid authorization header format"
)

// Verifier 由 service.TokenService 實作
type Verifier interface {
	Verify(token string) (service.Principal, error)
}

// Guard 解析 Bearer token 並檢查角色
type Guard struct {
	tokens Verifier
}

func NewGuard(tokens Verifier) *Guard {
	return &Guard{tokens: tokens}
}

func (g *Guard) principal(c echo.Context) (service.Principal, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return service.Principal{}, errs.E(errs.Unauthenticated, msgTokenMissing)
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return service.Principal{}, errs.E(errs.Unauthenticated, msgBadHeader)
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return service.Principal{}, errs.E(errs.Unauthenticated, msgTokenMissing)
	}
	return g.tokens.Verify(token)
}

func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := g.principal(c)
		if err != nil {
			return err
		}
		c.Set(ContextUserKey, p)
		return next(c)
	}
}

// RequireAdmin 必須掛在 RequireAuth 之後
func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return errs.E(errs.Unauthenticated, msgTokenMissing)
		}
		if err := service.AuthorizeAdmin(p); err != nil {
			return err
		}
		return next(c)
	}
}

// PrincipalFrom 取出 RequireAuth 放入的呼叫者
func PrincipalFrom(c echo.Context) (service.Principal, bool) {
	p, ok := c.Get(ContextUserKey).(service.Principal)
	return p, ok
}
