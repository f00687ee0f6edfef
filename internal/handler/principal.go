package handler

import (
	"e-library/internal/errs"
	"e-library/internal/middleware"
	"e-library/internal/service"

	"github.com/labstack/echo/v4"
)

// Principal 取出已驗證的呼叫者；路由未掛 RequireAuth 時回傳 Unauthenticated
func Principal(c echo.Context) (service.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return service.Principal{}, errs.E(errs.Unauthenticated, "Unauthorized, token missing")
	}
	return p, nil
}
