// File: internal/handler/errors.go
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"e-library/internal/api"
	"e-library/internal/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const msgInternal = "internal server error"

// ErrorHandler 將所有錯誤輸出為 {"error": "..."}
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := msgInternal

		var domainErr *errs.Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &domainErr):
			status = errs.HTTPStatus(domainErr.Kind)
			if domainErr.Kind != errs.Internal {
				msg = domainErr.Message
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			msg = fmt.Sprint(httpErr.Message)
		}

		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			msg = msgInternal
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, api.ErrorResponse{Error: msg})
		}
		if writeErr != nil {
			log.Warn("write error response", zap.Error(writeErr))
		}
	}
}

// Bind 解析 JSON 並執行 validator，失敗回傳 InvalidInput
func Bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.E(errs.InvalidInput, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return errs.E(errs.InvalidInput, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// ParamID 解析正整數路徑參數
func ParamID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, errs.E(errs.InvalidInput, fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}
