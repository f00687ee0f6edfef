// File: internal/handler/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"

	"e-library/internal/api"
	"e-library/internal/handler"
	"e-library/internal/model"
	"e-library/internal/service"

	"github.com/labstack/echo/v4"
)

// Identity 由 service.Identity 實作
type Identity interface {
	Register(ctx context.Context, username, password, role string) (*model.UserPublic, error)
	Login(ctx context.Context, username, password string) (string, error)
	List(ctx context.Context) ([]model.UserPublic, error)
	Get(ctx context.Context, p service.Principal, id int) (*model.UserPublic, error)
	Update(ctx context.Context, p service.Principal, id int, username, password *string) (*model.UserPublic, error)
	Delete(ctx context.Context, p service.Principal, id int) error
	DeleteAllRegular(ctx context.Context, confirm string) (int64, error)
}

// RegisterHandler 建立帳號
// @Summary     Register a user
// @Description 註冊新帳號，role 省略時為 user；密碼至少 6 個字元
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     200  {object} api.UserMessageResponse
// @Failure     400  {object} api.ErrorResponse "帳號已存在或密碼太短"
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/register [post]
func RegisterHandler(svc Identity) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		user, err := svc.Register(c.Request().Context(), req.Username, req.Password, req.Role)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.UserMessageResponse{Message: "User registered successfully", User: *user})
	}
}

// LoginHandler 使用 Username/Password 驗證並回傳 JWT
// @Summary     Login
// @Description 驗證帳密並回傳一小時有效的存取令牌
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.LoginResponse
// @Failure     401  {object} api.ErrorResponse "密碼錯誤"
// @Failure     404  {object} api.ErrorResponse "使用者不存在"
// @Router      /auth/login [post]
func LoginHandler(svc Identity) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		token, err := svc.Login(c.Request().Context(), req.Username, req.Password)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.LoginResponse{Message: "Login successful", Token: token})
	}
}

// ListUsersHandler 列出所有使用者（管理員）
// @Summary     List users
// @Tags        users
// @Produce     json
// @Success     200 {array}  model.UserPublic
// @Failure     403 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /auth/users [get]
func ListUsersHandler(svc Identity) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := svc.List(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, users)
	}
}

// GetUserHandler 本人或管理員
// @Summary     Get a user by ID
// @Tags        users
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} model.UserPublic
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /auth/users/{id} [get]
func GetUserHandler(svc Identity) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		user, err := svc.Get(c.Request().Context(), p, id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, user)
	}
}

// UpdateUserHandler 只能修改自己的帳號
// @Summary     Update own account
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id   path     int                   true "使用者 ID"
// @Param       body body     api.UpdateUserRequest true "要更新的欄位"
// @Success     200  {object} api.UserMessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /auth/users/{id} [patch]
func UpdateUserHandler(svc Identity) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		var req api.UpdateUserRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		user, err := svc.Update(c.Request().Context(), p, id, req.Username, req.Password)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.UserMessageResponse{Message: "User updated", User: *user})
	}
}

// DeleteUserHandler 本人或管理員
// @Summary     Delete a user
// @Tags        users
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse "仍有借閱中的書"
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /auth/users/{id} [delete]
func DeleteUserHandler(svc Identity) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Delete(c.Request().Context(), p, id); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "User deleted successfully"})
	}
}

// DeleteAllUsersHandler 刪除所有一般使用者（管理員），需送出 {"confirm":"yes"}
// @Summary     Delete all regular users
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.DeleteAllUsersRequest true "確認"
// @Success     200  {object} api.DeleteAllUsersResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /auth/delete-all-users [delete]
func DeleteAllUsersHandler(svc Identity) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.DeleteAllUsersRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		n, err := svc.DeleteAllRegular(c.Request().Context(), req.Confirm)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.DeleteAllUsersResponse{
			Message: fmt.Sprintf("Deleted %d users.", n),
			Count:   n,
		})
	}
}
