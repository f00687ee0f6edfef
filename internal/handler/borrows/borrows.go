// File: internal/handler/borrows/borrows.go
package borrows

import (
	"context"
	"net/http"

	"e-library/internal/api"
	"e-library/internal/handler"
	"e-library/internal/model"

	"github.com/labstack/echo/v4"
)

// Ledger 由 service.Ledger 實作
type Ledger interface {
	Borrow(ctx context.Context, userID, bookID int) (*model.Borrow, error)
	Return(ctx context.Context, borrowID, requesterID int) (*model.Borrow, error)
	Delete(ctx context.Context, borrowID, requesterID int) error
	ListMine(ctx context.Context, userID int, p model.Paging) (model.Page[model.Borrow], error)
	ListForUser(ctx context.Context, userID int, p model.Paging) (model.Page[model.Borrow], error)
	ListAll(ctx context.Context, search string, p model.Paging) (model.Page[model.Borrow], error)
	StatusOf(ctx context.Context, bookID int) (model.BorrowStatus, error)
	CountFor(ctx context.Context, bookID int) (int, error)
	HistoryOf(ctx context.Context, bookID int, p model.Paging) (model.Page[model.Borrow], error)
}

// BorrowHandler 借書；同一本書同時只能被借一次
// @Summary     Borrow a book
// @Tags        borrows
// @Accept      json
// @Produce     json
// @Param       body body     api.BorrowRequest true "要借的書"
// @Success     200  {object} api.BorrowMessageResponse
// @Failure     400  {object} api.ErrorResponse "書籍借閱中"
// @Failure     404  {object} api.ErrorResponse "書籍不存在"
// @Security    BearerAuth
// @Router      /borrows [post]
func BorrowHandler(svc Ledger) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		var req api.BorrowRequest
		if err := handler.Bind(c, &req); err != nil {
			return err
		}
		br, err := svc.Borrow(c.Request().Context(), p.ID, req.BookID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.BorrowMessageResponse{Message: "Book borrowed successfully", Borrow: *br})
	}
}

// MyBorrowsHandler 自己的借閱紀錄
// @Summary     List my borrows
// @Tags        borrows
// @Produce     json
// @Param       page  query    int false "頁碼"
// @Param       limit query    int false "每頁筆數"
// @Success     200   {object} api.BorrowPage
// @Security    BearerAuth
// @Router      /borrows [get]
func MyBorrowsHandler(svc Ledger) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		page, err := svc.ListMine(c.Request().Context(), p.ID, handler.Paging(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, page)
	}
}

// ReturnHandler 歸還；紀錄不存在或不屬於自己都回傳 404
// @Summary     Return a book
// @Tags        borrows
// @Produce     json
// @Param       id  path     int true "借閱紀錄 ID"
// @Success     200 {object} api.BorrowMessageResponse
// @Failure     400 {object} api.ErrorResponse "已歸還"
// @Failure     404 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /borrows/{id} [patch]
func ReturnHandler(svc Ledger) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		br, err := svc.Return(c.Request().Context(), id, p.ID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.BorrowMessageResponse{Message: "Book returned successfully", Borrow: *br})
	}
}

// @Summary     Delete a returned borrow record
// @Tags        borrows
// @Produce     json
// @Param       id  path     int true "借閱紀錄 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse "尚未歸還"
// @Failure     404 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /borrows/{id} [delete]
func DeleteHandler(svc Ledger) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Delete(c.Request().Context(), id, p.ID); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Borrow record deleted successfully"})
	}
}

// AllBorrowsHandler 管理員；search 比對書名或使用者名稱
// @Summary     List all borrows
// @Tags        borrows
// @Produce     json
// @Param       page   query    int    false "頁碼"
// @Param       limit  query    int    false "每頁筆數"
// @Param       search query    string false "書名或使用者名稱"
// @Success     200    {object} api.BorrowPage
// @Failure     403    {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /borrows/admin/all [get]
func AllBorrowsHandler(svc Ledger) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, err := svc.ListAll(c.Request().Context(), c.QueryParam("search"), handler.Paging(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, page)
	}
}

// @Summary     List borrows of a user
// @Tags        borrows
// @Produce     json
// @Param       userId path     int true  "使用者 ID"
// @Param       page   query    int false "頁碼"
// @Param       limit  query    int false "每頁筆數"
// @Success     200    {object} api.BorrowPage
// @Failure     403    {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /borrows/admin/user/{userId} [get]
func UserBorrowsHandler(svc Ledger) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := handler.ParamID(c, "userId")
		if err != nil {
			return err
		}
		page, err := svc.ListForUser(c.Request().Context(), userID, handler.Paging(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, page)
	}
}

// @Summary     Book availability
// @Tags        borrows
// @Produce     json
// @Param       bookId path     int true "書籍 ID"
// @Success     200    {object} api.StatusResponse
// @Security    BearerAuth
// @Router      /borrows/book/{bookId}/status [get]
func StatusHandler(svc Ledger) echo.HandlerFunc {
	return func(c echo.Context) error {
		bookID, err := handler.ParamID(c, "bookId")
		if err != nil {
			return err
		}
		status, err := svc.StatusOf(c.Request().Context(), bookID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.StatusResponse{Status: status})
	}
}

// CountHandler 歷史總借閱次數
// @Summary     Borrow count of a book
// @Tags        borrows
// @Produce     json
// @Param       bookId path     int true "書籍 ID"
// @Success     200    {object} api.CountResponse
// @Failure     403    {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /borrows/book/{bookId}/count [get]
func CountHandler(svc Ledger) echo.HandlerFunc {
	return func(c echo.Context) error {
		bookID, err := handler.ParamID(c, "bookId")
		if err != nil {
			return err
		}
		n, err := svc.CountFor(c.Request().Context(), bookID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.CountResponse{BookID: bookID, TotalBorrowed: n})
	}
}

// @Summary     Borrow history of a book
// @Tags        borrows
// @Produce     json
// @Param       bookId path     int true  "書籍 ID"
// @Param       page   query    int false "頁碼"
// @Param       limit  query    int false "每頁筆數"
// @Success     200    {object} api.BorrowPage
// @Failure     403    {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /borrows/book/{bookId}/history [get]
func HistoryHandler(svc Ledger) echo.HandlerFunc {
	return func(c echo.Context) error {
		bookID, err := handler.ParamID(c, "bookId")
		if err != nil {
			return err
		}
		page, err := svc.HistoryOf(c.Request().Context(), bookID, handler.Paging(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, page)
	}
}
