// File: internal/handler/books/books.go
package books

import (
	"context"
	"net/http"

	"e-library/internal/api"
	"e-library/internal/handler"
	"e-library/internal/model"
	"e-library/internal/service"

	"github.com/labstack/echo/v4"
)

// Catalog 由 service.Catalog 實作
type Catalog interface {
	List(ctx context.Context, search string, p model.Paging) (model.Page[model.Book], error)
	Get(ctx context.Context, id int) (*model.Book, error)
	Create(ctx context.Context, in service.BookInput) (*model.Book, error)
	Update(ctx context.Context, id int, in service.BookInput) (*model.Book, error)
	Delete(ctx context.Context, id int) error
	BorrowsOf(ctx context.Context, id int) ([]model.Borrow, error)
}

func bookInput(c echo.Context) (service.BookInput, error) {
	var req api.BookRequest
	if err := handler.Bind(c, &req); err != nil {
		return service.BookInput{}, err
	}
	return service.BookInput{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Stock:       *req.Stock,
	}, nil
}

// ListBooksHandler 分頁與書名搜尋
// @Summary     List books
// @Tags        books
// @Produce     json
// @Param       page   query    int    false "頁碼，預設 1"
// @Param       limit  query    int    false "每頁筆數，預設 10，最多 100"
// @Param       search query    string false "書名關鍵字（不分大小寫）"
// @Success     200    {object} api.BookPage
// @Failure     401    {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /books [get]
func ListBooksHandler(svc Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, err := svc.List(c.Request().Context(), c.QueryParam("search"), handler.Paging(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, page)
	}
}

// @Summary     Get a book
// @Tags        books
// @Produce     json
// @Param       id  path     int true "書籍 ID"
// @Success     200 {object} model.Book
// @Failure     404 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /books/{id} [get]
func GetBookHandler(svc Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		book, err := svc.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, book)
	}
}

// @Summary     Create a book
// @Tags        books
// @Accept      json
// @Produce     json
// @Param       body body     api.BookRequest true "書籍資料"
// @Success     200  {object} api.BookMessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /books [post]
func CreateBookHandler(svc Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		in, err := bookInput(c)
		if err != nil {
			return err
		}
		book, err := svc.Create(c.Request().Context(), in)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.BookMessageResponse{Message: "Book created", Book: *book})
	}
}

// UpdateBookHandler 整筆取代四個欄位
// @Summary     Update a book
// @Tags        books
// @Accept      json
// @Produce     json
// @Param       id   path     int             true "書籍 ID"
// @Param       body body     api.BookRequest true "書籍資料"
// @Success     200  {object} api.BookMessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /books/{id} [put]
func UpdateBookHandler(svc Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		in, err := bookInput(c)
		if err != nil {
			return err
		}
		book, err := svc.Update(c.Request().Context(), id, in)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.BookMessageResponse{Message: "Book updated", Book: *book})
	}
}

// DeleteBookHandler 借閱中的書不能刪除
// @Summary     Delete a book
// @Tags        books
// @Produce     json
// @Param       id  path     int true "書籍 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse "書籍借閱中"
// @Failure     404 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /books/{id} [delete]
func DeleteBookHandler(svc Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Delete(c.Request().Context(), id); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Book deleted"})
	}
}

// @Summary     Borrows of a book
// @Description 該書所有借閱紀錄，附借閱者資料
// @Tags        books
// @Produce     json
// @Param       id  path     int true "書籍 ID"
// @Success     200 {array}  model.Borrow
// @Security    BearerAuth
// @Router      /books/{id}/borrows [get]
func BookBorrowsHandler(svc Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		items, err := svc.BorrowsOf(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, items)
	}
}
