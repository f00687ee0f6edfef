// File: internal/router/router.go
package router

import (
	"e-library/internal/cache"
	"e-library/internal/database"
	"e-library/internal/handler"
	"e-library/internal/handler/auth"
	"e-library/internal/handler/books"
	"e-library/internal/handler/borrows"
	"e-library/internal/middleware"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// Deps 路由所需的元件，由 main 組裝後注入
type Deps struct {
	DB       database.DB
	Cache    cache.Cache
	Guard    *middleware.Guard
	Identity auth.Identity
	Catalog  books.Catalog
	Ledger   borrows.Ledger
	Log      *zap.Logger
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	requireAuth := d.Guard.RequireAuth
	requireAdmin := d.Guard.RequireAdmin

	e.GET("/", handler.RootHandler)
	e.GET("/favicon.ico", handler.FaviconHandler)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// 健康檢查（需登入）
	e.GET("/ping", handler.PingHandler(d.DB, d.Cache), requireAuth)

	// 註冊、登入與帳號管理
	authGroup := e.Group("/auth")
	authGroup.POST("/register", auth.RegisterHandler(d.Identity))
	authGroup.POST("/login", auth.LoginHandler(d.Identity))
	authGroup.GET("/users", auth.ListUsersHandler(d.Identity), requireAuth, requireAdmin)
	authGroup.GET("/users/:id", auth.GetUserHandler(d.Identity), requireAuth)
	authGroup.PATCH("/users/:id", auth.UpdateUserHandler(d.Identity), requireAuth)
	authGroup.DELETE("/users/:id", auth.DeleteUserHandler(d.Identity), requireAuth)
	authGroup.DELETE("/delete-all-users", auth.DeleteAllUsersHandler(d.Identity), requireAuth, requireAdmin)

	// 群組不掛中介層，避免 echo 為群組註冊額外的 catch-all 路由
	booksGroup := e.Group("/books")
	booksGroup.GET("", books.ListBooksHandler(d.Catalog), requireAuth)
	booksGroup.GET("/:id", books.GetBookHandler(d.Catalog), requireAuth)
	booksGroup.GET("/:id/borrows", books.BookBorrowsHandler(d.Catalog), requireAuth)
	booksGroup.POST("", books.CreateBookHandler(d.Catalog), requireAuth, requireAdmin)
	booksGroup.PUT("/:id", books.UpdateBookHandler(d.Catalog), requireAuth, requireAdmin)
	booksGroup.DELETE("/:id", books.DeleteBookHandler(d.Catalog), requireAuth, requireAdmin)

	borrowsGroup := e.Group("/borrows")
	borrowsGroup.POST("", borrows.BorrowHandler(d.Ledger), requireAuth)
	borrowsGroup.GET("", borrows.MyBorrowsHandler(d.Ledger), requireAuth)
	borrowsGroup.PATCH("/:id", borrows.ReturnHandler(d.Ledger), requireAuth)
	borrowsGroup.DELETE("/:id", borrows.DeleteHandler(d.Ledger), requireAuth)
	borrowsGroup.GET("/book/:bookId/status", borrows.StatusHandler(d.Ledger), requireAuth)
	borrowsGroup.GET("/admin/all", borrows.AllBorrowsHandler(d.Ledger), requireAuth, requireAdmin)
	borrowsGroup.GET("/admin/user/:userId", borrows.UserBorrowsHandler(d.Ledger), requireAuth, requireAdmin)
	borrowsGroup.GET("/book/:bookId/count", borrows.CountHandler(d.Ledger), requireAuth, requireAdmin)
	borrowsGroup.GET("/book/:bookId/history", borrows.HistoryHandler(d.Ledger), requireAuth, requireAdmin)

	e.RouteNotFound("/*", handler.NotFoundHandler)
}
