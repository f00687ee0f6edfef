package handler

import (
	"strconv"

	"e-library/internal/model"

	"github.com/labstack/echo/v4"
)

// Paging 讀取 ?page=&limit=，無法解析的值套用預設
func Paging(c echo.Context) model.Paging {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return model.NewPaging(page, limit)
}
