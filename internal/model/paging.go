// File: internal/model/paging.go
package model

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Paging 分頁參數，offset = (page-1)*limit
type Paging struct {
	Page  int
	Limit int
}

// NewPaging 套用預設值與上限；page < 1 視為 1，limit < 1 視為預設，limit 最大 MaxLimit。
// page 上限使 (page-1)*limit 不會溢位
func NewPaging(page, limit int) Paging {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return Paging{Page: page, Limit: limit}
}

func (p Paging) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages ceil(total / limit)
func (p Paging) TotalPages(total int) int {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

// Page 分頁回應
type Page[T any] struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
	Items       []T `json:"items"`
}

// NewPage items 為 nil 時輸出空陣列
func NewPage[T any](p Paging, total int, items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		CurrentPage: p.Page,
		TotalPages:  p.TotalPages(total),
		TotalCount:  total,
		Items:       items,
	}
}
