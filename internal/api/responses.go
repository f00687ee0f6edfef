// File: internal/api/responses.go
package api

import "e-library/internal/model"

// ErrorResponse 全域錯誤響應模型
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Error string `json:"error" example:"Book not found"`
}

// swagger:model api.MessageResponse
type MessageResponse struct {
	Message string `json:"message" example:"Book deleted"`
}

// swagger:model api.UserMessageResponse
type UserMessageResponse struct {
	Message string           `json:"message" example:"User registered successfully"`
	User    model.UserPublic `json:"user"`
}

// swagger:model api.LoginResponse
type LoginResponse struct {
	Message string `json:"message" example:"Login successful"`
	Token   string `json:"token"`
}

// swagger:model api.DeleteAllUsersResponse
type DeleteAllUsersResponse struct {
	Message string `json:"message" example:"Deleted 3 users."`
	Count   int64  `json:"count" example:"3"`
}

// swagger:model api.BookMessageResponse
type BookMessageResponse struct {
	Message string     `json:"message" example:"Book created"`
	Book    model.Book `json:"book"`
}

// swagger:model api.BorrowMessageResponse
type BorrowMessageResponse struct {
	Message string       `json:"message" example:"Book borrowed successfully"`
	Borrow  model.Borrow `json:"borrow"`
}

// swagger:model api.BookPage
type BookPage = model.Page[model.Book]

// swagger:model api.BorrowPage
type BorrowPage = model.Page[model.Borrow]

// swagger:model api.StatusResponse
type StatusResponse struct {
	Status model.BorrowStatus `json:"status" example:"available"`
}

// swagger:model api.CountResponse
type CountResponse struct {
	BookID        int `json:"bookId" example:"1"`
	TotalBorrowed int `json:"totalBorrowed" example:"4"`
}

// swagger:model api.PingResponse
type PingResponse struct {
	Message string `json:"message" example:"pong"`
}
