package api

// swagger:model api.BorrowRequest
type BorrowRequest struct {
	BookID int `json:"bookId" validate:"required,gt=0" example:"1"`
}
