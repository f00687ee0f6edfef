package api

// BookRequest 新增與更新共用；更新為整筆取代
// swagger:model api.BookRequest
type BookRequest struct {
	Title       string `json:"title" validate:"required" example:"Dune"`
	Author      string `json:"author" validate:"required" example:"Frank Herbert"`
	Description string `json:"description" validate:"required" example:"Science fiction novel"`
	Stock       *int   `json:"stock" validate:"required,gte=0" example:"3"`
}
