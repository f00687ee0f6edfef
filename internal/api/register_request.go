package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" validate:"required" example:"alice"`
	// Password 長度由 Identity.Register 檢查，帳號已存在時先回報 Conflict
	Password string `json:"password" example:"secret1"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user admin" example:"user"`
}
