package api

// UpdateUserRequest 欄位皆可省略，省略的欄位維持原值
// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" example:"alice2"`
	Password *string `json:"password,omitempty" example:"secret2"`
}
