package api

// swagger:model api.DeleteAllUsersRequest
type DeleteAllUsersRequest struct {
	Confirm string `json:"confirm" example:"yes"`
}
