package dto

type UserListResponse struct {
	Users []UserInfo `json:"users"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

type AdminUpdateUserRequest struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN"`
}

func (r AdminUpdateUserRequest) Validate() error {
	return GetValidator().Struct(r)
}
