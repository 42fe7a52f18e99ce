package model

import "time"

// User is the stored account record. PasswordHash never leaves the backend;
// every outward serialization goes through UserResponse.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthUser is the identity attached to a request after access token
// verification.
type AuthUser struct {
	ID          int64
	Username    string
	IsStaff     bool
	IsSuperuser bool
}

// CanManage reports whether the user holds the staff tier. A superuser is
// implicitly staff for permission purposes even if the stored flag is false.
func (u *AuthUser) CanManage() bool {
	return u.IsStaff || u.IsSuperuser
}

type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
	}
}

type UserCreateRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// UserUpdateRequest carries a partial update. Pointer fields distinguish
// "not sent" from zero values so role flags cannot be cleared by accident.
type UserUpdateRequest struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
}
