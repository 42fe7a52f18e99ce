package model

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Access      string `json:"access"`
	Refresh     string `json:"refresh"`
	ID          int64  `json:"id"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// RenewRequest carries the refresh token. The field is named "refresh" on the
// wire; that is the canonical name for every session endpoint.
type RenewRequest struct {
	Refresh string `json:"refresh"`
}

type RenewResponse struct {
	Access string `json:"access"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirmRequest struct {
	UID      string `json:"uid"`
	Token    string `json:"token"`
	Password string `json:"password"`
}
