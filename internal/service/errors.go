package service

import "errors"

// Expected failure kinds. Handlers translate these into generic client-facing
// responses; anything not in this list is treated as an internal error and
// surfaced as a plain 500 without detail.
var (
	ErrInvalidInput = errors.New("invalid input")

	// Credential verification. Unknown username and wrong password are the
	// same error on purpose.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token verification.
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenRevoked   = errors.New("token revoked")

	// Password reset.
	ErrResetInvalidTarget = errors.New("reset target invalid")
	ErrResetInvalidToken  = errors.New("reset token invalid or expired")

	// Authorization and account management.
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")

	ErrMisconfigured = errors.New("auth config invalid")
)

// IsTokenError reports whether err is one of the token verification kinds.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenRevoked)
}
