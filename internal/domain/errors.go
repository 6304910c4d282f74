package domain

import "errors"

// Error is an expected authentication failure with a stable code and a
// message that is safe to return to clients.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrUserNotFound       = &Error{Code: "user_not_found", Message: "User not found"}
	ErrInvalidPassword    = &Error{Code: "invalid_password", Message: "Invalid password"}
	ErrInvalidCredentials = &Error{Code: "invalid_credentials", Message: "Invalid credentials"}

	ErrMissingHeader = &Error{Code: "missing_header", Message: "No auth header given"}
	ErrMissingToken  = &Error{Code: "missing_token", Message: "Missing token"}
	ErrTokenInvalid  = &Error{Code: "token_invalid", Message: "Invalid token"}
	ErrTokenExpired  = &Error{Code: "token_expired", Message: "Token expired"}
	// ErrUnauthorized is what the auth gate reports for any token failure.
	ErrUnauthorized = &Error{Code: "unauthorized", Message: "Invalid or expired token"}

	ErrNotAuthenticated = &Error{Code: "not_authenticated", Message: "Not authenticated"}
)

// AsError returns the domain error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
