package domain

import "errors"

// Credential and token failures. All of them surface to clients as a generic
// 401; they stay distinct here for logs and metrics.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMalformed     = errors.New("token malformed")
	ErrTokenSignature     = errors.New("token signature invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnauthorized       = errors.New("unauthorized")
)

var (
	ErrForbidden        = errors.New("access forbidden")
	ErrUserExists       = errors.New("user already exists")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidInput     = errors.New("invalid input")
	ErrTooManyAttempts  = errors.New("too many sign-in attempts")
	ErrRecordNotFound   = errors.New("record not found")
	ErrUnknownModel     = errors.New("unknown model")
)

// IsAuthFailure reports whether err is any credential or token failure that
// must be reported to the caller as a plain "unauthorized".
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenSignature) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrUnauthorized)
}
