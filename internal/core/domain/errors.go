package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrUserExists         = errors.New("username or email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMissing       = errors.New("access token not provided")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrUploadRejected     = errors.New("upload rejected")
	ErrForbidden          = errors.New("access forbidden")
)

// DetailError attaches a client-facing message to one of the sentinel errors
// above. errors.Is matches the sentinel; Error returns the message.
type DetailError struct {
	Kind error
	Msg  string
}

func (e *DetailError) Error() string { return e.Msg }

func (e *DetailError) Unwrap() error { return e.Kind }

// Reject builds a DetailError of the given kind.
func Reject(kind error, msg string) error {
	return &DetailError{Kind: kind, Msg: msg}
}
