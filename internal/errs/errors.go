package errs

import (
	"errors"
	"fmt"
)

const (
	TypeConfiguration = "configuration"
	TypeConnectivity  = "connectivity"
	TypeUpstream      = "upstream"
	TypeBadRequest    = "bad_request"
	TypeNotFound      = "not_found"
	TypeForbidden     = "forbidden"
	TypeRateLimited   = "rate_limited"
	TypeInternal      = "internal"
)

// AppError is an error meant to reach an HTTP client. Msg is safe to show,
// Err is the underlying cause and is only logged.
type AppError struct {
	Err  error
	Msg  string
	Type string
	Code int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("type=%s, code=%d, msg=%s, err=%v", e.Type, e.Code, e.Msg, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, msg, typ string, code int) *AppError {
	return &AppError{
		Err:  err,
		Msg:  msg,
		Type: typ,
		Code: code,
	}
}

// As extracts an AppError from err. Anything else becomes an internal error.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}
