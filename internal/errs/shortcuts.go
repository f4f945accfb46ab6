package errs

import (
	"fmt"
	"net/http"
)

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:  err,
		Msg:  "internal server error",
		Type: TypeInternal,
		Code: http.StatusInternalServerError,
	}
}

func NewBadRequest(err error, msg string) *AppError {
	return &AppError{
		Err:  err,
		Msg:  msg,
		Type: TypeBadRequest,
		Code: http.StatusBadRequest,
	}
}

func NewNotFound(err error, msg string) *AppError {
	return &AppError{
		Err:  err,
		Msg:  msg,
		Type: TypeNotFound,
		Code: http.StatusNotFound,
	}
}

func NewForbidden(err error, msg string) *AppError {
	return &AppError{
		Err:  err,
		Msg:  msg,
		Type: TypeForbidden,
		Code: http.StatusForbidden,
	}
}

func NewTooManyRequests(err error, msg string) *AppError {
	return &AppError{
		Err:  err,
		Msg:  msg,
		Type: TypeRateLimited,
		Code: http.StatusTooManyRequests,
	}
}

// NewConfiguration reports a missing or invalid setting, such as an unset
// API base URL.
func NewConfiguration(err error, msg string) *AppError {
	return &AppError{
		Err:  err,
		Msg:  msg,
		Type: TypeConfiguration,
		Code: http.StatusServiceUnavailable,
	}
}

// NewConnectivity reports a backend that could not be reached at all.
func NewConnectivity(err error) *AppError {
	return &AppError{
		Err:  err,
		Msg:  "backend unreachable",
		Type: TypeConnectivity,
		Code: http.StatusBadGateway,
	}
}

// NewUpstream reports a backend that answered with a non-2xx status. The
// status is passed through to the client.
func NewUpstream(status int, excerpt string) *AppError {
	msg := fmt.Sprintf("backend responded with %d", status)
	if excerpt != "" {
		msg += ": " + excerpt
	}
	return &AppError{
		Err:  fmt.Errorf("upstream status %d", status),
		Msg:  msg,
		Type: TypeUpstream,
		Code: status,
	}
}
