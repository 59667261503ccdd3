package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kind codes carried in the error envelope.
const (
	CodeValidation = "VALIDATION"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeAuth       = "AUTH"
	CodeStorage    = "STORAGE"
	CodeDependency = "DEPENDENCY"
)

// Error is the single error taxonomy for the service layer. Handlers map it
// to a transport status exactly once, at the request boundary.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func Conflict(format string, args ...any) *Error {
	return New(http.StatusConflict, CodeConflict, fmt.Errorf(format, args...))
}

func Auth(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, CodeAuth, fmt.Errorf(format, args...))
}

func Storage(err error) *Error {
	return New(http.StatusInternalServerError, CodeStorage, err)
}

func Dependency(err error) *Error {
	return New(http.StatusInternalServerError, CodeDependency, err)
}

// From coerces an arbitrary error into an *Error. Untyped errors are treated
// as storage failures so nothing internal leaks an unmapped status.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Storage(err)
}
