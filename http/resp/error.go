package resp

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalid            = errors.New("invalid")
	ErrNotFound           = errors.New("not found")
	ErrRedirectResolution = errors.New("cannot resolve redirect")
	ErrSerialization      = errors.New("cannot serialize")
)

// A StatusError is returned by a HandlerFunc to respond with Code
// instead of http.StatusInternalServerError.
type StatusError struct {
	Code int
	Err  error
}

// NewStatusError wraps err so it responds with the given code.
func NewStatusError(code int, err error) *StatusError {
	return &StatusError{Code: code, Err: err}
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%d %s", e.Code, http.StatusText(e.Code))
	}

	return e.Err.Error()
}

func (e *StatusError) Unwrap() error { return e.Err }
