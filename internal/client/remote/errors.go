package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Remote gateway errors
var (
	// ErrNotFound indicates that the requested row does not exist remotely
	ErrNotFound = errors.New("remote row not found")

	// ErrConflict indicates a unique constraint violation
	ErrConflict = errors.New("remote conflict")

	// ErrUnavailable indicates that the remote system could not be reached
	ErrUnavailable = errors.New("remote unavailable")
)

// StatusError is a non-2xx response of the remote system.
type StatusError struct {
	Code    string // код ошибки PostgREST/SQLSTATE
	Message string
	Status  int
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote error (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("remote error (%d): %s", e.Status, e.Message)
}

// Unwrap maps the status to one of the sentinel errors.
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	}
	return nil
}
