package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork covers transport failures before a status code arrives.
	ErrNetwork = errors.New("network error")
	// ErrTimeout is a network error whose cause was the request deadline.
	ErrTimeout = fmt.Errorf("%w: request timed out", ErrNetwork)

	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrServer        = errors.New("server error")
	ErrRequestFailed = errors.New("request failed")
)

// StatusError is a non-2xx response. It unwraps to the taxonomy sentinel
// for its status class, so callers match with errors.Is.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status >= 500:
		return ErrServer
	default:
		return ErrRequestFailed
	}
}
