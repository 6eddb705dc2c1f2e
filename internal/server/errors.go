// Package server provides the HTTP API of the skill resolution service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUpstream indicates a collaborator the engine depends on failed,
// typically the embedding provider.
type ErrUpstream struct {
	Err error
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("upstream failure: %v", e.Err)
}

func (e *ErrUpstream) Unwrap() error {
	return e.Err
}

// ErrBusy indicates no resolution worker became available before the client gave up.
type ErrBusy struct{}

func (e *ErrBusy) Error() string {
	return "server is busy, try again later"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		upstream   *ErrUpstream
		busy       *ErrBusy
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &busy):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
