package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport wraps failures to reach the backend or read its reply.
	ErrTransport = errors.New("api: transport failure")
	// ErrMissingInput is returned before any request when a required input
	// such as the product ID is absent.
	ErrMissingInput = errors.New("api: missing required input")
	// ErrResponseTooLarge is returned when a reply exceeds jsonutil.MaxBodyBytes.
	// The backend was reached, so it does not wrap ErrTransport.
	ErrResponseTooLarge = errors.New("api: response too large")
)

// BusinessError is a well-formed backend reply with success=false.
type BusinessError struct {
	Code    int
	Message string
}

func (e *BusinessError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request rejected (code %d)", e.Code)
	}
	return fmt.Sprintf("api: %s (code %d)", e.Message, e.Code)
}

// IsAuth reports whether the rejection is an authentication failure.
func (e *BusinessError) IsAuth() bool {
	return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
}

// AsBusiness extracts a *BusinessError from err.
func AsBusiness(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func transportErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}
