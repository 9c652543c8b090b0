// Package apperr holds the error kinds shared by stores, services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrBadRequest        = errors.New("bad request")
	ErrUpstream          = errors.New("upstream failure")
	ErrStorage           = errors.New("storage failure")

	ErrUnauthorized      = errors.New("unauthorized")
	ErrMissingIdentifier = fmt.Errorf("%w: missing user identifier", ErrUnauthorized)
	ErrUnknownUser       = fmt.Errorf("%w: user not found", ErrUnauthorized)
	ErrInvalidToken      = fmt.Errorf("%w: invalid token", ErrUnauthorized)
)

// Error pairs a kind with the message shown to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an error of the given kind carrying a user-facing message.
func New(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Storage wraps a driver error so it classifies as ErrStorage.
func Storage(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// Status maps an error to the HTTP status written at the request boundary.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCredential), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text for the response body. Errors created with New keep
// their message; unauthorized kinds get the fixed wording clients match on;
// anything else falls back to the supplied text so driver details stay server side.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	switch {
	case errors.Is(err, ErrMissingIdentifier):
		return "Unauthorized: Missing user identifier"
	case errors.Is(err, ErrUnknownUser):
		return "Unauthorized: User not found"
	case errors.Is(err, ErrInvalidToken):
		return "Unauthorized: Invalid or expired token"
	case errors.Is(err, ErrNotFound):
		return "User not found"
	}
	return fallback
}
