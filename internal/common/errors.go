package common

import (
	"errors"
	"fmt"
)

// Error kinds returned by the booking core. Callers match them with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrConflict         = errors.New("conflict")
	ErrRetryable        = errors.New("temporarily unavailable, retry")
)

// AppError carries a kind, a message safe to show to clients and an optional cause.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Is(target error) bool {
	return e.Kind == target
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string) error {
	return &AppError{Kind: ErrNotFound, Message: resource + " not found"}
}

func InvalidInput(format string, args ...any) error {
	return &AppError{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func CapacityExceeded(remaining, requested int) error {
	return &AppError{
		Kind:    ErrCapacityExceeded,
		Message: fmt.Sprintf("not enough spots remaining on this tee time: %d left, %d requested", remaining, requested),
	}
}

func Conflict(message string) error {
	return &AppError{Kind: ErrConflict, Message: message}
}

func Retryable(err error) error {
	return &AppError{Kind: ErrRetryable, Message: "the booking could not be completed right now, please retry", Err: err}
}

// PublicMessage returns the client-facing message of an AppError, or fallback.
func PublicMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}
