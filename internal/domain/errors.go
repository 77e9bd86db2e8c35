package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPaymentRequired    = errors.New("payment required")
	ErrEmailInUse         = errors.New("email already in use")
	ErrValidation         = errors.New("validation error")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Invalid returns an ErrValidation carrying a formatted reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func FlightNotFound(id int64) error {
	return fmt.Errorf("flight %d: %w", id, ErrNotFound)
}

func BookingNotFound(id int64) error {
	return fmt.Errorf("booking %d: %w", id, ErrNotFound)
}

// Unavailable classifies err as a backend failure, keeping its message.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrBackendUnavailable, err)
}
