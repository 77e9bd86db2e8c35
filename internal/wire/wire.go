// Package wire holds the JSON shapes and error codes of the HTTP contract
// shared by the API server and the remote backend.
package wire

import (
	"errors"
	"net/http"

	"github.com/Jigar634859/skyportal/internal/domain"
)

const (
	PathAdminLogin   = "/admin/login"
	PathUserLogin    = "/users/login"
	PathUserRegister = "/users/register"
	PathFlights      = "/flights"
	PathFlightSearch = "/flights/search"
	PathBookings     = "/bookings"
	PathMyBookings   = "/bookings/my-bookings"
	HeaderAuthorize  = "Authorization"
	BearerPrefix     = "Bearer "
	QueryFrom        = "from"
	QueryTo          = "to"
	QueryDate        = "date"
)

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateBookingRequest is the booking form merged with the payment
// confirmation, flattened into one JSON object.
type CreateBookingRequest struct {
	domain.BookingInput
	domain.Payment
}

type Code string

const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeForbidden          Code = "FORBIDDEN"
	CodePaymentRequired    Code = "PAYMENT_REQUIRED"
	CodeEmailInUse         Code = "EMAIL_IN_USE"
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeBackendUnavailable Code = "BACKEND_UNAVAILABLE"
	CodeInternal           Code = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// StatusFor classifies err for an HTTP response.
func StatusFor(err error) (int, Code) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, CodeInvalidCredentials
	case errors.Is(err, domain.ErrPaymentRequired):
		return http.StatusPaymentRequired, CodePaymentRequired
	case errors.Is(err, domain.ErrEmailInUse):
		return http.StatusConflict, CodeEmailInUse
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, CodeBackendUnavailable
	}
	return http.StatusInternalServerError, CodeInternal
}

// ErrorFor maps a failed response back onto the error taxonomy. The code
// wins over the status when both are present.
func ErrorFor(status int, code Code) error {
	switch code {
	case CodeNotFound:
		return domain.ErrNotFound
	case CodeInvalidCredentials, CodeForbidden:
		return domain.ErrInvalidCredentials
	case CodePaymentRequired:
		return domain.ErrPaymentRequired
	case CodeEmailInUse:
		return domain.ErrEmailInUse
	case CodeValidation:
		return domain.ErrValidation
	case CodeBackendUnavailable:
		return domain.ErrBackendUnavailable
	}
	switch status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrInvalidCredentials
	case http.StatusPaymentRequired:
		return domain.ErrPaymentRequired
	case http.StatusConflict:
		return domain.ErrEmailInUse
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrValidation
	}
	return domain.ErrBackendUnavailable
}
