// Package errors provides the typed error taxonomy for the Investrack API.
// Service-layer failures are all *AppError values so handlers can map them to
// consistent responses without leaking internal detail to clients.
package errors

import "net/http"

// AppError is a structured application error carrying a stable error code,
// a client-safe message, the HTTP status to respond with, and an optional
// wrapped internal cause (logged, never serialized).
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal cause for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap returns a copy of sentinel carrying internal as its cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage returns a copy of sentinel with a custom client-facing message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Product catalog errors.
var (
	ErrProductNotFound = &AppError{Code: "PRODUCT_NOT_FOUND", Message: "Investment product not found", StatusCode: http.StatusNotFound}
	ErrProductInactive = &AppError{Code: "PRODUCT_INACTIVE", Message: "Investment product is not active", StatusCode: http.StatusBadRequest}
)

// Portfolio errors.
var (
	ErrHoldingNotFound        = &AppError{Code: "HOLDING_NOT_FOUND", Message: "You don't have this investment in your portfolio", StatusCode: http.StatusNotFound}
	ErrInsufficientUnits      = &AppError{Code: "INSUFFICIENT_UNITS", Message: "Not enough units to sell", StatusCode: http.StatusBadRequest}
	ErrBelowMinimumInvestment = &AppError{Code: "BELOW_MINIMUM_INVESTMENT", Message: "Investment amount is below the product minimum", StatusCode: http.StatusBadRequest}
	// ErrVersionConflict signals that a concurrent mutation won the holding's
	// optimistic version check; buy/sell retry internally and only surface it
	// after retries are exhausted.
	ErrVersionConflict = &AppError{Code: "VERSION_CONFLICT", Message: "The holding was modified concurrently, please retry", StatusCode: http.StatusConflict}
)

// Support ticket errors.
var (
	ErrTicketNotFound      = &AppError{Code: "TICKET_NOT_FOUND", Message: "Support ticket not found", StatusCode: http.StatusNotFound}
	ErrTicketClosed        = &AppError{Code: "TICKET_CLOSED", Message: "Ticket is already closed, please raise another one", StatusCode: http.StatusBadRequest}
	ErrInvalidTicketStatus = &AppError{Code: "INVALID_TICKET_STATUS", Message: "Unknown ticket status", StatusCode: http.StatusBadRequest}
)
