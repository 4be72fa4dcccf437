package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Catalog and roll errors
	ErrInvalidTemplate ErrorCode = "INVALID_TEMPLATE"
	ErrNotFound        ErrorCode = "NOT_FOUND"

	// Persistence errors
	ErrStorage        ErrorCode = "STORAGE_ERROR"
	ErrMalformedState ErrorCode = "MALFORMED_STATE"

	// Wallet errors
	ErrInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	ErrAlreadyClaimed    ErrorCode = "ALREADY_CLAIMED"

	// Input errors
	ErrInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrInvalidCommand  ErrorCode = "INVALID_COMMAND"

	// System errors
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
	ErrRateLimited   ErrorCode = "RATE_LIMITED"
)

// AppError represents an error raised by the card and wallet services
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewError creates a new AppError
func NewError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in an AppError
func WrapError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode checks if any error in the chain is an AppError with a specific code
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if !As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

// As finds the first AppError in the error chain
func As(err error, target **AppError) bool {
	if err == nil || target == nil {
		return false
	}
	return errors.As(err, target)
}
