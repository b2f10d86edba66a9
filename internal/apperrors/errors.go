// Package apperrors defines the error codes the API returns and their HTTP
// status mapping.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidDates      = "INVALID_DATES"
	CodeNotFound          = "NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeNotAvailable      = "NOT_AVAILABLE"
	CodeAlreadyReviewed   = "ALREADY_REVIEWED"
	CodeRateLimited       = "RATE_LIMITED"
	CodeDBError           = "DB_ERROR"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

func InvalidDates(message string) *AppError {
	return New(CodeInvalidDates, message, http.StatusBadRequest)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func Unauthenticated(message string) *AppError {
	return New(CodeUnauthenticated, message, http.StatusUnauthorized)
}

func InvalidTransition(message string) *AppError {
	return New(CodeInvalidTransition, message, http.StatusConflict)
}

func NotAvailable() *AppError {
	return New(CodeNotAvailable, "Vehicle not available for requested dates", http.StatusConflict)
}

func AlreadyReviewed() *AppError {
	return New(CodeAlreadyReviewed, "Booking already reviewed", http.StatusConflict)
}

func RateLimited() *AppError {
	return New(CodeRateLimited, "Too many requests", http.StatusTooManyRequests)
}

// DB wraps an unexpected storage failure. The cause's text becomes the
// message.
func DB(err error) *AppError {
	return &AppError{
		Code:       CodeDBError,
		Message:    err.Error(),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// Internal wraps a non-storage server failure with a fixed message. It is
// reported as DB_ERROR.
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeDBError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// As extracts an AppError from err's chain. Errors that are not AppErrors
// become DB_ERROR.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return DB(err)
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
