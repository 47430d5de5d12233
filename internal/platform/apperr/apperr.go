// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package apperr is the error vocabulary shared by services and handlers.

Services return an [*AppError] for anything the client should see; storage
errors are translated by dberr before they reach a service. [respond.Error]
turns an AppError into the JSON envelope and status code, and any other error
into a 500 with a generic message.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Machine-readable error codes.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeReferenced   = "REFERENCED"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is an error with a client-safe message and a status code.
//
// Cause stays on the server: it is logged, and only echoed back when
// development diagnostics are enabled.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	Details    []FieldError `json:"details,omitempty"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
}

// FieldError is one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause returns a copy of e that wraps cause.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # 4xx

// NotFound reports a missing resource: NotFound("Book") reads "Book not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

func Unauthorized(message string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, message)
}

// Conflict reports a duplicate natural key (ISBN, slug, username).
func Conflict(message string) *AppError {
	return newError(http.StatusConflict, CodeConflict, message)
}

// Referenced reports a delete refused because books still point at the row.
func Referenced(resource string) *AppError {
	message := fmt.Sprintf("Cannot delete %s: still referenced by books", strings.ToLower(resource))
	return newError(http.StatusConflict, CodeReferenced, message)
}

// ValidationError is a 400 carrying the rejected fields, if any.
func ValidationError(message string, details ...FieldError) *AppError {
	err := newError(http.StatusBadRequest, CodeValidation, message)
	err.Details = details
	return err
}

func RateLimited(retryAfterSeconds int) *AppError {
	message := fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds)
	return newError(http.StatusTooManyRequests, CodeRateLimited, message)
}

// # 5xx

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	err := newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	err.Cause = cause
	return err
}

// # Inspection

// IsAppError reports whether err's chain contains an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with code.
func HasCode(err error, code string) bool {
	appErr := As(err)
	return appErr != nil && appErr.Code == code
}
