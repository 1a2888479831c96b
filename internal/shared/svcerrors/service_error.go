package svcerrors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	categoryInvalidArgument    = "invalid_argument"
	categoryUnauthenticated    = "unauthenticated"
	categoryNotFound           = "not_found"
	categoryResourceConflict   = "resource_conflict"
	categoryFailedPrecondition = "failed_precondition"
	categoryPayloadTooLarge    = "payload_too_large"
	categoryResourceExhausted  = "resource_exhausted"
	categoryInternal           = "internal"
)

const (
	errorCodeInternalPanic     = "SYS_9000"
	errorCodeInternalUndefined = "SYS_9001"
)

func newServiceError(category, code, message string, cause error, status int) *ServiceError {
	return &ServiceError{
		Category:       category,
		Code:           code,
		Message:        message,
		Cause:          cause,
		HttpStatusCode: status,
	}
}

// NewInvalidArgumentError creates a new ServiceError with category invalid_argument.
func NewInvalidArgumentError(code, message string, cause error) *ServiceError {
	return newServiceError(categoryInvalidArgument, code, message, cause, http.StatusBadRequest)
}

// NewUnauthenticatedError creates a new ServiceError with category unauthenticated.
func NewUnauthenticatedError(code, message string, cause error) *ServiceError {
	return newServiceError(categoryUnauthenticated, code, message, cause, http.StatusUnauthorized)
}

// NewNotFoundError creates a new ServiceError with category not_found.
func NewNotFoundError(code, message string, cause error) *ServiceError {
	return newServiceError(categoryNotFound, code, message, cause, http.StatusNotFound)
}

// NewResourceConflictError creates a new ServiceError with category resource_conflict.
func NewResourceConflictError(code, message string, cause error) *ServiceError {
	return newServiceError(categoryResourceConflict, code, message, cause, http.StatusConflict)
}

// NewFailedPreconditionError is used when the system is not in a state that allows the operation.
func NewFailedPreconditionError(code, message string, cause error) *ServiceError {
	return newServiceError(categoryFailedPrecondition, code, message, cause, http.StatusPreconditionFailed)
}

func NewPayloadTooLargeError(code, message string, cause error) *ServiceError {
	return newServiceError(categoryPayloadTooLarge, code, message, cause, http.StatusRequestEntityTooLarge)
}

func NewResourceExhaustedError(code, message string, cause error) *ServiceError {
	return newServiceError(categoryResourceExhausted, code, message, cause, http.StatusTooManyRequests)
}

// NewInternalError creates a new ServiceError with category internal.
// The message is fixed so causes never leak to clients.
func NewInternalError(code string, cause error) *ServiceError {
	return newServiceError(categoryInternal, code, "internal server error", cause, http.StatusInternalServerError)
}

// NewInternalErrorUndefined creates a new ServiceError with category internal and code SYS_9001.
func NewInternalErrorUndefined(cause error) *ServiceError {
	return NewInternalError(errorCodeInternalUndefined, cause)
}

func NewInternalErrorPanic(cause error) *ServiceError {
	return NewInternalError(errorCodeInternalPanic, cause)
}

// AsServiceError extracts a ServiceError from the error chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// ServiceError represents a service-level error with category, code, message, and cause.
// It implements the error interface and supports error wrapping.
type ServiceError struct {
	Category       string // one of the category* constants
	Code           string // service-owned stable code (e.g. BAK_1000)
	Message        string // client-safe, human-readable
	Cause          error  // wrapped underlying error
	HttpStatusCode int    // HTTP status code
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error to support errors.Is and errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

func (e *ServiceError) IsInternalError() bool {
	return e.Category == categoryInternal
}

// HasCode reports whether err carries a ServiceError with the given code.
func HasCode(err error, code string) bool {
	svcErr, ok := AsServiceError(err)
	return ok && svcErr.Code == code
}
