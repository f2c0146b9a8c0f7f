package errors

import (
	"fmt"
	"net/http"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Common error codes
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeDatabase     = "DATABASE_ERROR"
	ErrCodeRateLimited  = "RATE_LIMITED"

	// Domain error codes
	ErrCodeDuplicateName            = "DUPLICATE_NAME"
	ErrCodeHierarchyTooDeep         = "HIERARCHY_TOO_DEEP"
	ErrCodeCircularReference        = "CIRCULAR_REFERENCE"
	ErrCodeCannotDeleteWithChildren = "CANNOT_DELETE_WITH_CHILDREN"
	ErrCodeSystemLabelReadonly      = "SYSTEM_LABEL_READONLY"
	ErrCodeUnknownPaymentFrequency  = "UNKNOWN_PAYMENT_FREQUENCY"
	ErrCodeInvalidArgument          = "INVALID_ARGUMENT"
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Is reports whether err is an AppError carrying the given code.
func Is(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// Common error constructors

// Internal creates an internal server error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

// NotFound creates a not found error. Ownership mismatches use this too so
// that one user can never probe for the existence of another user's rows.
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message, http.StatusConflict)
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// DatabaseError creates a database error
func DatabaseError(message string, err error) *AppError {
	return Wrap(err, ErrCodeDatabase, message, http.StatusInternalServerError)
}

// RateLimited creates a rate limited error
func RateLimited(message string) *AppError {
	return New(ErrCodeRateLimited, message, http.StatusTooManyRequests)
}

// Domain error constructors

// DuplicateName reports that a name is already taken within its scope
// (per user for subscriptions, per user and parent for labels).
func DuplicateName(resource string) *AppError {
	return New(ErrCodeDuplicateName,
		fmt.Sprintf("A %s with this name already exists", resource),
		http.StatusBadRequest)
}

// HierarchyTooDeep reports that a label would land at or beyond the depth limit.
func HierarchyTooDeep(maxDepth int) *AppError {
	return New(ErrCodeHierarchyTooDeep,
		fmt.Sprintf("Label hierarchy cannot exceed %d levels", maxDepth),
		http.StatusBadRequest)
}

// CircularReference reports an attempt to make a label its own ancestor.
func CircularReference() *AppError {
	return New(ErrCodeCircularReference,
		"Circular reference detected in label hierarchy",
		http.StatusBadRequest)
}

// CannotDeleteWithChildren reports a delete attempt on a label with children.
func CannotDeleteWithChildren() *AppError {
	return New(ErrCodeCannotDeleteWithChildren,
		"Cannot delete a label that has child labels",
		http.StatusBadRequest)
}

// SystemLabelReadonly reports a mutation attempt on a system label.
func SystemLabelReadonly() *AppError {
	return New(ErrCodeSystemLabelReadonly,
		"System labels cannot be modified or deleted",
		http.StatusBadRequest)
}

// UnknownPaymentFrequency reports a frequency outside the supported set.
func UnknownPaymentFrequency(frequency string) *AppError {
	return New(ErrCodeUnknownPaymentFrequency,
		fmt.Sprintf("Unknown payment frequency: %s", frequency),
		http.StatusBadRequest)
}

// InvalidArgument reports unparseable filter or query input.
func InvalidArgument(message string) *AppError {
	return New(ErrCodeInvalidArgument, message, http.StatusBadRequest)
}
