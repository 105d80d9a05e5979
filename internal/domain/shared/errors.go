package shared

import "fmt"

// Error codes used across the domain. The receiving-specific codes carry
// enough structure for the API layer to tell retryable failures
// (concurrency conflict, persistence unavailable) from terminal ones.
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeInvalidState           = "INVALID_STATE"
	CodeForbidden              = "FORBIDDEN"
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeUnknownLineItem        = "UNKNOWN_LINE_ITEM"
	CodeOverReceipt            = "OVER_RECEIPT"
	CodeConcurrencyConflict    = "CONCURRENCY_CONFLICT"
	CodePersistenceUnavailable = "PERSISTENCE_UNAVAILABLE"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeUnauthorized           = "UNAUTHORIZED"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Retryable reports whether the caller may retry the operation after
// reloading state. Only stale-version conflicts and store/ledger
// unavailability qualify; everything else is a terminal rejection.
func (e *DomainError) Retryable() bool {
	return e.Code == CodeConcurrencyConflict || e.Code == CodePersistenceUnavailable
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...any) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists          = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrConcurrencyConflict    = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrForbidden              = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrUnauthorized           = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrInvalidState           = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInsufficientStock      = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrPersistenceUnavailable = NewDomainError(CodePersistenceUnavailable, "Persistence layer is unavailable")
)
