package dto

import (
	"net/http"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Error codes surfaced by the API layer itself
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// statusByCode maps domain error codes to HTTP status codes
var statusByCode = map[string]int{
	shared.CodeValidation:             http.StatusBadRequest,
	shared.CodeUnknownLineItem:        http.StatusBadRequest,
	shared.CodeInvalidState:           http.StatusUnprocessableEntity,
	shared.CodeOverReceipt:            http.StatusUnprocessableEntity,
	shared.CodeForbidden:              http.StatusForbidden,
	shared.CodeUnauthorized:           http.StatusUnauthorized,
	shared.CodeNotFound:               http.StatusNotFound,
	shared.CodeAlreadyExists:          http.StatusConflict,
	shared.CodeConcurrencyConflict:    http.StatusConflict,
	shared.CodeInsufficientStock:      http.StatusUnprocessableEntity,
	shared.CodePersistenceUnavailable: http.StatusServiceUnavailable,
	ErrCodeBadRequest:                 http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status for an error code,
// defaulting to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsRetryable reports whether a client may retry after seeing this code
func IsRetryable(code string) bool {
	return code == shared.CodeConcurrencyConflict || code == shared.CodePersistenceUnavailable
}
