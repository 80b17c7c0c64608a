package dto

import (
	"net/http"
	"strings"
)

// API error codes. Domain errors and order validation kinds map onto them
// by prefixing ERR_, so INVALID_EMAIL becomes ERR_INVALID_EMAIL.
const (
	ErrCodeInternal           = "ERR_INTERNAL"
	ErrCodePersistenceFailure = "ERR_PERSISTENCE_FAILURE"
	ErrCodeUnavailable        = "ERR_UNAVAILABLE"

	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"

	ErrCodeInvalidQuantity  = "ERR_INVALID_QUANTITY"
	ErrCodeMissingField     = "ERR_MISSING_FIELD"
	ErrCodeInvalidEmail     = "ERR_INVALID_EMAIL"
	ErrCodeUnavailableSize  = "ERR_UNAVAILABLE_SIZE"
	ErrCodeUnavailableColor = "ERR_UNAVAILABLE_COLOR"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"

	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeInvalidState  = "ERR_INVALID_STATE"
)

var statusByCode = map[string]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodePersistenceFailure: http.StatusInternalServerError,
	ErrCodeUnavailable:        http.StatusServiceUnavailable,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	ErrCodeInvalidQuantity:  http.StatusUnprocessableEntity,
	ErrCodeMissingField:     http.StatusUnprocessableEntity,
	ErrCodeInvalidEmail:     http.StatusUnprocessableEntity,
	ErrCodeUnavailableSize:  http.StatusUnprocessableEntity,
	ErrCodeUnavailableColor: http.StatusUnprocessableEntity,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeInvalidState:  http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the status for an API code, 500 for unknown codes.
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode turns a domain code into its API code. API codes and
// codes with no API counterpart are returned unchanged.
func NormalizeErrorCode(code string) string {
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	if _, ok := statusByCode["ERR_"+code]; ok {
		return "ERR_" + code
	}
	return code
}
