package dto

import (
	"net/http"
	"strings"
)

// Error codes returned in the response envelope.
// Format: ERR_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeUnavailable is used when an optional backend is switched off
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
)

// Validation error codes
const (
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeEmailNotAllowed    = "ERR_EMAIL_NOT_ALLOWED"
	ErrCodeEmailNotVerified   = "ERR_EMAIL_NOT_VERIFIED"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeEmailTaken    = "ERR_EMAIL_TAKEN"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// State error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:     http.StatusInternalServerError,
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeUnavailable: http.StatusServiceUnavailable,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeEmailNotAllowed:    http.StatusForbidden,
	ErrCodeEmailNotVerified:   http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeEmailTaken:    http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition: http.StatusUnprocessableEntity,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping maps domain error codes that do not follow the
// prefix rules in NormalizeErrorCode
var domainCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"USER_NOT_FOUND":       ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"EMAIL_TAKEN":          ErrCodeEmailTaken,
	"CONCURRENCY_CONFLICT": ErrCodeConflict,
	"IDEA_NUMBER_CONFLICT": ErrCodeConflict,
	"INVALID_STATE":        ErrCodeInvalidState,
	"ALREADY_VERIFIED":     ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"INVALID_CREDENTIALS":  ErrCodeInvalidCredentials,
	"FORBIDDEN":            ErrCodeForbidden,
	"EMAIL_NOT_ALLOWED":    ErrCodeEmailNotAllowed,
	"EMAIL_NOT_VERIFIED":   ErrCodeEmailNotVerified,
	"TOKEN_EXPIRED":        ErrCodeTokenExpired,
	"TOKEN_ERROR":          ErrCodeInternal,
	"PASSWORD_MISMATCH":    ErrCodeInvalidInput,
	"TOO_MANY_TAGS":        ErrCodeInvalidInput,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"STORAGE_DISABLED":     ErrCodeUnavailable,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the response code.
// Codes already in ERR_ form pass through unchanged.
func NormalizeErrorCode(code string) string {
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	if mapped, ok := domainCodeMapping[code]; ok {
		return mapped
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return ErrCodeInvalidInput
	case strings.HasPrefix(code, "TOKEN_"):
		return ErrCodeTokenInvalid
	case strings.HasSuffix(code, "_ERROR"):
		return ErrCodeInternal
	}
	return ErrCodeUnknown
}
