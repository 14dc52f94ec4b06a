package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeEmailNotVerified, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeEmailTaken, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeInvalidTransition, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"USER_NOT_FOUND", ErrCodeNotFound},
		{"EMAIL_TAKEN", ErrCodeEmailTaken},
		{"IDEA_NUMBER_CONFLICT", ErrCodeConflict},
		{"ALREADY_VERIFIED", ErrCodeInvalidState},
		{"EMAIL_NOT_ALLOWED", ErrCodeEmailNotAllowed},
		{"INVALID_CREDENTIALS", ErrCodeInvalidCredentials},
		{"PASSWORD_MISMATCH", ErrCodeInvalidInput},
		{"STORAGE_DISABLED", ErrCodeUnavailable},
		// prefix rules
		{"INVALID_TITLE", ErrCodeInvalidInput},
		{"INVALID_COST_ESTIMATE", ErrCodeInvalidInput},
		{"TOKEN_USED", ErrCodeTokenInvalid},
		{"TOKEN_EXPIRED", ErrCodeTokenExpired},
		{"MAIL_ERROR", ErrCodeInternal},
		{"PASSWORD_HASH_ERROR", ErrCodeInternal},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"SOMETHING_ELSE", ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestErrorCodesHaveStatus(t *testing.T) {
	for code, status := range ErrorCodeHTTPStatus {
		assert.True(t, strings.HasPrefix(code, "ERR_"), code)
		assert.GreaterOrEqual(t, status, 400, code)
	}
	for domain, code := range domainCodeMapping {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "%s maps to %s which has no status", domain, code)
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("NOT_FOUND", "Resource not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Resource not found", resp.Error.Message)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "title", Message: "This field is required"},
		{Field: "cost_estimate", Message: "Must be one of: low medium high"},
	}

	resp := NewValidationErrorResponse("Validation failed", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "title", resp.Error.Details[0].Field)
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Idea not found", "req-test-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"data"`)
	assert.NotContains(t, string(data), `"details"`)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.Success)
	assert.Equal(t, ErrCodeNotFound, decoded.Error.Code)
	assert.Equal(t, "req-test-123", decoded.Error.RequestID)
}

func TestNewSuccessResponseWithMetaPagination(t *testing.T) {
	tests := []struct {
		total         int64
		pageSize      int
		expectedPages int
		expectedSize  int
	}{
		{100, 10, 10, 10},
		{101, 10, 11, 10},
		{0, 10, 0, 10},
		{9, 10, 1, 10},
		{100, 0, 5, 20},
		{100, -1, 5, 20},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta(nil, tt.total, 1, tt.pageSize)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages)
		assert.Equal(t, tt.expectedSize, resp.Meta.PageSize)
	}
}

func TestListRequestFilter(t *testing.T) {
	f := ListRequest{}.Filter()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.PageSize)
	assert.Equal(t, "created_at", f.OrderBy)

	f = ListRequest{Page: 3, PageSize: 5, OrderBy: "number", OrderDir: "asc", Search: "solar"}.Filter()
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 5, f.PageSize)
	assert.Equal(t, "number", f.OrderBy)
	assert.Equal(t, "asc", f.OrderDir)
	assert.Equal(t, "solar", f.Search)
}
