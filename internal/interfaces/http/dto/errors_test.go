package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainCodes(t *testing.T) {
	tests := []struct {
		domain string
		api    string
		status int
	}{
		{"NOT_FOUND", ErrCodeNotFound, http.StatusNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists, http.StatusConflict},
		{"INVALID_INPUT", ErrCodeInvalidInput, http.StatusBadRequest},
		{"INVALID_STATE", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"UNAUTHORIZED", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"PERSISTENCE_FAILURE", ErrCodePersistenceFailure, http.StatusInternalServerError},
		{"INVALID_QUANTITY", ErrCodeInvalidQuantity, http.StatusUnprocessableEntity},
		{"MISSING_FIELD", ErrCodeMissingField, http.StatusUnprocessableEntity},
		{"INVALID_EMAIL", ErrCodeInvalidEmail, http.StatusUnprocessableEntity},
		{"UNAVAILABLE_SIZE", ErrCodeUnavailableSize, http.StatusUnprocessableEntity},
		{"UNAVAILABLE_COLOR", ErrCodeUnavailableColor, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeRequestTooLarge, ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeUnavailable, ErrCodeUnavailable, http.StatusServiceUnavailable},
		{"CUSTOM_ERROR", "CUSTOM_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			api := NormalizeErrorCode(tt.domain)
			assert.Equal(t, tt.api, api)
			assert.Equal(t, tt.status, GetHTTPStatus(api))
		})
	}
}

func TestEveryCodeIsPrefixed(t *testing.T) {
	for code := range statusByCode {
		assert.True(t, strings.HasPrefix(code, "ERR_"), code)
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponseWithRequestID("NOT_FOUND", "Article not found", "req-1")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Article not found", resp.Error.Message)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.False(t, resp.Error.Timestamp.Before(before))
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "name", Message: "is required"},
		{Field: "price", Message: "must be positive"},
	}

	resp := NewValidationErrorResponse("Validation failed", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "name", resp.Error.Details[0].Field)
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID("UNAVAILABLE_SIZE", "Size XL is not available.", "req-test-123")
	resp.Error.Details = []ValidationDetail{{Field: "size", Kind: "UNAVAILABLE_SIZE", Message: "Size XL is not available."}}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.Success)
	assert.Equal(t, ErrCodeUnavailableSize, decoded.Error.Code)
	assert.Equal(t, "req-test-123", decoded.Error.RequestID)
	assert.Equal(t, "UNAVAILABLE_SIZE", decoded.Error.Details[0].Kind)
}

func TestNewSuccessResponseWithMetaPagination(t *testing.T) {
	tests := []struct {
		total         int64
		page          int
		pageSize      int
		expectedPages int
		expectedSize  int
		hasMore       bool
	}{
		{100, 1, 10, 10, 10, true},
		{101, 11, 10, 11, 10, false},
		{0, 1, 9, 0, 9, false},
		{9, 1, 9, 1, 9, false},
		{10, 1, 9, 2, 9, true},
		{10, 5, 9, 2, 9, false},
		{100, 1, 0, 5, 20, true},
		{100, 1, -1, 5, 20, true},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta(nil, tt.total, tt.page, tt.pageSize)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages)
		assert.Equal(t, tt.expectedSize, resp.Meta.PageSize)
		assert.Equal(t, tt.hasMore, resp.Meta.HasMore)
	}
}
