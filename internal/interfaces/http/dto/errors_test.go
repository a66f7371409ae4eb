package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"mapped not found", "NOT_FOUND", ErrCodeNotFound},
		{"mapped already exists", "ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"mapped concurrency conflict", "CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"mapped insufficient stock", "INSUFFICIENT_STOCK", ErrCodeInsufficientStock},
		{"mapped quality hold", "QUALITY_HOLD", ErrCodeQualityHold},
		{"mapped asset unavailable", "ASSET_UNAVAILABLE", ErrCodeAssetUnavailable},
		{"mapped invalid credentials", "INVALID_CREDENTIALS", ErrCodeInvalidCredentials},
		{"mapped account locked", "ACCOUNT_LOCKED", ErrCodeAccountLocked},
		{"mapped invalid status", "INVALID_STATUS", ErrCodeInvalidState},
		{"mapped token revoked", "TOKEN_REVOKED", ErrCodeTokenRevoked},
		{"entity not found suffix", "ITEM_NOT_FOUND", ErrCodeNotFound},
		{"warehouse not found suffix", "WAREHOUSE_NOT_FOUND", ErrCodeNotFound},
		{"invalid prefix", "INVALID_QUANTITY", ErrCodeInvalidInput},
		{"account prefix", "ACCOUNT_DEACTIVATED", ErrCodeAccountInactive},
		{"already prefix", "ALREADY_POSTED", ErrCodeInvalidState},
		{"err format passthrough", "ERR_NOT_FOUND", ErrCodeNotFound},
		{"custom err format passthrough", "ERR_SOMETHING_CUSTOM", "ERR_SOMETHING_CUSTOM"},
		{"business rule fallback", "BOM_HAS_NO_LINES", ErrCodeBusinessRule},
		{"asset busy fallback", "ASSET_HAS_OPEN_CONTRACT", ErrCodeBusinessRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeAccountLocked, http.StatusForbidden},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeQualityHold, http.StatusUnprocessableEntity},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"ERR_NOBODY_KNOWS_THIS", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}
