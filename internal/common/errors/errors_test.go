// internal/common/errors/errors_test.go
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"validation is terminal", NewValidationError("qty must be >= 1"), "VALIDATION_FAILED", 0},
		{"insert retries", NewDatabaseInsertFailedError(stderrors.New("conn reset")), "BACKEND_UNAVAILABLE", 3},
		{"tenancy maps to forbidden", NewTenancyViolationError("FR-2", "FR-1"), "FORBIDDEN", 0},
		{"delivery retries", NewReceiptDeliveryFailedError("email", stderrors.New("throttled")), "RECEIPT_DELIVERY_FAILED", 3},
		{"unmapped falls back to code", &StandardError{Code: "SOMETHING_ELSE"}, "SOMETHING_ELSE", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestRetryableFlagOverridesRetryCount(t *testing.T) {
	err := NewAuthProviderError("create user", stderrors.New("409"), false)
	assert.Equal(t, 0, ConvertToBPMNError(err).Retries)
}

func TestAsStandardError_Wrapped(t *testing.T) {
	inner := NewBillNotFoundError("b-1")
	wrapped := fmt.Errorf("format receipt: %w", inner)

	got, ok := AsStandardError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrCodeBillNotFound, got.Code)
	assert.True(t, HasCode(wrapped, ErrCodeBillNotFound))
	assert.False(t, HasCode(stderrors.New("plain"), ErrCodeBillNotFound))
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := context.DeadlineExceeded
	err := NewQueryExecutionFailedError("list_bills", cause)
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
}

func TestInvalidCredentialsIsGeneric(t *testing.T) {
	err := NewInvalidCredentialsError()
	assert.Equal(t, "invalid credentials", err.Message)
	assert.Empty(t, err.Details)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "AUTHENTICATION", GetErrorCategory(ErrCodeInvalidCredentials))
	assert.Equal(t, "AUTHENTICATION", GetErrorCategory(ErrCodeTenancyViolation))
	assert.Equal(t, "NOT_FOUND", GetErrorCategory(ErrCodeFranchiseIDNotFound))
	assert.Equal(t, "BACKEND", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "DEVICE", GetErrorCategory(ErrCodeReceiptDeliveryFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, Normalize(stderrors.New("x")).Code)
	assert.Equal(t, ErrCodeForbidden, Normalize(NewForbiddenError("store")).Code)
}
