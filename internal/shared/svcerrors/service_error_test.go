package svcerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr *ServiceError
		wantOk  bool
	}{
		{
			name:    "nil input",
			err:     nil,
			wantErr: nil,
			wantOk:  false,
		},
		{
			name:    "regular error",
			err:     errors.New("x"),
			wantErr: nil,
			wantOk:  false,
		},
		{
			name:    "direct ServiceError",
			err:     NewInvalidArgumentError("BAK_1000", "invalid backup name", nil),
			wantErr: NewInvalidArgumentError("BAK_1000", "invalid backup name", nil),
			wantOk:  true,
		},
		{
			name:    "wrapped ServiceError",
			err:     fmt.Errorf("wrap: %w", NewInternalError("BAK_9000", nil)),
			wantErr: NewInternalError("BAK_9000", nil),
			wantOk:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotErr, gotOk := AsServiceError(tt.err)

			assert.Equal(t, tt.wantOk, gotOk, "AsServiceError() ok value mismatch")

			if tt.wantErr == nil {
				assert.Nil(t, gotErr)
			} else {
				require.NotNil(t, gotErr)
				assert.Equal(t, tt.wantErr.Category, gotErr.Category, "Category mismatch")
				assert.Equal(t, tt.wantErr.Code, gotErr.Code, "Code mismatch")
				assert.Equal(t, tt.wantErr.Message, gotErr.Message, "Message mismatch")
			}
		})
	}
}

func TestConstructors_CategoryAndStatus(t *testing.T) {
	tests := []struct {
		name         string
		err          *ServiceError
		wantCategory string
		wantStatus   int
	}{
		{"invalid argument", NewInvalidArgumentError("C", "m", nil), "invalid_argument", http.StatusBadRequest},
		{"unauthenticated", NewUnauthenticatedError("C", "m", nil), "unauthenticated", http.StatusUnauthorized},
		{"not found", NewNotFoundError("C", "m", nil), "not_found", http.StatusNotFound},
		{"conflict", NewResourceConflictError("C", "m", nil), "resource_conflict", http.StatusConflict},
		{"precondition", NewFailedPreconditionError("C", "m", nil), "failed_precondition", http.StatusPreconditionFailed},
		{"too large", NewPayloadTooLargeError("C", "m", nil), "payload_too_large", http.StatusRequestEntityTooLarge},
		{"exhausted", NewResourceExhaustedError("C", "m", nil), "resource_exhausted", http.StatusTooManyRequests},
		{"internal", NewInternalError("C", nil), "internal", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCategory, tt.err.Category)
			assert.Equal(t, tt.wantStatus, tt.err.HttpStatusCode)
			assert.Equal(t, tt.wantCategory == "internal", tt.err.IsInternalError())
		})
	}
}

func TestNewInternalError_HidesCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewInternalError("BAK_9000", cause)

	assert.Equal(t, "internal server error", err.Message)
	assert.Equal(t, "BAK_9000: internal server error", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestInternalErrorCodes(t *testing.T) {
	assert.Equal(t, "SYS_9000", NewInternalErrorPanic(nil).Code)
	assert.Equal(t, "SYS_9001", NewInternalErrorUndefined(nil).Code)
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewNotFoundError("BAK_1001", "backup not found", nil))

	assert.True(t, HasCode(err, "BAK_1001"))
	assert.False(t, HasCode(err, "BAK_1000"))
	assert.False(t, HasCode(errors.New("plain"), "BAK_1001"))
}
