package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantType   ErrorType
		wantStatus int
	}{
		{"validation", NewValidationError("bad input"), ErrorTypeValidation, http.StatusBadRequest},
		{"missing field", NewMissingFieldError("email"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("User"), ErrorTypeNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("Mindmap ID already exists"), ErrorTypeConflict, http.StatusConflict},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
		{"database", NewDatabaseError("PutItem", errors.New("throttled")), ErrorTypeDatabase, http.StatusInternalServerError},
		{"upstream", NewUpstreamError("openai", errors.New("timeout")), ErrorTypeUpstream, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestMissingFieldError_NamesField(t *testing.T) {
	err := NewMissingFieldError("user_email")
	assert.Contains(t, err.Message, "user_email")
}

func TestTypePredicates(t *testing.T) {
	notFound := NewNotFoundError("Node")
	wrapped := fmt.Errorf("loading node: %w", notFound)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.True(t, IsAppError(wrapped))

	assert.False(t, IsNotFound(errors.New("plain")))
	assert.Nil(t, GetAppError(errors.New("plain")))
}

func TestWrap(t *testing.T) {
	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("preserves app error type", func(t *testing.T) {
		err := Wrap(NewConflictError("duplicate"), "creating mindmap")
		require.True(t, IsConflict(err))
		assert.Contains(t, err.Error(), "creating mindmap")
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		err := Wrap(errors.New("io failure"), "reading body")
		appErr := GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, ErrorTypeInternal, appErr.Type)
		assert.EqualError(t, appErr.Unwrap(), "io failure")
	})
}

func TestUpstreamError_CarriesCause(t *testing.T) {
	cause := errors.New("response was not valid JSON")
	err := NewUpstreamError("openai", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "openai")
	assert.Contains(t, err.Error(), "not valid JSON")
}
