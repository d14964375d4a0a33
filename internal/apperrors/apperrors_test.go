package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataFor(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotReady, http.StatusUnprocessableEntity},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeDependency, http.StatusServiceUnavailable},
		{Code("UNKNOWN"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, MetadataFor(tt.code).HTTPStatus)
		})
	}
}

func TestWrapAndAs(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(CodeDependency, cause, "distance lookup failed")

	wrapped := fmt.Errorf("resolve: %w", err)
	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeDependency, typed.Code())
	assert.Equal(t, "distance lookup failed", typed.Message())
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, err.Error(), "refused")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeNotReady, CodeOf(New(CodeNotReady, "incomplete")))
	assert.True(t, Is(Newf(CodeValidation, "bad %d", 1), CodeValidation))
	assert.False(t, Is(nil, CodeValidation))
	assert.Nil(t, As(nil))
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "invalid").WithDetails(map[string]string{"field": "guests"})
	assert.Equal(t, map[string]string{"field": "guests"}, err.Details())

	var nilErr *Error
	assert.Nil(t, nilErr.WithDetails("x"))
	assert.Equal(t, CodeInternal, nilErr.Code())
}
