package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NotFound("doctor", nil), http.StatusNotFound},
		{BadRequest("bad", nil), http.StatusBadRequest},
		{Validation(stderrors.New("name is required")), http.StatusBadRequest},
		{Unauthorized(nil), http.StatusUnauthorized},
		{Forbidden("not allowed"), http.StatusForbidden},
		{Conflict("email already registered", nil), http.StatusConflict},
		{&AppError{Code: ErrRateLimited}, http.StatusTooManyRequests},
		{Internal(stderrors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode(), tt.err.Message)
	}
}

func TestAsFindsWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("delete doctor: %w", Forbidden("not authorized to delete this doctor"))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrForbidden, appErr.Code)
	assert.True(t, HasCode(wrapped, ErrForbidden))
	assert.False(t, HasCode(wrapped, ErrNotFound))

	_, ok = As(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "doctor not found", NotFound("doctor", nil).Error())
	assert.Equal(t, "internal server error: boom", Internal(stderrors.New("boom")).Error())
}
