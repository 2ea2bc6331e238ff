package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		details    []any
		wantCode   int
		wantStatus int
		wantMsg    string
	}{
		{"default status", ErrInvalidParams, nil, ErrInvalidParams, http.StatusBadRequest, "Invalid request parameters."},
		{"explicit status", ErrUserAlreadyExists, nil, ErrUserAlreadyExists, http.StatusConflict, "Username already taken."},
		{"formatted", ErrInvalidPassword, []any{6, 50}, ErrInvalidPassword, http.StatusBadRequest, "Password must be between 6 and 50 characters."},
		{"unknown code", 4242, nil, ErrUnknown, http.StatusInternalServerError, "Something went wrong. Please try again."},
		{"unknown hides cause", ErrUnknown, []any{errors.New("db down")}, ErrUnknown, http.StatusInternalServerError, "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewError(tt.code, tt.details...)
			assert.Equal(t, tt.wantCode, e.Code)
			assert.Equal(t, tt.wantStatus, e.Status)
			assert.Equal(t, tt.wantMsg, e.Message)
		})
	}
}

func TestNewError_DoesNotMutateTemplate(t *testing.T) {
	_ = NewError(ErrInvalidPassword, 1, 2)
	assert.Equal(t, "Password must be between %d and %d characters.", errorMap[ErrInvalidPassword].Message)
}

func TestCustomError_ErrorsAs(t *testing.T) {
	var err error = NewError(ErrUnauthorized)

	var ce *CustomError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrUnauthorized, ce.Code)
}
