package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_HTTPStatus(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{ErrInvalidParams, http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrEmailDuplicate, http.StatusConflict},
		{ErrInternal, http.StatusInternalServerError},
		{New(12, "奇怪的错误码"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.HTTPStatus(), tc.err.Error())
	}
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	custom := ErrEmailDuplicate.WithMessage("邮箱 a@b.com 已被注册")

	assert.True(t, errors.Is(custom, ErrEmailDuplicate))
	assert.False(t, errors.Is(custom, ErrUsernameDuplicate))

	wrapped := fmt.Errorf("signup: %w", custom)
	assert.True(t, errors.Is(wrapped, ErrEmailDuplicate))
}

func TestGetAppError(t *testing.T) {
	plain := errors.New("connection refused")

	appErr := GetAppError(plain)
	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.ErrorIs(t, appErr, plain)

	assert.Same(t, ErrForbidden, GetAppError(ErrForbidden))
	assert.Equal(t, ErrCodeForbidden, CodeOf(fmt.Errorf("wrap: %w", ErrForbidden)))
}
