package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		redirect string
	}{
		{name: "user not found", err: ErrUserNotFound, status: http.StatusNotFound, code: "USER_NOT_FOUND"},
		{name: "wrapped project not found", err: fmt.Errorf("update: %w", ErrProjectNotFound), status: http.StatusNotFound, code: "PROJECT_NOT_FOUND"},
		{name: "invalid credentials", err: ErrInvalidCredentials, status: http.StatusUnauthorized, code: "INVALID_CREDENTIALS"},
		{name: "redirect keeps location", err: NewRedirectError("/login", ErrNotAuthenticated), status: http.StatusUnauthorized, code: "NOT_AUTHENTICATED", redirect: "/login"},
		{name: "forbidden redirect", err: NewRedirectError("/volunteer", ErrForbidden), status: http.StatusForbidden, code: "FORBIDDEN", redirect: "/volunteer"},
		{name: "refresh token", err: ErrInvalidRefreshToken, status: http.StatusUnauthorized, code: "INVALID_REFRESH_TOKEN"},
		{name: "rate limited", err: ErrTooManyAttempts, status: http.StatusTooManyRequests, code: "TOO_MANY_ATTEMPTS"},
		{name: "unknown", err: fmt.Errorf("boom"), status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.redirect, got.Redirect)

			resp := got.ToErrorResponse()
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestMapErrorToHTTP_ValidationFields(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"email": "Invalid email"}}

	got := MapErrorToHTTP(fmt.Errorf("register: %w", err))

	assert.Equal(t, http.StatusUnprocessableEntity, got.StatusCode)
	assert.Equal(t, "Invalid email", got.Fields["email"])
}
