package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user id is absent from the users collection.
	ErrUserNotFound = errors.New("user not found")
	// ErrProjectNotFound is returned when a project id is absent from the projects collection.
	ErrProjectNotFound = errors.New("project not found")
	// ErrEmailAlreadyRegistered is returned when a sign-up reuses an existing email.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials is returned for every failed login, whichever field was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotAuthenticated is returned when a guarded operation runs without a session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrForbidden is returned when the session role does not match the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation is returned when a submitted form fails its rule set.
	ErrValidation = errors.New("validation failed")
	// ErrCorruptCollection is returned when a persisted collection cannot be decoded.
	ErrCorruptCollection = errors.New("corrupt collection")
	// ErrTooManyAttempts is returned when the login rate limit is exceeded.
	ErrTooManyAttempts = errors.New("too many attempts")
	// ErrInvalidRefreshToken is returned for unknown, expired or revoked refresh tokens.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// RedirectError reports a failed access check together with the page the
// caller should send the visitor to.
type RedirectError struct {
	Location string
	Err      error
}

func (e *RedirectError) Error() string {
	return e.Err.Error() + ": redirect to " + e.Location
}

func (e *RedirectError) Unwrap() error {
	return e.Err
}

// NewRedirectError creates a RedirectError.
func NewRedirectError(location string, err error) *RedirectError {
	return &RedirectError{Location: location, Err: err}
}

// ValidationError carries the per-field messages of a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Code     string            `json:"code"`
	Redirect string            `json:"redirect,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Redirect   string
	Fields     map[string]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success:  false,
		Message:  e.Message,
		Code:     e.Code,
		Redirect: e.Redirect,
		Fields:   e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var redirect *RedirectError
	if errors.As(err, &redirect) {
		mapped := MapErrorToHTTP(redirect.Err)
		mapped.Redirect = redirect.Location
		return mapped
	}
	var invalid *ValidationError
	if errors.As(err, &invalid) {
		mapped := NewHTTPError(http.StatusUnprocessableEntity, invalid.Error(), "VALIDATION_FAILED")
		mapped.Fields = invalid.Fields
		return mapped
	}

	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrProjectNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROJECT_NOT_FOUND")
	case errors.Is(err, ErrEmailAlreadyRegistered):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_ALREADY_REGISTERED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrNotAuthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "NOT_AUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "VALIDATION_FAILED")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrTooManyAttempts):
		return NewHTTPError(http.StatusTooManyRequests, err.Error(), "TOO_MANY_ATTEMPTS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
