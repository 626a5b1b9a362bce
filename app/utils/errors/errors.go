package errors

import (
	"errors"
	"fmt"
	"net/http"

	"portal-service/app/domain"
)

// ErrorCode represents specific error types
type ErrorCode string

const (
	// Authentication and authorization errors
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeSessionInactive    ErrorCode = "SESSION_INACTIVE"
	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"

	// Account errors
	ErrCodeAccountExists   ErrorCode = "ACCOUNT_EXISTS"
	ErrCodeAccountNotFound ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeInvalidRole     ErrorCode = "INVALID_ROLE"

	// Validation errors
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"

	// System errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeKratosError   ErrorCode = "KRATOS_ERROR"
	ErrCodeConfigError   ErrorCode = "CONFIG_ERROR"

	// Rate limiting
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Generic errors
	ErrCodeBadRequest         ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeMethodNotAllowed   ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Details    string         `json:"details,omitempty"`
	StatusCode int            `json:"-"`
	Cause      error          `json:"-"`
	Context    map[string]any `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: getHTTPStatusCode(code),
	}
}

// Newf creates a new AppError with formatted message
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return New(code, message).WithCause(cause)
}

// AsAppError converts an error to AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// GetHTTPStatusCode gets the HTTP status code for an error
func GetHTTPStatusCode(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// getHTTPStatusCode maps error codes to HTTP status codes
func getHTTPStatusCode(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthorized, ErrCodeInvalidCredentials, ErrCodeSessionInactive, ErrCodeMissingToken:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeAccountNotFound, ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodeAccountExists, ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeValidationFailed, ErrCodeInvalidInput, ErrCodeInvalidRole, ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeServiceUnavailable, ErrCodeKratosError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromDomain translates a domain or driver error into an AppError for the HTTP layer.
// Errors that are already AppErrors pass through unchanged.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return Wrap(ErrCodeInvalidCredentials, "invalid email or password", err)
	case errors.Is(err, domain.ErrMissingToken):
		return Wrap(ErrCodeMissingToken, "session token is required", err)
	case errors.Is(err, domain.ErrSessionInactive):
		return Wrap(ErrCodeSessionInactive, "session is no longer active", err)
	case errors.Is(err, domain.ErrUnauthorized):
		return Wrap(ErrCodeUnauthorized, "authentication required", err)
	case errors.Is(err, domain.ErrAccountExists):
		return Wrap(ErrCodeAccountExists, "an account with this email already exists", err)
	case errors.Is(err, domain.ErrAccountNotFound):
		return Wrap(ErrCodeAccountNotFound, "account not found", err)
	case errors.Is(err, domain.ErrInvalidRole):
		return Wrap(ErrCodeInvalidRole, "invalid role", err)
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidAccountID):
		return Wrap(ErrCodeInvalidInput, "invalid input", err).WithDetails(err.Error())
	case errors.Is(err, domain.ErrRateLimitExceeded):
		return Wrap(ErrCodeRateLimitExceeded, "rate limit exceeded", err)
	case errors.Is(err, domain.ErrSeedNotConfigured):
		return Wrap(ErrCodeConfigError, "Server misconfigured: missing identity admin credentials", err)
	case errors.Is(err, domain.ErrIdentityProvider):
		return Wrap(ErrCodeKratosError, "identity service error", err)
	default:
		return NewInternalError(err)
	}
}

// Helper functions for creating contextual errors

// NewUnauthorized creates an unauthorized error with context
func NewUnauthorized(details string) *AppError {
	return New(ErrCodeUnauthorized, "authentication required").WithDetails(details)
}

// NewBadRequest creates a bad request error with context
func NewBadRequest(details string) *AppError {
	return New(ErrCodeBadRequest, "bad request").WithDetails(details)
}

// NewMethodNotAllowed reports a method the endpoint does not accept
func NewMethodNotAllowed(method string) *AppError {
	return Newf(ErrCodeMethodNotAllowed, "method %s not allowed", method)
}

// NewValidationError creates a validation error with details
func NewValidationError(details string) *AppError {
	return New(ErrCodeValidationFailed, "validation failed").WithDetails(details)
}

// NewRateLimitExceeded reports a throttled caller
func NewRateLimitExceeded() *AppError {
	return New(ErrCodeRateLimitExceeded, "rate limit exceeded")
}

// NewInternalError creates an internal error with cause
func NewInternalError(cause error) *AppError {
	return Wrap(ErrCodeInternalError, "internal server error", cause)
}

// NewDatabaseError creates a database error with cause
func NewDatabaseError(cause error) *AppError {
	return Wrap(ErrCodeDatabaseError, "database operation failed", cause)
}

// NewKratosError creates a Kratos service error with cause
func NewKratosError(cause error) *AppError {
	return Wrap(ErrCodeKratosError, "kratos service error", cause)
}

// Response is the JSON body written for a failed request
type Response struct {
	Error   string    `json:"error"`
	Code    ErrorCode `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Response renders the client-facing part of the error
func (e *AppError) Response() Response {
	return Response{
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}
