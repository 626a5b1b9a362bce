package client

import (
	"fmt"
	"net/http"

	"portal-service/app/domain"
)

// APIError is a non-2xx answer from the portal API
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s", e.Status, e.Message)
	if e.Code != "" {
		msg += " [" + e.Code + "]"
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// Unwrap lets callers match rejected credentials with errors.Is(err, domain.ErrUnauthorized)
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusConflict:
		return domain.ErrAccountExists
	case http.StatusTooManyRequests:
		return domain.ErrRateLimitExceeded
	default:
		return nil
	}
}
