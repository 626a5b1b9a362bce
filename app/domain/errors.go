package domain

import "errors"

// Account and role errors
var (
	ErrAccountExists       = errors.New("account already exists")
	ErrAccountNotFound     = errors.New("account not found")
	ErrRoleAlreadyAssigned = errors.New("role already assigned")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidAccountID    = errors.New("invalid account id")
)

// Authentication and session errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionInactive    = errors.New("session inactive")
	ErrMissingToken       = errors.New("missing session token")
)

// Service errors
var (
	ErrSeedNotConfigured = errors.New("seeding is not configured")
	ErrIdentityProvider  = errors.New("identity provider error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)
