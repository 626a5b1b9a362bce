package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Credentials are the email/password pair submitted at login
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest carries a self-service registration
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,password"`
	Name        string `json:"name" validate:"required,max=120"`
	Designation string `json:"designation,omitempty" validate:"max=120"`
	Department  string `json:"department,omitempty" validate:"max=120"`
}

// ToNewAccount converts a signup into an identity creation request
func (s SignupRequest) ToNewAccount() NewAccount {
	return NewAccount{
		Email:    strings.TrimSpace(s.Email),
		Password: s.Password,
		Metadata: AccountMetadata{
			Name:        s.Name,
			Designation: s.Designation,
			Department:  s.Department,
		},
	}
}

// IdentitySession is a session issued by the identity platform
type IdentitySession struct {
	ID        string
	Token     string
	Active    bool
	ExpiresAt time.Time
	Account   Account
}

// AuthSession is returned to clients after login or signup
type AuthSession struct {
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	User      *Profile  `json:"user"`
}

// SessionContext is the authenticated caller attached to a request
type SessionContext struct {
	SessionID string
	Token     string
	Account   Account
	ExpiresAt time.Time
}

// NewSessionContext validates an identity session for use in a request
func NewSessionContext(s *IdentitySession) (*SessionContext, error) {
	if s == nil {
		return nil, ErrUnauthorized
	}
	if !s.Active {
		return nil, ErrSessionInactive
	}
	if !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt) {
		return nil, fmt.Errorf("%w: expired at %s", ErrSessionInactive, s.ExpiresAt.Format(time.RFC3339))
	}
	if _, err := mail.ParseAddress(s.Account.Email); err != nil {
		return nil, fmt.Errorf("%w: session identity has no valid email", ErrUnauthorized)
	}

	return &SessionContext{
		SessionID: s.ID,
		Token:     s.Token,
		Account:   s.Account,
		ExpiresAt: s.ExpiresAt,
	}, nil
}
