package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccountMetadata is the descriptive information attached to an identity
type AccountMetadata struct {
	Name        string `json:"name" yaml:"name"`
	Designation string `json:"designation,omitempty" yaml:"designation"`
	Department  string `json:"department,omitempty" yaml:"department"`
}

// Account is an identity record held by the external identity platform
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	AccountMetadata
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// NewAccount carries everything needed to create an account
type NewAccount struct {
	Email     string
	Password  string
	Confirmed bool
	Metadata  AccountMetadata
}

// NewAccountFromSpec builds a pre-confirmed account request for a roster entry
func NewAccountFromSpec(spec DemoAccountSpec, password string) NewAccount {
	return NewAccount{
		Email:     spec.Email,
		Password:  password,
		Confirmed: true,
		Metadata: AccountMetadata{
			Name:        spec.Name,
			Designation: spec.Designation,
			Department:  spec.Department,
		},
	}
}

// Validate checks the request before it reaches the identity platform
func (n NewAccount) Validate() error {
	if _, err := mail.ParseAddress(n.Email); err != nil {
		return fmt.Errorf("%w: invalid email format: %v", ErrInvalidInput, err)
	}
	if n.Password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	return nil
}

// MatchesEmail compares emails case-insensitively
func (a Account) MatchesEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(a.Email), strings.TrimSpace(email))
}

// FindAccountByEmail returns the first account whose email matches, ignoring case
func FindAccountByEmail(accounts []Account, email string) (Account, bool) {
	for _, a := range accounts {
		if a.MatchesEmail(email) {
			return a, true
		}
	}
	return Account{}, false
}

// RoleAssignment links an account to one role
type RoleAssignment struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRoleAssignment validates inputs and builds a role row ready for insertion
func NewRoleAssignment(accountID string, role Role) (*RoleAssignment, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAccountID, accountID, err)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	return &RoleAssignment{
		ID:        uuid.New(),
		AccountID: id,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Profile is what the dashboard shows for the signed-in user
type Profile struct {
	Account
	Roles       []Role       `json:"roles"`
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions"`
}

// NewProfile derives the primary role badge from the assigned roles
func NewProfile(account Account, roles []Role) *Profile {
	if roles == nil {
		roles = []Role{}
	}
	return &Profile{
		Account:     account,
		Roles:       roles,
		Role:        PrimaryRole(roles),
		Permissions: PermissionsFor(roles),
	}
}
