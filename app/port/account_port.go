package port

//go:generate mockgen -source=account_port.go -destination=../mocks/mock_account_port.go -package=mock_port

import (
	"context"

	"portal-service/app/domain"
)

// AccountStore is the narrow view of the identity platform the seeder depends on
type AccountStore interface {
	CreateAccount(ctx context.Context, account domain.NewAccount) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	InsertRole(ctx context.Context, accountID string, role domain.Role) error
}

// IdentityProvider defines the identity platform operations
type IdentityProvider interface {
	// Administrative identity management
	CreateIdentity(ctx context.Context, account domain.NewAccount) (*domain.Account, error)
	ListIdentities(ctx context.Context) ([]domain.Account, error)

	// Native (token based) flows
	Login(ctx context.Context, creds domain.Credentials) (*domain.IdentitySession, error)
	Register(ctx context.Context, account domain.NewAccount) (*domain.IdentitySession, error)
	Logout(ctx context.Context, sessionToken string) error
	WhoAmI(ctx context.Context, sessionToken string) (*domain.IdentitySession, error)
}

// RoleRepository defines role assignment data access
type RoleRepository interface {
	InsertRole(ctx context.Context, assignment *domain.RoleAssignment) error
	ListRoles(ctx context.Context, accountID string) ([]domain.Role, error)
}
