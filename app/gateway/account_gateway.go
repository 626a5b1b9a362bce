package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"portal-service/app/domain"
	"portal-service/app/port"
)

// AccountGateway implements port.AccountStore.
// It composes identity administration with the role table so the seeder sees one store.
type AccountGateway struct {
	identities port.IdentityProvider
	roles      port.RoleRepository
	logger     *slog.Logger
}

// NewAccountGateway creates a new AccountGateway instance
func NewAccountGateway(identities port.IdentityProvider, roles port.RoleRepository, logger *slog.Logger) *AccountGateway {
	return &AccountGateway{
		identities: identities,
		roles:      roles,
		logger:     logger.With("component", "account_gateway"),
	}
}

// CreateAccount creates an identity with a password credential
func (g *AccountGateway) CreateAccount(ctx context.Context, account domain.NewAccount) (*domain.Account, error) {
	created, err := g.identities.CreateIdentity(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", account.Email, err)
	}
	return created, nil
}

// ListAccounts returns every identity known to the platform
func (g *AccountGateway) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := g.identities.ListIdentities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// InsertRole stores one role row for the account
func (g *AccountGateway) InsertRole(ctx context.Context, accountID string, role domain.Role) error {
	assignment, err := domain.NewRoleAssignment(accountID, role)
	if err != nil {
		return err
	}

	if err := g.roles.InsertRole(ctx, assignment); err != nil {
		return fmt.Errorf("failed to assign role %s: %w", role, err)
	}
	return nil
}
