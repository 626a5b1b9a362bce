package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"portal-service/app/domain"
	"portal-service/app/port"
	"portal-service/app/utils/logger"
)

// AuthUseCase implements the token based authentication proxy in front of the identity platform
type AuthUseCase struct {
	identities  port.IdentityProvider
	roles       port.RoleRepository
	callTimeout time.Duration
	logger      *slog.Logger
}

// NewAuthUseCase creates a new AuthUseCase instance
func NewAuthUseCase(identities port.IdentityProvider, roles port.RoleRepository, callTimeout time.Duration, log *slog.Logger) *AuthUseCase {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &AuthUseCase{
		identities:  identities,
		roles:       roles,
		callTimeout: callTimeout,
		logger:      logger.WithComponent(log, "auth"),
	}
}

// Login exchanges credentials for a session token and the caller's profile
func (uc *AuthUseCase) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthSession, error) {
	callCtx, cancel := context.WithTimeout(ctx, uc.callTimeout)
	defer cancel()

	session, err := uc.identities.Login(callCtx, creds)
	if err != nil {
		return nil, err
	}

	profile, err := uc.Profile(ctx, session.Account)
	if err != nil {
		return nil, err
	}

	logger.WithAccount(uc.logger, session.Account.Email).Info("user logged in", "role", profile.Role)
	return &domain.AuthSession{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      profile,
	}, nil
}

// Signup registers a self-service account. New accounts receive the public role.
func (uc *AuthUseCase) Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthSession, error) {
	callCtx, cancel := context.WithTimeout(ctx, uc.callTimeout)
	defer cancel()

	session, err := uc.identities.Register(callCtx, req.ToNewAccount())
	if err != nil {
		return nil, err
	}

	log := logger.WithAccount(uc.logger, session.Account.Email)
	if err := uc.assignRole(ctx, session.Account.ID, domain.RolePublic); err != nil {
		log.Warn("public role not assigned at signup", "error", err)
	}

	profile, err := uc.Profile(ctx, session.Account)
	if err != nil {
		return nil, err
	}

	log.Info("user signed up", "account_id", session.Account.ID)
	return &domain.AuthSession{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      profile,
	}, nil
}

// Logout revokes the session token. Failures are logged and never returned.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionToken string) {
	ctx, cancel := context.WithTimeout(ctx, uc.callTimeout)
	defer cancel()

	if err := uc.identities.Logout(ctx, sessionToken); err != nil {
		uc.logger.Warn("logout notification failed", "error", err)
	}
}

// Authenticate resolves a bearer token into the calling session
func (uc *AuthUseCase) Authenticate(ctx context.Context, sessionToken string) (*domain.SessionContext, error) {
	if sessionToken == "" {
		return nil, domain.ErrMissingToken
	}

	ctx, cancel := context.WithTimeout(ctx, uc.callTimeout)
	defer cancel()

	session, err := uc.identities.WhoAmI(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		return nil, err
	}

	return domain.NewSessionContext(session)
}

// Profile loads the account's roles and derives its primary role
func (uc *AuthUseCase) Profile(ctx context.Context, account domain.Account) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.callTimeout)
	defer cancel()

	roles, err := uc.roles.ListRoles(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	return domain.NewProfile(account, roles), nil
}

func (uc *AuthUseCase) assignRole(ctx context.Context, accountID string, role domain.Role) error {
	assignment, err := domain.NewRoleAssignment(accountID, role)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.callTimeout)
	defer cancel()

	if err := uc.roles.InsertRole(ctx, assignment); err != nil && !errors.Is(err, domain.ErrRoleAlreadyAssigned) {
		return err
	}
	return nil
}
