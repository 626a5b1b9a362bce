package port

//go:generate mockgen -source=auth_port.go -destination=../mocks/mock_auth_port.go -package=mock_port

import (
	"context"

	"portal-service/app/domain"
)

// AuthUsecase defines the token based authentication proxy
type AuthUsecase interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthSession, error)
	Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthSession, error)
	Logout(ctx context.Context, sessionToken string)

	// Authenticate resolves a bearer token into the calling session
	Authenticate(ctx context.Context, sessionToken string) (*domain.SessionContext, error)
	Profile(ctx context.Context, account domain.Account) (*domain.Profile, error)
}
