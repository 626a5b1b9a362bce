package port

//go:generate mockgen -source=seed_port.go -destination=../mocks/mock_seed_port.go -package=mock_port

import (
	"context"

	"portal-service/app/domain"
)

// SeedUsecase provisions the demo roster
type SeedUsecase interface {
	SeedDemoAccounts(ctx context.Context) []domain.SeedResult
	Ensure(ctx context.Context, spec domain.DemoAccountSpec) domain.SeedResult
}
