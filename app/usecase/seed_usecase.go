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

// DefaultCallTimeout bounds each identity-platform or database call made while seeding
const DefaultCallTimeout = 10 * time.Second

// SeedUseCase provisions the demo roster idempotently
type SeedUseCase struct {
	store       port.AccountStore
	roster      []domain.DemoAccountSpec
	password    string
	callTimeout time.Duration
	logger      *slog.Logger
}

// NewSeedUseCase creates a new SeedUseCase instance
func NewSeedUseCase(store port.AccountStore, roster []domain.DemoAccountSpec, callTimeout time.Duration, log *slog.Logger) *SeedUseCase {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &SeedUseCase{
		store:       store,
		roster:      roster,
		password:    domain.DemoDefaultPassword,
		callTimeout: callTimeout,
		logger:      logger.WithComponent(log, "seeder"),
	}
}

// SeedDemoAccounts ensures every roster entry in order. One entry's failure never stops the rest.
func (uc *SeedUseCase) SeedDemoAccounts(ctx context.Context) []domain.SeedResult {
	start := time.Now()
	results := make([]domain.SeedResult, 0, len(uc.roster))

	for _, spec := range uc.roster {
		results = append(results, uc.Ensure(ctx, spec))
	}

	failed := domain.SeedReport{OK: true, Results: results}.Failed()
	logger.LogDuration(uc.logger, start, "seed_demo_accounts",
		"entries", len(results),
		"failed", len(failed))

	return results
}

// Ensure makes sure one account exists and carries its role
func (uc *SeedUseCase) Ensure(ctx context.Context, spec domain.DemoAccountSpec) (result domain.SeedResult) {
	log := logger.WithAccount(uc.logger, spec.Email)
	result = domain.SeedResult{Email: spec.Email, Status: domain.SeedStatusOK}

	defer func() {
		if r := recover(); r != nil {
			log.Error("seeding entry panicked", "panic", r)
			result = domain.SeedResult{
				Email:  spec.Email,
				Status: domain.SeedStatusError,
				Error:  fmt.Sprint(r),
			}
		}
	}()

	accountID, created, err := uc.resolveAccount(ctx, spec, log)
	if err != nil {
		var noUser *noUserError
		if errors.As(err, &noUser) {
			result.Status = domain.SeedStatusErrorNoUser
			result.Error = noUser.cause.Error()
			log.Warn("account could not be created or found", "error", noUser.cause)
			return result
		}
		result.Status = domain.SeedStatusError
		result.Error = err.Error()
		logger.LogError(log, err, "seeding entry failed")
		return result
	}
	result.Created = created

	if err := uc.insertRole(ctx, accountID, spec.Role); err != nil {
		if errors.Is(err, domain.ErrRoleAlreadyAssigned) {
			result.RoleAssigned = true
			return result
		}
		log.Warn("role assignment failed", "role", spec.Role, "account_id", accountID, "error", err)
		return result
	}

	result.RoleAssigned = true
	log.Info("demo account ready", "created", created, "role", spec.Role)
	return result
}

// noUserError marks a failed create that no listing entry could explain
type noUserError struct {
	cause error
}

func (e *noUserError) Error() string {
	return "account not found after failed create: " + e.cause.Error()
}

func (uc *SeedUseCase) resolveAccount(ctx context.Context, spec domain.DemoAccountSpec, log *slog.Logger) (string, bool, error) {
	created, createErr := uc.createAccount(ctx, spec)
	if createErr == nil && created != nil && created.ID != "" {
		return created.ID, true, nil
	}
	if createErr == nil {
		createErr = errors.New("identity platform returned no account id")
	}

	log.Debug("create failed, looking up existing account", "error", createErr)

	accounts, err := uc.listAccounts(ctx)
	if err != nil {
		return "", false, err
	}

	existing, ok := domain.FindAccountByEmail(accounts, spec.Email)
	if !ok {
		return "", false, &noUserError{cause: createErr}
	}
	return existing.ID, false, nil
}

func (uc *SeedUseCase) createAccount(ctx context.Context, spec domain.DemoAccountSpec) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.callTimeout)
	defer cancel()
	return uc.store.CreateAccount(ctx, domain.NewAccountFromSpec(spec, uc.password))
}

func (uc *SeedUseCase) listAccounts(ctx context.Context) ([]domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.callTimeout)
	defer cancel()
	return uc.store.ListAccounts(ctx)
}

func (uc *SeedUseCase) insertRole(ctx context.Context, accountID string, role domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, uc.callTimeout)
	defer cancel()
	return uc.store.InsertRole(ctx, accountID, role)
}
