package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"portal-service/app/domain"
	"portal-service/app/port"
)

const uniqueViolation = "23505"

const (
	insertRoleQuery = `
		INSERT INTO user_roles (id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)`

	listRolesQuery = `
		SELECT role FROM user_roles
		WHERE user_id = $1
		ORDER BY created_at, role`
)

// RoleRepository implements port.RoleRepository for PostgreSQL
type RoleRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewRoleRepository creates a new PostgreSQL role repository
func NewRoleRepository(db DatabaseIface, logger *slog.Logger) port.RoleRepository {
	return &RoleRepository{
		db:     db,
		logger: logger.With("component", "role_repository"),
	}
}

// InsertRole stores one role row. A row that already exists for the
// same account and role is reported as domain.ErrRoleAlreadyAssigned.
func (r *RoleRepository) InsertRole(ctx context.Context, assignment *domain.RoleAssignment) error {
	_, err := r.db.Exec(ctx, insertRoleQuery,
		assignment.ID,
		assignment.AccountID,
		string(assignment.Role),
		assignment.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Debug("role already assigned",
				"user_id", assignment.AccountID,
				"role", assignment.Role)
			return fmt.Errorf("%w: %s for %s", domain.ErrRoleAlreadyAssigned, assignment.Role, assignment.AccountID)
		}
		return fmt.Errorf("failed to insert role: %w", err)
	}

	r.logger.Info("role assigned", "user_id", assignment.AccountID, "role", assignment.Role)
	return nil
}

// ListRoles returns every role stored for the account, oldest first
func (r *RoleRepository) ListRoles(ctx context.Context, accountID string) ([]domain.Role, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAccountID, accountID)
	}

	rows, err := r.db.Query(ctx, listRolesQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	roles := []domain.Role{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		role, err := domain.ParseRole(raw)
		if err != nil {
			r.logger.Warn("skipping unknown role", "user_id", accountID, "role", raw)
			continue
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roles: %w", err)
	}

	return roles, nil
}
