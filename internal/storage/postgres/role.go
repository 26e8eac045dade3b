package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/rryowa/todoapp/internal/models"
	"github.com/rryowa/todoapp/internal/storage"
)

type RoleRepository struct {
	db storage.DBTX
}

func NewRoleRepository(db storage.DBTX) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) CreateRole(ctx context.Context, name string) (*models.Role, error) {
	query := `INSERT INTO roles (name) VALUES ($1) RETURNING id, name`

	var role models.Role
	err := r.db.QueryRowContext(ctx, query, name).Scan(&role.ID, &role.Name)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, storage.ErrRoleExists
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	query := `SELECT id, name FROM roles WHERE name = $1`

	var role models.Role
	err := r.db.QueryRowContext(ctx, query, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) GetAllRoles(ctx context.Context) ([]models.Role, error) {
	query := `SELECT id, name FROM roles ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *RoleRepository) AddUserToRole(ctx context.Context, userID string, roleID int64) error {
	query := `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, roleID); err != nil {
		return fmt.Errorf("failed to add user to role: %w", err)
	}
	return nil
}

func (r *RoleRepository) RemoveUserFromRole(ctx context.Context, userID string, roleID int64) error {
	query := `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, roleID); err != nil {
		return fmt.Errorf("failed to remove user from role: %w", err)
	}
	return nil
}

func (r *RoleRepository) GetUserRoles(ctx context.Context, userID string) ([]models.Role, error) {
	query := `SELECT r.id, r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1 ORDER BY r.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *RoleRepository) GetUserClaims(ctx context.Context, userID string) ([]models.UserClaim, error) {
	query := `SELECT id, user_id, claim_name, claim_value FROM user_claims WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user claims: %w", err)
	}
	defer rows.Close()

	var claims []models.UserClaim
	for rows.Next() {
		var claim models.UserClaim
		if err := rows.Scan(&claim.ID, &claim.UserID, &claim.Name, &claim.Value); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

func (r *RoleRepository) AddUserClaim(ctx context.Context, claim models.UserClaim) (int64, error) {
	query := `INSERT INTO user_claims (user_id, claim_name, claim_value) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, claim.UserID, claim.Name, claim.Value).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to add user claim: %w", err)
	}
	return id, nil
}
