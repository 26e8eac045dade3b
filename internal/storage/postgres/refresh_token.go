package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rryowa/todoapp/internal/models"
	"github.com/rryowa/todoapp/internal/storage"
)

type RefreshTokenRepository struct {
	db storage.DBTX
}

func NewRefreshTokenRepository(db storage.DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) CreateRefreshToken(ctx context.Context, token models.RefreshToken) (int64, error) {
	query := `INSERT INTO refresh_tokens (user_id, token, jwt_id, is_used, is_revoked, added_date, expired_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		query,
		token.UserID,
		token.Token,
		token.JwtID,
		token.IsUsed,
		token.IsRevoked,
		token.AddedDate,
		token.ExpiredDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return id, nil
}

func (r *RefreshTokenRepository) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `SELECT id, user_id, token, jwt_id, is_used, is_revoked, added_date, expired_date
		FROM refresh_tokens WHERE token = $1`

	var stored models.RefreshToken
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&stored.ID,
		&stored.UserID,
		&stored.Token,
		&stored.JwtID,
		&stored.IsUsed,
		&stored.IsRevoked,
		&stored.AddedDate,
		&stored.ExpiredDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return &stored, nil
}

// MarkRefreshTokenUsed consumes the token. The WHERE clause doubles as the
// concurrency guard: a second redemption matches zero rows and fails with
// ErrRefreshTokenUsed instead of silently succeeding.
func (r *RefreshTokenRepository) MarkRefreshTokenUsed(ctx context.Context, token string) error {
	query := `UPDATE refresh_tokens SET is_used = TRUE
		WHERE token = $1 AND is_used = FALSE AND is_revoked = FALSE`

	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to mark refresh token used: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrRefreshTokenUsed
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	query := `UPDATE refresh_tokens SET is_revoked = TRUE WHERE token = $1`

	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrRefreshTokenNotFound
	}
	return nil
}
