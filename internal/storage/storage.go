package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rryowa/todoapp/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailExists          = errors.New("email already exists")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenUsed     = errors.New("refresh token already used")
	ErrTodoNotFound         = errors.New("todo item not found")
	ErrRoleNotFound         = errors.New("role not found")
	ErrRoleExists           = errors.New("role already exists")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run
// standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Storage interface {
	UserRepository
	RefreshTokenRepository
	TodoRepository
	RoleRepository
}

type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, token models.RefreshToken) (int64, error)
	GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	// MarkRefreshTokenUsed flips is_used with a conditional update and returns
	// ErrRefreshTokenUsed when the row was already consumed or revoked, so at
	// most one of two concurrent redemptions can succeed.
	MarkRefreshTokenUsed(ctx context.Context, token string) error
	RevokeRefreshToken(ctx context.Context, token string) error
}

type TodoRepository interface {
	CreateTodo(ctx context.Context, todo models.Todo) (*models.Todo, error)
	GetTodoByID(ctx context.Context, id int64) (*models.Todo, error)
	GetAllTodos(ctx context.Context) ([]models.Todo, error)
	UpdateTodo(ctx context.Context, todo models.Todo) error
	DeleteTodo(ctx context.Context, id int64) error
}

type RoleRepository interface {
	CreateRole(ctx context.Context, name string) (*models.Role, error)
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
	GetAllRoles(ctx context.Context) ([]models.Role, error)
	AddUserToRole(ctx context.Context, userID string, roleID int64) error
	RemoveUserFromRole(ctx context.Context, userID string, roleID int64) error
	GetUserRoles(ctx context.Context, userID string) ([]models.Role, error)
	GetUserClaims(ctx context.Context, userID string) ([]models.UserClaim, error)
	AddUserClaim(ctx context.Context, claim models.UserClaim) (int64, error)
}

// TokenStorage is the access-token blacklist consulted by the auth middleware.
type TokenStorage interface {
	InvalidateToken(ctx context.Context, token string, expiration time.Duration) error
	IsTokenInvalidated(ctx context.Context, token string) (bool, error)
}
