package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is a professional or admin account row.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken is a stored session row, keyed by token hash. RevokedAt is
// kept so a replayed rotated token can be told apart from an unknown one.
type RefreshToken struct {
	UserID    uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// AuthRepository is the persistence port for accounts and refresh tokens.
// Admin standing is a row in admin_users, not a column on users, so it can
// be granted and revoked without touching the account.
type AuthRepository interface {
	CreateUser(ctx context.Context, email, passwordHash string, fullName *string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)

	// IsAdmin reports whether the user has a row in admin_users.
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	// GrantAdmin inserts the admin_users row. Idempotent.
	GrantAdmin(ctx context.Context, userID uuid.UUID) error

	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

var _ AuthRepository = (*Repository)(nil)
