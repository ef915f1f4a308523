package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user by their id
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	ctx := context.Background()
	var user domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, token_hash, created_at
		FROM users
		WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.TokenHash, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByTokenHash retrieves the user owning the API token with the given hash
func (r *UserRepository) GetByTokenHash(tokenHash string) (*domain.User, error) {
	ctx := context.Background()
	var user domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, token_hash, created_at
		FROM users
		WHERE token_hash = $1`,
		tokenHash,
	).Scan(&user.ID, &user.Username, &user.TokenHash, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
